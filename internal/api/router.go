package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"beersmith-bridge/internal/api/handlers/health"
	recipeHandler "beersmith-bridge/internal/api/handlers/recipe"
	"beersmith-bridge/internal/api/middleware"
	"beersmith-bridge/internal/core/cache"
	"beersmith-bridge/internal/core/catalog"
	"beersmith-bridge/internal/core/feasibility"
	"beersmith-bridge/internal/core/match"
	"beersmith-bridge/internal/core/queue"
	recipeService "beersmith-bridge/internal/core/recipe"
	"beersmith-bridge/internal/infrastructure/config"
	"beersmith-bridge/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 超時設置
	timeoutDuration = 30 * time.Second
	// 請求體大小限制 (1MB)
	maxBodySize = 1 << 20
)

// Dependencies 路由需要的核心元件
type Dependencies struct {
	Store   *catalog.Store
	Matcher *match.Matcher
	Cache   cache.Store               // 可為 nil
	Queue   *queue.Manager
	Stock   recipeService.StockSource // 未啟用 Grocy 時為 nil
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, deps Dependencies) (*gin.Engine, error) {
	if deps.Store == nil || deps.Matcher == nil || deps.Queue == nil {
		return nil, errors.New("router requires store, matcher and queue")
	}

	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(maxBodySize))

	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	// 初始化服務
	base := recipeService.NewService(deps.Store, deps.Matcher, deps.Cache)
	scorer := feasibility.NewScorer(deps.Matcher, cfg.Matching.SuggestThreshold, cfg.Matching.MinCoverage)

	ingredientSvc := recipeService.NewIngredientService(base)
	recipeSvc := recipeService.NewRecipeService(base)
	priceSvc := recipeService.NewPriceService(base, cfg.Preferences())
	suggestionSvc := recipeService.NewSuggestionService(base, scorer)
	updateSvc := recipeService.NewUpdateService(base, deps.Queue)

	common.LogInfo("Services initialized",
		zap.Bool("cache_enabled", deps.Cache != nil),
		zap.Bool("grocy_enabled", deps.Stock != nil),
		zap.Float64("match_threshold", deps.Matcher.Threshold),
		zap.Duration("timeout", timeoutDuration),
	)

	// 全局中間件：設置超時和共用元件
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Set("config", cfg)
		c.Set("store", deps.Store)
		c.Set("queue", deps.Queue)

		c.Next()

		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", requestid.Get(c)),
				zap.Duration("timeout", timeoutDuration),
			)
			c.AbortWithStatusJSON(http.StatusGatewayTimeout, common.ErrorResponse{
				Code:    common.ErrRequestTimeout.Code,
				Message: common.ErrRequestTimeout.Message,
				Details: "timeout " + timeoutDuration.String(),
			})
		}
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	h := recipeHandler.NewHandler(ingredientSvc, recipeSvc, priceSvc, suggestionSvc, updateSvc, deps.Stock)

	api := router.Group("/api/v1")
	{
		ingredients := api.Group("/ingredients")
		{
			ingredients.GET("/:kind", h.HandleListIngredients)
			ingredients.GET("/:kind/:name", h.HandleGetIngredient)
			ingredients.GET("/:kind/:name/price", h.HandleIngredientPrice)
			ingredients.PATCH("/:kind/:name", middleware.Deduplication(cfg), h.HandleUpdateIngredient)
		}

		api.GET("/search", h.HandleSearch)
		api.POST("/match", h.HandleMatch)
		api.GET("/hops/:name/substitutes", h.HandleSubstitutes)
		api.GET("/water/:name/profile", h.HandleWaterProfile)
		api.GET("/mash", h.HandleListMash)
		api.GET("/mash/:name", h.HandleMashProfile)

		recipes := api.Group("/recipes")
		{
			recipes.GET("", h.HandleListRecipes)
			recipes.POST("/suggest", h.HandleSuggest)
			recipes.GET("/:name", h.HandleGetRecipe)
			recipes.GET("/:name/validate", h.HandleValidateRecipe)
			recipes.GET("/:name/beerxml", h.HandleBeerXML)
		}

		api.POST("/prices/convert", h.HandleConvertPrice)
		api.GET("/inventory/grocy/suggest", h.HandleStockSuggest)
		api.POST("/reload", recipeHandler.HandleReload(deps.Store))
	}

	common.LogInfo("Router setup completed successfully",
		zap.String("version", cfg.App.Version),
		zap.String("data_dir", deps.Store.DataDir()),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
