package recipe

import (
	"net/http"

	"beersmith-bridge/internal/core/match"
	"beersmith-bridge/internal/core/record"
	recipeService "beersmith-bridge/internal/core/recipe"
	"beersmith-bridge/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler BeerSmith 資料庫的 HTTP 處理程序
type Handler struct {
	ingredients *recipeService.IngredientService
	recipes     *recipeService.RecipeService
	prices      *recipeService.PriceService
	suggestions *recipeService.SuggestionService
	updates     *recipeService.UpdateService
	stock       recipeService.StockSource // 未設定 Grocy 時為 nil
}

// NewHandler 創建新的處理程序
func NewHandler(
	ingredients *recipeService.IngredientService,
	recipes *recipeService.RecipeService,
	prices *recipeService.PriceService,
	suggestions *recipeService.SuggestionService,
	updates *recipeService.UpdateService,
	stock recipeService.StockSource,
) *Handler {
	return &Handler{
		ingredients: ingredients,
		recipes:     recipes,
		prices:      prices,
		suggestions: suggestions,
		updates:     updates,
		stock:       stock,
	}
}

// respondError 依錯誤代碼回應；查無資料時附上相近的候選
func respondError(c *gin.Context, err error, suggestions []match.Result) {
	ce := common.AsCustomError(err)
	status := ce.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}

	resp := common.ErrorResponse{Code: ce.Code, Message: ce.Message}
	if ce.Err != nil {
		resp.Details = ce.Err.Error()
	}
	if len(suggestions) > 0 {
		resp.Suggestions = suggestions
	}

	fields := []zap.Field{
		zap.String("request_id", requestid.Get(c)),
		zap.String("path", c.Request.URL.Path),
		zap.String("code", ce.Code),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		common.LogError("請求處理失敗", fields...)
	} else {
		common.LogDebug("請求被拒絕", fields...)
	}
	c.AbortWithStatusJSON(status, resp)
}

// kindParam 解析路徑中的種類
func kindParam(c *gin.Context) (record.Kind, bool) {
	kind, err := record.ParseKind(c.Param("kind"))
	if err != nil {
		respondError(c, err, nil)
		return "", false
	}
	return kind, true
}

// bindJSON 解析請求體，失敗時回應 400
func bindJSON(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		respondError(c, common.Wrapf(common.ErrInvalidRequest, "invalid request body: %v", err), nil)
		return false
	}
	return true
}
