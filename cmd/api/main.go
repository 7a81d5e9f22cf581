package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"beersmith-bridge/internal/api"
	"beersmith-bridge/internal/core/cache"
	"beersmith-bridge/internal/core/catalog"
	"beersmith-bridge/internal/core/match"
	"beersmith-bridge/internal/core/mutation"
	"beersmith-bridge/internal/core/queue"
	recipeService "beersmith-bridge/internal/core/recipe"
	"beersmith-bridge/internal/infrastructure/config"
	"beersmith-bridge/internal/infrastructure/grocy"
	"beersmith-bridge/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	// 載入設定（含選用的 .env）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(common.LogOptions{
		Level:   cfg.LogLevel,
		Dir:     cfg.LogDir,
		Concise: cfg.LogMode == "concise",
		Service: cfg.App.Name,
	}); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("data_dir", cfg.BeerSmith.DataDir),
		zap.String("recipe_dir", cfg.BeerSmith.RecipeDir),
		zap.String("backup_dir", cfg.BeerSmith.BackupDir),
		zap.String("user_currency", cfg.Currency.UserCurrency),
		zap.String("user_unit", cfg.Currency.UserUnit),
	)

	// 載入資料；個別檔案失敗只會留下警告
	store := catalog.NewStore(cfg.BeerSmith.DataDir, cfg.BeerSmith.RecipeDir)
	store.Load()

	// 初始化快取
	cacheStore, err := cache.New(cfg)
	if err != nil {
		common.LogFatal("Failed to initialize cache", zap.Error(err))
	}
	if closer, ok := cacheStore.(io.Closer); ok {
		defer closer.Close()
	}

	matcher := match.New(cfg.Matching.Threshold, cfg.Matching.Limit)

	// 寫入一律經由單一工作者的隊列
	gateway := mutation.NewGateway(store, mutation.NewDirBackuper(cfg.BeerSmith.BackupDir), cfg.Preferences())
	queueManager := queue.NewManager(cfg, gateway)
	queueManager.Start()
	defer queueManager.Close()

	var stock recipeService.StockSource
	if cfg.Grocy.Enabled {
		stock = grocy.NewClient(&cfg.Grocy)
	}

	router, err := api.SetupRouter(cfg, api.Dependencies{
		Store:   store,
		Matcher: matcher,
		Cache:   cacheStore,
		Queue:   queueManager,
		Stock:   stock,
	})
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Int("port", cfg.Server.Port),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogFatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
		return
	}

	common.LogInfo("Server exited")
}
