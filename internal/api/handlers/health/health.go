package health

import (
	"net/http"
	"runtime"
	"time"

	"beersmith-bridge/internal/core/catalog"
	"beersmith-bridge/internal/core/queue"
	"beersmith-bridge/internal/infrastructure/config"
	"beersmith-bridge/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
	Data      *DataStatus            `json:"data,omitempty"`
	Queue     *queue.Status          `json:"queue,omitempty"`
}

// DataStatus 資料快照狀態
type DataStatus struct {
	DataDir    string               `json:"data_dir"`
	Generation uint64               `json:"generation"`
	LoadedAt   time.Time            `json:"loaded_at"`
	Warnings   int                  `json:"warnings"`
	Kinds      []catalog.KindStatus `json:"kinds"`
}

// HealthCheck 健康檢查處理器
func HealthCheck(c *gin.Context) {
	// 獲取配置
	cfg, exists := c.Get("config")
	if !exists {
		common.LogError("Configuration not found in context")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Configuration not found",
		})
		return
	}
	config, ok := cfg.(*config.Config)
	if !ok {
		common.LogError("Invalid configuration type in context")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Invalid configuration type",
		})
		return
	}

	// 獲取運行時信息
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   config.App.Version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}

	if store := storeFrom(c); store != nil {
		snap := store.Snapshot()
		response.Data = &DataStatus{
			DataDir:    store.DataDir(),
			Generation: snap.Generation,
			LoadedAt:   snap.LoadedAt,
			Warnings:   snap.WarningCount(),
			Kinds:      snap.Status(),
		}
		if snap.Generation == 0 {
			response.Status = "loading"
		}
	}

	if v, ok := c.Get("queue"); ok {
		if qm, ok := v.(*queue.Manager); ok && qm != nil {
			response.Queue = qm.GetQueueStatus()
		}
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查處理器；資料尚未載入時回 503
func ReadinessCheck(c *gin.Context) {
	store := storeFrom(c)
	if store == nil || store.Snapshot().Generation == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not_ready",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"generation": store.Snapshot().Generation,
	})
}

// LivenessCheck 存活檢查處理器
func LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}

func storeFrom(c *gin.Context) *catalog.Store {
	v, ok := c.Get("store")
	if !ok {
		return nil
	}
	store, _ := v.(*catalog.Store)
	return store
}
