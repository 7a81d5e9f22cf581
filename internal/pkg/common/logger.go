package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger 全局日誌實例，初始化前為 Nop
var Logger = zap.NewNop()

// concise 模式開啟時 LogInfo 只輸出 keepInConcise 中的訊息
var (
	concise       atomic.Bool
	keepInConcise = map[string]struct{}{
		"請求完成":                    {},
		"啟動應用":                    {},
		"資料載入完成":                  {},
		"欄位更新完成":                  {},
		"Server exited":           {},
		"Shutting down server...": {},
	}
)

// LogOptions 日誌初始化參數
type LogOptions struct {
	Level   string
	Dir     string // 空字串表示不寫檔
	Concise bool
	Service string
}

func encoderConfig(color bool) zapcore.EncoderConfig {
	cfg := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout("15:04:05.000"),
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	if color {
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return cfg
}

// ParseLevel 將字串轉為日誌級別，未知值視為 info
func ParseLevel(s string) zapcore.Level {
	if strings.EqualFold(s, "warning") {
		return zapcore.WarnLevel
	}
	level, err := zapcore.ParseLevel(strings.ToLower(s))
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

// InitLogger 初始化日誌系統：終端輸出加上可選的 JSON 檔案
func InitLogger(opts LogOptions) error {
	level := ParseLevel(opts.Level)
	concise.Store(opts.Concise)

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig(true)), zapcore.Lock(os.Stdout), level),
	}

	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(filepath.Join(opts.Dir, "app.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig(false)), zapcore.AddSync(f), level))
	}

	service := opts.Service
	if service == "" {
		service = "beersmith-bridge"
	}
	Logger = zap.New(zapcore.NewTee(cores...),
		zap.AddCallerSkip(1),
		zap.Fields(zap.String("service", service)),
	)
	zap.ReplaceGlobals(Logger)
	return nil
}

// scrub 移除整份 XML 或請求體，這些欄位會讓日誌暴增
func scrub(fields []zap.Field) []zap.Field {
	out := fields[:0:0]
	for _, f := range fields {
		if f.Key == "raw" || strings.HasSuffix(f.Key, "_xml") || strings.HasSuffix(f.Key, "_body") {
			continue
		}
		out = append(out, f)
	}
	return out
}

// LogInfo 記錄信息日誌
func LogInfo(msg string, fields ...zap.Field) {
	if concise.Load() {
		if _, ok := keepInConcise[msg]; !ok {
			return
		}
	}
	Logger.Info(msg, scrub(fields)...)
}

// LogError 記錄錯誤日誌
func LogError(msg string, fields ...zap.Field) { Logger.Error(msg, scrub(fields)...) }

// LogWarn 記錄警告日誌
func LogWarn(msg string, fields ...zap.Field) { Logger.Warn(msg, scrub(fields)...) }

// LogDebug 記錄調試日誌
func LogDebug(msg string, fields ...zap.Field) { Logger.Debug(msg, scrub(fields)...) }

// LogFatal 記錄致命錯誤後結束程序
func LogFatal(msg string, fields ...zap.Field) { Logger.Fatal(msg, fields...) }

// Sync 同步日誌緩衝
func Sync() { _ = Logger.Sync() }

// LogCacheHit 記錄快取命中
func LogCacheHit(cacheType, key string) {
	LogDebug("快取命中", zap.String("type", cacheType), zap.String("key", key))
}

// LogCacheMiss 記錄快取未命中
func LogCacheMiss(cacheType, key string) {
	LogDebug("快取未命中", zap.String("type", cacheType), zap.String("key", key))
}
