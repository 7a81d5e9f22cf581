package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"beersmith-bridge/internal/pkg/common"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App         AppConfig       `mapstructure:"app"`
	Server      ServerConfig    `mapstructure:"server"`
	BeerSmith   BeerSmithConfig `mapstructure:"beersmith"`
	Currency    CurrencyConfig  `mapstructure:"currency"`
	Matching    MatchingConfig  `mapstructure:"matching"`
	Cache       CacheConfig     `mapstructure:"cache"`
	Queue       QueueConfig     `mapstructure:"queue"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
	Grocy       GrocyConfig     `mapstructure:"grocy"`
	DedupWindow time.Duration   `mapstructure:"dedup_window"`
	LogLevel    string          `mapstructure:"log_level"`
	LogDir      string          `mapstructure:"log_dir"`
	LogMode     string          `mapstructure:"log_mode"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// BeerSmithConfig BeerSmith 資料目錄設定
type BeerSmithConfig struct {
	DataDir   string `mapstructure:"data_dir"`   // 內含 Hops.bsmx 等資料檔
	RecipeDir string `mapstructure:"recipe_dir"` // 額外的獨立食譜檔目錄，可留空
	BackupDir string `mapstructure:"backup_dir"` // 寫入前的備份目錄
}

// CurrencyConfig 貨幣與顯示單位設定
type CurrencyConfig struct {
	UserCurrency string             `mapstructure:"user_currency"`
	UserUnit     string             `mapstructure:"user_unit"`
	HostCurrency string             `mapstructure:"host_currency"`
	Rates        map[string]float64 `mapstructure:"rates"`
}

// MatchingConfig 模糊比對設定
type MatchingConfig struct {
	Threshold        float64 `mapstructure:"threshold"`
	Limit            int     `mapstructure:"limit"`
	SuggestThreshold float64 `mapstructure:"suggest_threshold"`
	MinCoverage      float64 `mapstructure:"min_coverage"`
}

// CacheConfig 緩存配置
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	RedisAddr       string        `mapstructure:"redis_addr"` // 留空則只用記憶體快取
	RedisPassword   string        `mapstructure:"redis_password"`
	RedisDB         int           `mapstructure:"redis_db"`
}

// QueueConfig 寫入隊列設定
type QueueConfig struct {
	MaxSize int `mapstructure:"max_size"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// GrocyConfig Grocy 庫存服務設定
type GrocyConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Preferences 由設定組出預設的顯示偏好
func (c *Config) Preferences() common.Preferences {
	rates := make(common.Rates, len(c.Currency.Rates))
	for k, v := range c.Currency.Rates {
		rates[k] = v
	}
	return common.Preferences{
		UserCurrency: strings.ToUpper(c.Currency.UserCurrency),
		UserUnit:     strings.ToLower(c.Currency.UserUnit),
		HostCurrency: strings.ToUpper(c.Currency.HostCurrency),
		Rates:        rates,
	}
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// .env 為選用
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 綁定常用環境變量
	v.BindEnv("beersmith.data_dir", "BEERSMITH_DATA_DIR")
	v.BindEnv("beersmith.recipe_dir", "BEERSMITH_RECIPE_DIR")
	v.BindEnv("beersmith.backup_dir", "BEERSMITH_BACKUP_DIR")
	v.BindEnv("currency.user_currency", "USER_CURRENCY")
	v.BindEnv("currency.user_unit", "USER_UNIT")
	v.BindEnv("currency.host_currency", "HOST_CURRENCY")
	v.BindEnv("grocy.enabled", "GROCY_ENABLED")
	v.BindEnv("grocy.base_url", "GROCY_BASE_URL")
	v.BindEnv("grocy.api_key", "GROCY_API_KEY")
	v.BindEnv("cache.enabled", "CACHE_ENABLED")
	v.BindEnv("cache.redis_addr", "REDIS_ADDR")
	v.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	v.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	v.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	v.BindEnv("dedup_window", "DEDUP_WINDOW")
	v.BindEnv("log_level", "LOG_LEVEL")
	v.BindEnv("log_dir", "LOG_DIR")
	v.BindEnv("log_mode", "LOG_MODE")

	// 匯率表只能由設定檔提供
	if file := os.Getenv("APP_CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	fmt.Println("Loading configuration", "data_dir:", config.BeerSmith.DataDir, "grocy_api_key:", maskAPIKey(config.Grocy.APIKey))

	return &config, nil
}

// maskAPIKey 遮罩 API Key，只顯示前後各 4 個字符
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	// 應用程式設定
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "beersmith-bridge")

	// 伺服器設定
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")

	// BeerSmith 資料設定
	v.SetDefault("beersmith.data_dir", "")
	v.SetDefault("beersmith.recipe_dir", "")
	v.SetDefault("beersmith.backup_dir", "backups")

	// 貨幣設定
	v.SetDefault("currency.user_currency", "USD")
	v.SetDefault("currency.user_unit", "oz")
	v.SetDefault("currency.host_currency", "USD")
	v.SetDefault("currency.rates", map[string]float64{})

	// 比對設定
	v.SetDefault("matching.threshold", 0.6)
	v.SetDefault("matching.limit", 3)
	v.SetDefault("matching.suggest_threshold", 0.6)
	v.SetDefault("matching.min_coverage", 0.5)

	// 快取設定
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.max_size", 1000)
	v.SetDefault("cache.ttl", "10m")
	v.SetDefault("cache.cleanup_interval", "5m")
	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.redis_db", 0)

	// 隊列設定
	v.SetDefault("queue.max_size", 32)

	// 限流設定
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", "1m")

	// Grocy 設定
	v.SetDefault("grocy.enabled", false)
	v.SetDefault("grocy.timeout", "10s")

	v.SetDefault("dedup_window", "1s")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_dir", "logs")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	if strings.TrimSpace(config.BeerSmith.DataDir) == "" {
		return fmt.Errorf("beersmith data dir is required")
	}
	if strings.TrimSpace(config.BeerSmith.BackupDir) == "" {
		return fmt.Errorf("beersmith backup dir is required")
	}

	if len(config.Currency.UserCurrency) != 3 || len(config.Currency.HostCurrency) != 3 {
		return fmt.Errorf("currency codes must be three letters")
	}
	for key, rate := range config.Currency.Rates {
		if rate <= 0 {
			return fmt.Errorf("invalid rate %s: %v", key, rate)
		}
	}

	if config.Matching.Threshold < 0 || config.Matching.Threshold > 1 {
		return fmt.Errorf("invalid matching threshold")
	}
	if config.Matching.Limit <= 0 {
		return fmt.Errorf("invalid matching limit")
	}
	if config.Matching.MinCoverage <= 0 || config.Matching.MinCoverage > 1 {
		return fmt.Errorf("invalid min coverage")
	}

	if config.Cache.Enabled {
		if config.Cache.MaxSize <= 0 {
			return fmt.Errorf("invalid cache max size")
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
		if config.Cache.CleanupInterval <= 0 {
			return fmt.Errorf("invalid cache cleanup interval")
		}
	}

	if config.Queue.MaxSize <= 0 {
		return fmt.Errorf("invalid queue max size")
	}

	if config.Grocy.Enabled && strings.TrimSpace(config.Grocy.BaseURL) == "" {
		return fmt.Errorf("grocy base url is required when grocy is enabled")
	}

	return nil
}
