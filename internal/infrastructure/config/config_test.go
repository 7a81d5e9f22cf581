package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("BEERSMITH_DATA_DIR", dir)
	t.Setenv("APP_CONFIG_FILE", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.BeerSmith.DataDir)
	assert.Equal(t, "backups", cfg.BeerSmith.BackupDir)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 0.6, cfg.Matching.Threshold)
	assert.Equal(t, 3, cfg.Matching.Limit)
	assert.Equal(t, 0.5, cfg.Matching.MinCoverage)
	assert.Equal(t, time.Second, cfg.DedupWindow)
	assert.False(t, cfg.Grocy.Enabled)

	prefs := cfg.Preferences()
	assert.Equal(t, "USD", prefs.UserCurrency)
	assert.Equal(t, "oz", prefs.UserUnit)
}

func TestLoadConfigFileRates(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	body := `
currency:
  user_currency: gbp
  host_currency: EUR
  user_unit: KG
  rates:
    EUR_to_GBP: 0.86
`
	require.NoError(t, os.WriteFile(file, []byte(body), 0o644))
	t.Setenv("BEERSMITH_DATA_DIR", dir)
	t.Setenv("APP_CONFIG_FILE", file)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	prefs := cfg.Preferences()
	assert.Equal(t, "GBP", prefs.UserCurrency)
	assert.Equal(t, "EUR", prefs.HostCurrency)
	assert.Equal(t, "kg", prefs.UserUnit)

	// viper 會將鍵轉為小寫，查找必須不分大小寫
	rate, ok := prefs.Rates.Lookup("EUR", "GBP")
	require.True(t, ok)
	assert.InDelta(t, 0.86, rate, 1e-9)

	_, ok = prefs.Rates.Lookup("GBP", "EUR")
	assert.False(t, ok)
}

func TestLoadConfigRequiresDataDir(t *testing.T) {
	t.Setenv("BEERSMITH_DATA_DIR", "")
	t.Setenv("APP_CONFIG_FILE", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data dir")
}

func TestValidateConfigGrocy(t *testing.T) {
	cfg := &Config{
		Server:    ServerConfig{Port: 8080},
		BeerSmith: BeerSmithConfig{DataDir: "x", BackupDir: "b"},
		Currency:  CurrencyConfig{UserCurrency: "USD", HostCurrency: "USD"},
		Matching:  MatchingConfig{Threshold: 0.6, Limit: 3, MinCoverage: 0.5},
		Queue:     QueueConfig{MaxSize: 1},
		Grocy:     GrocyConfig{Enabled: true},
	}
	assert.Error(t, validateConfig(cfg))

	cfg.Grocy.BaseURL = "http://grocy.local"
	assert.NoError(t, validateConfig(cfg))

	cfg.Currency.Rates = map[string]float64{"EUR_to_GBP": -1}
	assert.Error(t, validateConfig(cfg))
}
