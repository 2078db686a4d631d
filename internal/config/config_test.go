package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "bot:\n  symbol: ETH\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ETH", cfg.Bot.Symbol)
	assert.Equal(t, 20, cfg.Bot.ShortMAPeriod)
	assert.Equal(t, 50, cfg.Bot.LongMAPeriod)
	assert.Equal(t, 50*time.Millisecond, cfg.Bot.TrainingInterval())
	assert.Equal(t, 7*time.Second, cfg.Bot.LiveInterval())
	assert.Equal(t, ":8080", cfg.App.HTTPAddr)
	assert.Equal(t, "coinbase", cfg.Feed.Provider)
	assert.Equal(t, "data/trading-bot.db", cfg.Store.Path)
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
app:
  log_level: debug
bot:
  symbol: btc
  short_ma_period: 5
  long_ma_period: 15
  trade_percentage: 0.25
feed:
  provider: binance
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, 5, cfg.Bot.ShortMAPeriod)
	assert.Equal(t, 15, cfg.Bot.LongMAPeriod)
	assert.Equal(t, 0.25, cfg.Bot.TradePercentage)
	assert.Equal(t, "binance", cfg.Feed.Provider)
}

func TestLoadRejectsInvertedPeriods(t *testing.T) {
	path := writeConfig(t, `
bot:
  symbol: BTC
  short_ma_period: 50
  long_ma_period: 20
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsBadTradePercentage(t *testing.T) {
	path := writeConfig(t, `
bot:
  symbol: BTC
  trade_percentage: 1.5
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsUnknownFeedProvider(t *testing.T) {
	path := writeConfig(t, `
feed:
  provider: kraken
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsIncompleteTelegram(t *testing.T) {
	path := writeConfig(t, `
notify:
  telegram:
    enabled: true
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	assert.NoError(t, validate(cfg))
}
