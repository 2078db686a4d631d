package config

import "time"

// Config is the top-level configuration carrier.
type Config struct {
	App    AppConfig    `mapstructure:"app"`
	Bot    BotConfig    `mapstructure:"bot"`
	Store  StoreConfig  `mapstructure:"store"`
	Feed   FeedConfig   `mapstructure:"feed"`
	Notify NotifyConfig `mapstructure:"notify"`
}

type AppConfig struct {
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
	HTTPAddr string `mapstructure:"http_addr"`
	LogPath  string `mapstructure:"log_path"`
}

// BotConfig holds the strategy and scheduling parameters.
type BotConfig struct {
	Symbol              string  `mapstructure:"symbol"`
	ShortMAPeriod       int     `mapstructure:"short_ma_period"`
	LongMAPeriod        int     `mapstructure:"long_ma_period"`
	TradePercentage     float64 `mapstructure:"trade_percentage"`
	TrainingIntervalMS  int     `mapstructure:"training_interval_ms"`
	LiveIntervalSeconds int     `mapstructure:"live_interval_seconds"`
	InitialBalance      float64 `mapstructure:"initial_balance"`
}

// TrainingInterval returns the training loop period.
func (b BotConfig) TrainingInterval() time.Duration {
	return time.Duration(b.TrainingIntervalMS) * time.Millisecond
}

// LiveInterval returns the live polling period, bounded by feed rate limits.
func (b BotConfig) LiveInterval() time.Duration {
	return time.Duration(b.LiveIntervalSeconds) * time.Second
}

type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// FeedConfig selects and configures the live price source.
type FeedConfig struct {
	Provider       string `mapstructure:"provider"` // "coinbase" | "binance"
	APIURL         string `mapstructure:"api_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

func (f FeedConfig) Timeout() time.Duration {
	return time.Duration(f.TimeoutSeconds) * time.Second
}

type NotifyConfig struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
}

type TelegramConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}
