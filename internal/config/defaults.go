package config

const (
	defaultAppEnv      = "dev"
	defaultAppLogLevel = "info"
	defaultAppHTTPAddr = ":8080"

	defaultBotSymbol       = "BTC"
	defaultBotShortMA      = 20
	defaultBotLongMA       = 50
	defaultBotTradePct     = 0.1
	defaultBotTrainingMS   = 50
	defaultBotLiveSeconds  = 7
	defaultBotInitialCash  = 10000
	defaultStorePath       = "data/trading-bot.db"
	defaultFeedProvider    = "coinbase"
	defaultFeedAPIURL      = "https://api.coinbase.com/v2/exchange-rates?currency=BTC"
	defaultFeedTimeoutSecs = 5
)

func (c *Config) applyDefaults() {
	c.App.applyDefaults()
	c.Bot.applyDefaults()
	c.Store.applyDefaults()
	c.Feed.applyDefaults()
}

func (a *AppConfig) applyDefaults() {
	if a.Env == "" {
		a.Env = defaultAppEnv
	}
	if a.LogLevel == "" {
		a.LogLevel = defaultAppLogLevel
	}
	if a.HTTPAddr == "" {
		a.HTTPAddr = defaultAppHTTPAddr
	}
}

func (b *BotConfig) applyDefaults() {
	if b.Symbol == "" {
		b.Symbol = defaultBotSymbol
	}
	if b.ShortMAPeriod <= 0 {
		b.ShortMAPeriod = defaultBotShortMA
	}
	if b.LongMAPeriod <= 0 {
		b.LongMAPeriod = defaultBotLongMA
	}
	if b.TradePercentage <= 0 {
		b.TradePercentage = defaultBotTradePct
	}
	if b.TrainingIntervalMS <= 0 {
		b.TrainingIntervalMS = defaultBotTrainingMS
	}
	if b.LiveIntervalSeconds <= 0 {
		b.LiveIntervalSeconds = defaultBotLiveSeconds
	}
	if b.InitialBalance <= 0 {
		b.InitialBalance = defaultBotInitialCash
	}
}

func (s *StoreConfig) applyDefaults() {
	if s.Path == "" {
		s.Path = defaultStorePath
	}
}

func (f *FeedConfig) applyDefaults() {
	if f.Provider == "" {
		f.Provider = defaultFeedProvider
	}
	if f.APIURL == "" {
		f.APIURL = defaultFeedAPIURL
	}
	if f.TimeoutSeconds <= 0 {
		f.TimeoutSeconds = defaultFeedTimeoutSecs
	}
}
