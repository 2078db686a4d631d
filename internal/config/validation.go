package config

import (
	"fmt"
	"strings"
)

func validate(c *Config) error {
	if err := c.Bot.validate(); err != nil {
		return err
	}
	if err := c.Feed.validate(); err != nil {
		return err
	}
	if err := c.Notify.validate(); err != nil {
		return err
	}
	return nil
}

func (b *BotConfig) validate() error {
	if strings.TrimSpace(b.Symbol) == "" {
		return fmt.Errorf("bot.symbol is required")
	}
	if b.ShortMAPeriod >= b.LongMAPeriod {
		return fmt.Errorf("bot.short_ma_period (%d) must be less than bot.long_ma_period (%d)",
			b.ShortMAPeriod, b.LongMAPeriod)
	}
	if b.TradePercentage <= 0 || b.TradePercentage > 1 {
		return fmt.Errorf("bot.trade_percentage must be in (0, 1], got %v", b.TradePercentage)
	}
	return nil
}

func (f *FeedConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(f.Provider)) {
	case "coinbase", "binance":
		return nil
	default:
		return fmt.Errorf("feed.provider must be coinbase or binance, got %q", f.Provider)
	}
}

func (n *NotifyConfig) validate() error {
	if n.Telegram.Enabled {
		if strings.TrimSpace(n.Telegram.BotToken) == "" || strings.TrimSpace(n.Telegram.ChatID) == "" {
			return fmt.Errorf("notify.telegram requires bot_token and chat_id when enabled")
		}
	}
	return nil
}
