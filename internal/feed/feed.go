// Package feed provides the live price sources the bot polls in LIVE mode.
package feed

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/HristianD/trading-bot/internal/config"
)

// PriceSource produces the current market price. ok is false on any
// failure; a source never surfaces an error to the caller.
type PriceSource interface {
	FetchCurrent(ctx context.Context) (price decimal.Decimal, ok bool)
	Name() string
}

// New builds the configured price source, wrapped in a circuit breaker.
func New(cfg config.FeedConfig, symbol string) (PriceSource, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "coinbase":
		return Guard(NewCoinbase(cfg.APIURL, cfg.Timeout())), nil
	case "binance":
		return Guard(NewBinance(symbol)), nil
	default:
		return nil, fmt.Errorf("unknown feed provider %q", cfg.Provider)
	}
}
