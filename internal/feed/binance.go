package feed

import (
	"context"
	"strings"

	binance "github.com/adshao/go-binance/v2"
	"github.com/shopspring/decimal"

	"github.com/HristianD/trading-bot/internal/logger"
)

// Binance reads the spot ticker price through the go-binance SDK.
type Binance struct {
	pair   string
	client *binance.Client
}

// NewBinance maps a bare asset symbol (e.g. BTC) onto its USDT spot pair.
func NewBinance(symbol string) *Binance {
	pair := strings.ToUpper(strings.TrimSpace(symbol))
	if !strings.HasSuffix(pair, "USDT") {
		pair += "USDT"
	}
	return &Binance{
		pair:   pair,
		client: binance.NewClient("", ""),
	}
}

func (b *Binance) Name() string { return "binance" }

func (b *Binance) FetchCurrent(ctx context.Context) (decimal.Decimal, bool) {
	prices, err := b.client.NewListPricesService().Symbol(b.pair).Do(ctx)
	if err != nil {
		logger.Warnf("binance feed: ticker request failed: %v", err)
		return decimal.Zero, false
	}
	for _, p := range prices {
		if p == nil || p.Symbol != b.pair {
			continue
		}
		price, err := decimal.NewFromString(p.Price)
		if err != nil || !price.IsPositive() {
			logger.Warnf("binance feed: invalid price %q for %s", p.Price, b.pair)
			return decimal.Zero, false
		}
		return price, true
	}
	logger.Warnf("binance feed: no ticker returned for %s", b.pair)
	return decimal.Zero, false
}
