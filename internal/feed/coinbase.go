package feed

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"github.com/HristianD/trading-bot/internal/logger"
)

const maxFeedBodySize = 1 << 20

// Coinbase polls the Coinbase exchange-rates endpoint and reads the USD rate.
type Coinbase struct {
	apiURL string
	client *http.Client
}

func NewCoinbase(apiURL string, timeout time.Duration) *Coinbase {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Coinbase{
		apiURL: apiURL,
		client: &http.Client{Timeout: timeout},
	}
}

func (c *Coinbase) Name() string { return "coinbase" }

func (c *Coinbase) FetchCurrent(ctx context.Context) (decimal.Decimal, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL, nil)
	if err != nil {
		logger.Warnf("coinbase feed: building request failed: %v", err)
		return decimal.Zero, false
	}
	resp, err := c.client.Do(req)
	if err != nil {
		logger.Warnf("coinbase feed: request failed: %v", err)
		return decimal.Zero, false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		logger.Warnf("coinbase feed: unexpected status %d", resp.StatusCode)
		return decimal.Zero, false
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBodySize))
	if err != nil {
		logger.Warnf("coinbase feed: reading body failed: %v", err)
		return decimal.Zero, false
	}
	rate := gjson.GetBytes(body, "data.rates.USD")
	if !rate.Exists() {
		logger.Warnf("coinbase feed: response missing data.rates.USD")
		return decimal.Zero, false
	}
	price, err := decimal.NewFromString(rate.String())
	if err != nil || !price.IsPositive() {
		logger.Warnf("coinbase feed: invalid USD rate %q", rate.String())
		return decimal.Zero, false
	}
	return price, true
}
