package bothttp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HristianD/trading-bot/internal/store"
	"github.com/HristianD/trading-bot/internal/store/sqlite"
	"github.com/HristianD/trading-bot/internal/types"
)

type fakeBot struct {
	startMode types.Mode
	started   int
	stopped   int
	resets    int
	status    store.BotStatus
	err       error
}

func (f *fakeBot) Start(_ context.Context, mode types.Mode) error {
	f.started++
	f.startMode = mode
	return f.err
}

func (f *fakeBot) Stop(context.Context) error {
	f.stopped++
	return f.err
}

func (f *fakeBot) Reset(context.Context) error {
	f.resets++
	return f.err
}

func (f *fakeBot) Status(context.Context) (store.BotStatus, error) {
	return f.status, f.err
}

func newTestServer(t *testing.T) (*fakeBot, store.Store, http.Handler) {
	t.Helper()
	st, err := sqlite.NewSqliteStore(filepath.Join(t.TempDir(), "http.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	bot := &fakeBot{status: store.BotStatus{Running: false, Mode: types.ModeTraining}}
	srv, err := NewServer(ServerConfig{Bot: bot, Store: st, Symbol: "BTC"})
	require.NoError(t, err)
	return bot, st, srv.Handler()
}

func doJSON(t *testing.T, h http.Handler, method, target string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestHealthz(t *testing.T) {
	_, _, h := newTestServer(t)
	code, body := doJSON(t, h, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}

func TestStartRequiresValidMode(t *testing.T) {
	bot, _, h := newTestServer(t)

	code, _ := doJSON(t, h, http.MethodPost, "/api/bot/start?mode=banana")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, 0, bot.started)

	code, body := doJSON(t, h, http.MethodPost, "/api/bot/start?mode=training")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, bot.started)
	assert.Equal(t, types.ModeTraining, bot.startMode)
	assert.Equal(t, "Bot started in TRAINING mode", body["message"])
}

func TestStartAcceptsLegacyTradingSpelling(t *testing.T) {
	bot, _, h := newTestServer(t)
	code, _ := doJSON(t, h, http.MethodPost, "/api/bot/start?mode=TRADING")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, types.ModeLive, bot.startMode)
}

func TestStopAndReset(t *testing.T) {
	bot, _, h := newTestServer(t)

	code, body := doJSON(t, h, http.MethodPost, "/api/bot/stop")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Bot stopped", body["message"])
	assert.Equal(t, 1, bot.stopped)

	code, body = doJSON(t, h, http.MethodPost, "/api/bot/reset")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Bot reset successfully", body["message"])
	assert.Equal(t, 1, bot.resets)
}

func TestStatusEndpoint(t *testing.T) {
	bot, _, h := newTestServer(t)
	now := time.Now()
	bot.status = store.BotStatus{Running: true, Mode: types.ModeLive, LastRunAt: &now}

	code, body := doJSON(t, h, http.MethodGet, "/api/bot/status")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["running"])
	assert.Equal(t, "LIVE", body["mode"])
	assert.Contains(t, body, "last_run")
}

func TestAccountEndpoint(t *testing.T) {
	_, st, h := newTestServer(t)
	ctx := context.Background()

	code, _ := doJSON(t, h, http.MethodGet, "/api/account?mode=training")
	assert.Equal(t, http.StatusNotFound, code)

	require.NoError(t, st.Accounts().Save(ctx, store.Account{
		Mode:           types.ModeTraining,
		Balance:        decimal.NewFromInt(9000),
		InitialBalance: decimal.NewFromInt(10000),
	}))
	require.NoError(t, st.Positions().Upsert(ctx, store.Position{
		Symbol:      "BTC",
		Mode:        types.ModeTraining,
		Quantity:    decimal.NewFromInt(2),
		AverageCost: decimal.NewFromInt(450),
	}))
	require.NoError(t, st.Prices().Upsert(ctx, store.PriceTick{
		Symbol:    "BTC",
		Mode:      types.ModeTraining,
		Price:     decimal.NewFromInt(500),
		Timestamp: time.Now(),
	}))

	code, body := doJSON(t, h, http.MethodGet, "/api/account?mode=training")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "TRAINING", body["mode"])
	assert.Equal(t, "9000", body["balance"])
	// 2 * 500 on top of the cash balance.
	assert.Equal(t, "1000", body["portfolio_value"])
	assert.Equal(t, "10000", body["total_value"])
}

func TestPortfolioEndpoint(t *testing.T) {
	_, st, h := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, st.Positions().Upsert(ctx, store.Position{
		Symbol:      "BTC",
		Mode:        types.ModeLive,
		Quantity:    decimal.NewFromInt(1),
		AverageCost: decimal.NewFromInt(400),
	}))
	require.NoError(t, st.Prices().Upsert(ctx, store.PriceTick{
		Symbol:    "BTC",
		Mode:      types.ModeLive,
		Price:     decimal.NewFromInt(500),
		Timestamp: time.Now(),
	}))

	code, body := doJSON(t, h, http.MethodGet, "/api/portfolio?mode=live")
	assert.Equal(t, http.StatusOK, code)
	positions, ok := body["positions"].([]any)
	require.True(t, ok)
	require.Len(t, positions, 1)
	entry := positions[0].(map[string]any)
	assert.Equal(t, "BTC", entry["symbol"])
	assert.Equal(t, "500", entry["current_price"])
	assert.Equal(t, "100", entry["unrealized_pnl"])
}

func TestTradesEndpoint(t *testing.T) {
	_, st, h := newTestServer(t)
	require.NoError(t, st.Trades().Append(context.Background(), store.Trade{
		UID:        "uid-1",
		Symbol:     "BTC",
		Type:       types.TradeBuy,
		Quantity:   decimal.NewFromInt(1),
		Price:      decimal.NewFromInt(100),
		TotalValue: decimal.NewFromInt(100),
		ProfitLoss: decimal.Zero,
		Mode:       types.ModeTraining,
		Timestamp:  time.Now(),
	}))

	code, body := doJSON(t, h, http.MethodGet, "/api/trades?mode=training")
	assert.Equal(t, http.StatusOK, code)
	trades, ok := body["trades"].([]any)
	require.True(t, ok)
	require.Len(t, trades, 1)
	entry := trades[0].(map[string]any)
	assert.Equal(t, "uid-1", entry["trade_uid"])
	assert.Equal(t, "BUY", entry["trade_type"])
}

func TestPricesEndpoint(t *testing.T) {
	_, st, h := newTestServer(t)
	base := time.UnixMilli(1_700_000_000_000)
	for i, p := range []int64{100, 110, 120} {
		require.NoError(t, st.Prices().Upsert(context.Background(), store.PriceTick{
			Symbol:    "BTC",
			Mode:      types.ModeTraining,
			Price:     decimal.NewFromInt(p),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	code, body := doJSON(t, h, http.MethodGet, "/api/prices?mode=training&limit=2")
	assert.Equal(t, http.StatusOK, code)
	prices, ok := body["prices"].([]any)
	require.True(t, ok)
	assert.Len(t, prices, 2)
}

func TestReadEndpointsRejectUnknownMode(t *testing.T) {
	_, _, h := newTestServer(t)
	for _, target := range []string{"/api/account?mode=x", "/api/portfolio?mode=x", "/api/trades?mode=x", "/api/prices?mode=x"} {
		code, _ := doJSON(t, h, http.MethodGet, target)
		assert.Equal(t, http.StatusBadRequest, code, target)
	}
}
