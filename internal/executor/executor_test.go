package executor

import (
	"context"
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

func newTestExecutor(t *testing.T) (*Executor, store.Store) {
	t.Helper()
	st, err := sqlite.NewSqliteStore(filepath.Join(t.TempDir(), "exec.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return New(st, nil), st
}

func seedAccount(t *testing.T, st store.Store, mode types.Mode, balance int64) {
	t.Helper()
	require.NoError(t, st.Accounts().Save(context.Background(), store.Account{
		Mode:           mode,
		Balance:        decimal.NewFromInt(balance),
		InitialBalance: decimal.NewFromInt(balance),
	}))
}

func TestApplyBuyDebitsBalanceAndOpensPosition(t *testing.T) {
	exec, st := newTestExecutor(t)
	ctx := context.Background()
	seedAccount(t, st, types.ModeTraining, 10000)

	trade, err := exec.Apply(ctx, Request{
		Type:      types.TradeBuy,
		Symbol:    "BTC",
		Mode:      types.ModeTraining,
		Quantity:  decimal.NewFromInt(10),
		Price:     decimal.NewFromInt(100),
		Timestamp: time.Now(),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, trade.UID)
	assert.True(t, trade.TotalValue.Equal(decimal.NewFromInt(1000)))
	assert.True(t, trade.ProfitLoss.IsZero())

	account, _, err := st.Accounts().Get(ctx, types.ModeTraining)
	require.NoError(t, err)
	assert.True(t, account.Balance.Equal(decimal.NewFromInt(9000)))

	position, found, err := st.Positions().Get(ctx, "BTC", types.ModeTraining)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, position.Quantity.Equal(decimal.NewFromInt(10)))
	assert.True(t, position.AverageCost.Equal(decimal.NewFromInt(100)))

	trades, err := st.Trades().Recent(ctx, types.ModeTraining, 10)
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, types.TradeBuy, trades[0].Type)
}

func TestApplyBuyAccumulatesWeightedAverageCost(t *testing.T) {
	exec, st := newTestExecutor(t)
	ctx := context.Background()
	seedAccount(t, st, types.ModeTraining, 10000)

	for _, price := range []int64{100, 200} {
		_, err := exec.Apply(ctx, Request{
			Type:      types.TradeBuy,
			Symbol:    "BTC",
			Mode:      types.ModeTraining,
			Quantity:  decimal.NewFromInt(1),
			Price:     decimal.NewFromInt(price),
			Timestamp: time.Now(),
		})
		require.NoError(t, err)
	}

	position, found, err := st.Positions().Get(ctx, "BTC", types.ModeTraining)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, position.Quantity.Equal(decimal.NewFromInt(2)))
	assert.True(t, position.AverageCost.Equal(decimal.NewFromInt(150)), "got %s", position.AverageCost)

	account, _, err := st.Accounts().Get(ctx, types.ModeTraining)
	require.NoError(t, err)
	assert.True(t, account.Balance.Equal(decimal.NewFromInt(9700)))
}

func TestApplySellRealizesPnLAndClosesPosition(t *testing.T) {
	exec, st := newTestExecutor(t)
	ctx := context.Background()
	seedAccount(t, st, types.ModeTraining, 10000)

	_, err := exec.Apply(ctx, Request{
		Type:      types.TradeBuy,
		Symbol:    "BTC",
		Mode:      types.ModeTraining,
		Quantity:  decimal.NewFromInt(10),
		Price:     decimal.NewFromInt(100),
		Timestamp: time.Now(),
	})
	require.NoError(t, err)

	trade, err := exec.Apply(ctx, Request{
		Type:      types.TradeSell,
		Symbol:    "BTC",
		Mode:      types.ModeTraining,
		Quantity:  decimal.NewFromInt(10),
		Price:     decimal.NewFromInt(120),
		Timestamp: time.Now(),
	})
	require.NoError(t, err)
	assert.True(t, trade.ProfitLoss.Equal(decimal.NewFromInt(200)), "got %s", trade.ProfitLoss)

	// 10000 - 1000 (buy) + 1200 (sell) = 10200.
	account, _, err := st.Accounts().Get(ctx, types.ModeTraining)
	require.NoError(t, err)
	assert.True(t, account.Balance.Equal(decimal.NewFromInt(10200)))

	_, found, err := st.Positions().Get(ctx, "BTC", types.ModeTraining)
	require.NoError(t, err)
	assert.False(t, found, "fully sold position must be removed")
}

func TestApplyPartialSellKeepsAverageCost(t *testing.T) {
	exec, st := newTestExecutor(t)
	ctx := context.Background()
	seedAccount(t, st, types.ModeTraining, 10000)

	_, err := exec.Apply(ctx, Request{
		Type:      types.TradeBuy,
		Symbol:    "BTC",
		Mode:      types.ModeTraining,
		Quantity:  decimal.NewFromInt(10),
		Price:     decimal.NewFromInt(100),
		Timestamp: time.Now(),
	})
	require.NoError(t, err)

	_, err = exec.Apply(ctx, Request{
		Type:      types.TradeSell,
		Symbol:    "BTC",
		Mode:      types.ModeTraining,
		Quantity:  decimal.NewFromInt(4),
		Price:     decimal.NewFromInt(110),
		Timestamp: time.Now(),
	})
	require.NoError(t, err)

	position, found, err := st.Positions().Get(ctx, "BTC", types.ModeTraining)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, position.Quantity.Equal(decimal.NewFromInt(6)))
	assert.True(t, position.AverageCost.Equal(decimal.NewFromInt(100)), "selling must not move the average cost")
}

func TestApplySellRejectedWithoutPosition(t *testing.T) {
	exec, st := newTestExecutor(t)
	ctx := context.Background()
	seedAccount(t, st, types.ModeTraining, 10000)

	_, err := exec.Apply(ctx, Request{
		Type:      types.TradeSell,
		Symbol:    "BTC",
		Mode:      types.ModeTraining,
		Quantity:  decimal.NewFromInt(1),
		Price:     decimal.NewFromInt(100),
		Timestamp: time.Now(),
	})
	require.Error(t, err)

	// Nothing may have leaked out of the aborted transaction.
	account, _, err := st.Accounts().Get(ctx, types.ModeTraining)
	require.NoError(t, err)
	assert.True(t, account.Balance.Equal(decimal.NewFromInt(10000)))
	trades, err := st.Trades().Recent(ctx, types.ModeTraining, 10)
	require.NoError(t, err)
	assert.Empty(t, trades)
}

func TestApplyRejectsNonPositiveInputs(t *testing.T) {
	exec, _ := newTestExecutor(t)
	ctx := context.Background()

	_, err := exec.Apply(ctx, Request{
		Type:     types.TradeBuy,
		Symbol:   "BTC",
		Mode:     types.ModeTraining,
		Quantity: decimal.Zero,
		Price:    decimal.NewFromInt(100),
	})
	assert.Error(t, err)

	_, err = exec.Apply(ctx, Request{
		Type:     types.TradeBuy,
		Symbol:   "BTC",
		Mode:     types.ModeTraining,
		Quantity: decimal.NewFromInt(1),
		Price:    decimal.NewFromInt(-5),
	})
	assert.Error(t, err)
}
