// Package strategy implements the moving-average crossover decision logic.
package strategy

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/HristianD/trading-bot/internal/executor"
	"github.com/HristianD/trading-bot/internal/logger"
	"github.com/HristianD/trading-bot/internal/store"
	"github.com/HristianD/trading-bot/internal/types"
)

// Signal is the outcome of one crossover evaluation.
type Signal int

const (
	SignalHold Signal = iota
	SignalBuy
	SignalSell
)

func (s Signal) String() string {
	switch s {
	case SignalBuy:
		return "BUY"
	case SignalSell:
		return "SELL"
	default:
		return "HOLD"
	}
}

// Decision is a sized trading signal.
type Decision struct {
	Signal   Signal
	Quantity decimal.Decimal
}

// Decide is the pure crossover rule.
//
// BUY when the short average is strictly above the long one and the book is
// flat; the trade is sized as balance*tradePct worth of the asset, rounded
// half-up to 8 decimal places, and suppressed below the dust threshold.
// SELL the entire position when the short average is strictly below the long
// one and a position is open. Equal averages trigger neither signal.
func Decide(shortMA, longMA, positionQty, balance, price, tradePct decimal.Decimal) Decision {
	switch {
	case shortMA.GreaterThan(longMA) && positionQty.IsZero():
		tradeValue := balance.Mul(tradePct)
		qty := tradeValue.DivRound(price, 8)
		if qty.GreaterThan(types.DustThreshold) {
			return Decision{Signal: SignalBuy, Quantity: qty}
		}
		return Decision{Signal: SignalHold}
	case shortMA.LessThan(longMA) && positionQty.IsPositive():
		return Decision{Signal: SignalSell, Quantity: positionQty}
	default:
		return Decision{Signal: SignalHold}
	}
}

// TradeApplier is the executor surface the engine needs.
type TradeApplier interface {
	Apply(ctx context.Context, req executor.Request) (store.Trade, error)
}

// Params configure one engine instance.
type Params struct {
	ShortMAPeriod   int
	LongMAPeriod    int
	TradePercentage decimal.Decimal
}

// Engine evaluates the crossover rule against the active mode's book and
// hands resulting trades to the executor.
type Engine struct {
	store    store.Store
	executor TradeApplier
	params   Params
}

func NewEngine(st store.Store, applier TradeApplier, params Params) *Engine {
	return &Engine{store: st, executor: applier, params: params}
}

// Evaluate runs one crossover evaluation at the given price and timestamp.
// Insufficient price history is a silent no-op, not an error.
func (e *Engine) Evaluate(ctx context.Context, symbol string, mode types.Mode, price decimal.Decimal, ts time.Time) error {
	prices := e.store.Prices()
	shortMA, ok, err := prices.MovingAverage(ctx, symbol, mode, e.params.ShortMAPeriod)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	longMA, ok, err := prices.MovingAverage(ctx, symbol, mode, e.params.LongMAPeriod)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	position, _, err := e.store.Positions().Get(ctx, symbol, mode)
	if err != nil {
		return err
	}
	account, found, err := e.store.Accounts().Get(ctx, mode)
	if err != nil {
		return err
	}
	if !found {
		logger.Warnf("strategy: no account for mode=%s, skipping evaluation", mode)
		return nil
	}

	decision := Decide(shortMA, longMA, position.Quantity, account.Balance, price, e.params.TradePercentage)
	if decision.Signal == SignalHold {
		return nil
	}

	logger.Debugf("strategy signal=%s symbol=%s mode=%s shortMA=%s longMA=%s qty=%s",
		decision.Signal, symbol, mode, shortMA.StringFixed(2), longMA.StringFixed(2), decision.Quantity)

	req := executor.Request{
		Symbol:    symbol,
		Mode:      mode,
		Quantity:  decision.Quantity,
		Price:     price,
		Timestamp: ts,
	}
	switch decision.Signal {
	case SignalBuy:
		req.Type = types.TradeBuy
	case SignalSell:
		req.Type = types.TradeSell
	}
	_, err = e.executor.Apply(ctx, req)
	return err
}
