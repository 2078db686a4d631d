// Package executor turns a trade decision into a balance/position mutation
// plus an immutable ledger record, applied as one transaction.
package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/HristianD/trading-bot/internal/logger"
	"github.com/HristianD/trading-bot/internal/notify"
	"github.com/HristianD/trading-bot/internal/store"
	"github.com/HristianD/trading-bot/internal/types"
)

// Request describes one trade to apply.
type Request struct {
	Type      types.TradeType
	Symbol    string
	Mode      types.Mode
	Quantity  decimal.Decimal
	Price     decimal.Decimal
	Timestamp time.Time
}

// Executor applies trades against the store inside a single unit of work.
type Executor struct {
	store    store.Store
	notifier notify.TextNotifier
}

func New(st store.Store, notifier notify.TextNotifier) *Executor {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	return &Executor{store: st, notifier: notifier}
}

// Apply executes the request. Balance mutation, position mutation and the
// ledger append either all commit or none do.
func (e *Executor) Apply(ctx context.Context, req Request) (store.Trade, error) {
	if err := validateRequest(req); err != nil {
		return store.Trade{}, err
	}

	uow, err := e.store.Begin(ctx)
	if err != nil {
		return store.Trade{}, fmt.Errorf("begin trade transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = uow.Rollback()
		}
	}()

	var trade store.Trade
	switch req.Type {
	case types.TradeBuy:
		trade, err = applyBuy(ctx, uow, req)
	case types.TradeSell:
		trade, err = applySell(ctx, uow, req)
	default:
		err = fmt.Errorf("unknown trade type %q", req.Type)
	}
	if err != nil {
		return store.Trade{}, err
	}

	if err := uow.Commit(); err != nil {
		return store.Trade{}, fmt.Errorf("commit trade transaction: %w", err)
	}
	committed = true

	logger.Infof("trade executed type=%s symbol=%s mode=%s qty=%s price=%s pnl=%s",
		trade.Type, trade.Symbol, trade.Mode, trade.Quantity, trade.Price, trade.ProfitLoss)
	if err := e.notifier.SendText(formatTradeMessage(trade)); err != nil {
		logger.Warnf("trade notification failed: %v", err)
	}
	return trade, nil
}

func applyBuy(ctx context.Context, uow store.UnitOfWork, req Request) (store.Trade, error) {
	totalValue := req.Quantity.Mul(req.Price)

	accounts := uow.Accounts()
	if _, found, err := accounts.Get(ctx, req.Mode); err != nil {
		return store.Trade{}, err
	} else if !found {
		// An account normally pre-exists via configuration/reset; seed an
		// empty one so the debit below still books.
		seed := store.Account{Mode: req.Mode, Balance: decimal.Zero, InitialBalance: decimal.Zero}
		if err := accounts.Save(ctx, seed); err != nil {
			return store.Trade{}, err
		}
	}
	if err := accounts.AdjustBalance(ctx, req.Mode, totalValue.Neg()); err != nil {
		return store.Trade{}, err
	}

	positions := uow.Positions()
	position, found, err := positions.Get(ctx, req.Symbol, req.Mode)
	if err != nil {
		return store.Trade{}, err
	}
	if !found {
		position = store.Position{
			Symbol:      req.Symbol,
			Mode:        req.Mode,
			Quantity:    req.Quantity,
			AverageCost: req.Price,
		}
	} else {
		position.AverageCost = NextAverageCost(position.Quantity, position.AverageCost, req.Quantity, req.Price)
		position.Quantity = position.Quantity.Add(req.Quantity)
	}
	if err := positions.Upsert(ctx, position); err != nil {
		return store.Trade{}, err
	}

	trade := newTrade(req, totalValue, decimal.Zero)
	if err := uow.Trades().Append(ctx, trade); err != nil {
		return store.Trade{}, err
	}
	return trade, nil
}

func applySell(ctx context.Context, uow store.UnitOfWork, req Request) (store.Trade, error) {
	positions := uow.Positions()
	position, found, err := positions.Get(ctx, req.Symbol, req.Mode)
	if err != nil {
		return store.Trade{}, err
	}
	if !found || !position.Quantity.IsPositive() {
		return store.Trade{}, fmt.Errorf("sell rejected: no open position for %s/%s", req.Symbol, req.Mode)
	}
	if req.Quantity.GreaterThan(position.Quantity) {
		return store.Trade{}, fmt.Errorf("sell rejected: quantity %s exceeds position %s", req.Quantity, position.Quantity)
	}

	// Realized PnL uses the average cost before the position shrinks.
	profitLoss := RealizedPnL(req.Quantity, req.Price, position.AverageCost)
	totalValue := req.Quantity.Mul(req.Price)

	if err := uow.Accounts().AdjustBalance(ctx, req.Mode, totalValue); err != nil {
		return store.Trade{}, err
	}

	remaining := position.Quantity.Sub(req.Quantity)
	if remaining.LessThanOrEqual(types.DustThreshold) {
		if err := positions.Delete(ctx, req.Symbol, req.Mode); err != nil {
			return store.Trade{}, err
		}
	} else {
		position.Quantity = remaining
		if err := positions.Upsert(ctx, position); err != nil {
			return store.Trade{}, err
		}
	}

	trade := newTrade(req, totalValue, profitLoss)
	if err := uow.Trades().Append(ctx, trade); err != nil {
		return store.Trade{}, err
	}
	return trade, nil
}

func validateRequest(req Request) error {
	if !req.Quantity.IsPositive() {
		return fmt.Errorf("trade rejected: quantity must be positive, got %s", req.Quantity)
	}
	if !req.Price.IsPositive() {
		return fmt.Errorf("trade rejected: price must be positive, got %s", req.Price)
	}
	return nil
}

func newTrade(req Request, totalValue, profitLoss decimal.Decimal) store.Trade {
	return store.Trade{
		UID:        uuid.NewString(),
		Symbol:     req.Symbol,
		Type:       req.Type,
		Quantity:   req.Quantity,
		Price:      req.Price,
		TotalValue: totalValue,
		ProfitLoss: profitLoss,
		Mode:       req.Mode,
		Timestamp:  req.Timestamp,
	}
}

func formatTradeMessage(trade store.Trade) string {
	return fmt.Sprintf("*%s* %s %s @ %s (%s) pnl=%s",
		trade.Type, trade.Quantity, trade.Symbol, trade.Price, trade.Mode, trade.ProfitLoss)
}
