package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/HristianD/trading-bot/internal/types"
)

// PriceTick is one appended (symbol, mode, price, timestamp) sample.
type PriceTick struct {
	Symbol    string
	Mode      types.Mode
	Price     decimal.Decimal
	Timestamp time.Time
}

// Account is the per-mode cash book.
type Account struct {
	Mode           types.Mode
	Balance        decimal.Decimal
	InitialBalance decimal.Decimal
}

// Position is the per-(symbol, mode) holding with running average cost.
type Position struct {
	Symbol      string
	Mode        types.Mode
	Quantity    decimal.Decimal
	AverageCost decimal.Decimal
}

// Trade is an immutable ledger entry for one executed trade.
type Trade struct {
	UID        string
	Symbol     string
	Type       types.TradeType
	Quantity   decimal.Decimal
	Price      decimal.Decimal
	TotalValue decimal.Decimal
	ProfitLoss decimal.Decimal
	Mode       types.Mode
	Timestamp  time.Time
}

// BotStatus is the persisted scheduler state snapshot.
type BotStatus struct {
	Running   bool
	Mode      types.Mode
	LastRunAt *time.Time
}

// UnitOfWork is a transaction scope. Mutations applied through its
// repositories become visible only on Commit.
type UnitOfWork interface {
	Commit() error
	Rollback() error

	Accounts() AccountRepository
	Positions() PositionRepository
	Trades() TradeRepository
}

// Store is the entry point for persistence.
type Store interface {
	// Begin starts a new UnitOfWork (transaction).
	Begin(ctx context.Context) (UnitOfWork, error)

	Prices() PriceRepository
	Accounts() AccountRepository
	Positions() PositionRepository
	Trades() TradeRepository
	Status() StatusRepository

	Close() error
}

// PriceRepository is the append-only price time series.
type PriceRepository interface {
	// Upsert appends a tick; a second append with the same
	// (symbol, mode, timestamp) overwrites the price.
	Upsert(ctx context.Context, tick PriceTick) error
	// MovingAverage returns the arithmetic mean of the most recent `period`
	// prices. ok is false when fewer than `period` samples exist.
	MovingAverage(ctx context.Context, symbol string, mode types.Mode, period int) (avg decimal.Decimal, ok bool, err error)
	// Latest returns the most recent tick for (symbol, mode).
	Latest(ctx context.Context, symbol string, mode types.Mode) (PriceTick, bool, error)
	// History returns up to limit recent ticks, newest first.
	History(ctx context.Context, symbol string, mode types.Mode, limit int) ([]PriceTick, error)
	// Clear removes all ticks for the symbol across both modes.
	Clear(ctx context.Context, symbol string) error
}

// AccountRepository manages the per-mode cash balances.
type AccountRepository interface {
	Get(ctx context.Context, mode types.Mode) (Account, bool, error)
	Save(ctx context.Context, account Account) error
	// AdjustBalance adds delta (negative for a debit) to the mode's balance.
	AdjustBalance(ctx context.Context, mode types.Mode, delta decimal.Decimal) error
	// ResetToInitial restores every account's balance to its initial balance.
	ResetToInitial(ctx context.Context) error
}

// PositionRepository manages the per-(symbol, mode) holdings.
type PositionRepository interface {
	Get(ctx context.Context, symbol string, mode types.Mode) (Position, bool, error)
	Upsert(ctx context.Context, position Position) error
	Delete(ctx context.Context, symbol string, mode types.Mode) error
	DeleteAll(ctx context.Context) error
	List(ctx context.Context, mode types.Mode) ([]Position, error)
}

// TradeRepository is the append-only trade ledger.
type TradeRepository interface {
	Append(ctx context.Context, trade Trade) error
	// Recent returns up to limit trades for the mode, newest first.
	Recent(ctx context.Context, mode types.Mode, limit int) ([]Trade, error)
	DeleteAll(ctx context.Context) error
}

// StatusRepository persists the scheduler state singleton.
type StatusRepository interface {
	Get(ctx context.Context) (BotStatus, error)
	Save(ctx context.Context, status BotStatus) error
}
