package model

import (
	"github.com/shopspring/decimal"
)

// PriceTickModel is one appended price sample. The unique index over
// (symbol, mode, timestamp) makes appends idempotent upserts.
type PriceTickModel struct {
	ID        int64           `gorm:"column:id;primaryKey"`
	Symbol    string          `gorm:"column:symbol;uniqueIndex:idx_price_tick,priority:1"`
	Mode      string          `gorm:"column:mode;uniqueIndex:idx_price_tick,priority:2"`
	Timestamp int64           `gorm:"column:timestamp;uniqueIndex:idx_price_tick,priority:3"`
	Price     decimal.Decimal `gorm:"column:price;type:decimal(32,8)"`
}

func (PriceTickModel) TableName() string { return "price_history" }

// AccountModel holds one cash balance per mode.
type AccountModel struct {
	ID             int64           `gorm:"column:id;primaryKey"`
	Mode           string          `gorm:"column:mode;uniqueIndex"`
	Balance        decimal.Decimal `gorm:"column:balance;type:decimal(32,8)"`
	InitialBalance decimal.Decimal `gorm:"column:initial_balance;type:decimal(32,8)"`
	UpdatedAtUnix  int64           `gorm:"column:updated_at"`
}

func (AccountModel) TableName() string { return "accounts" }

// PositionModel holds the running quantity and average cost per (symbol, mode).
type PositionModel struct {
	ID            int64           `gorm:"column:id;primaryKey"`
	Symbol        string          `gorm:"column:symbol;uniqueIndex:idx_position,priority:1"`
	Mode          string          `gorm:"column:mode;uniqueIndex:idx_position,priority:2"`
	Quantity      decimal.Decimal `gorm:"column:quantity;type:decimal(32,8)"`
	AverageCost   decimal.Decimal `gorm:"column:average_cost;type:decimal(32,8)"`
	UpdatedAtUnix int64           `gorm:"column:updated_at"`
}

func (PositionModel) TableName() string { return "portfolio" }

// TradeModel is an immutable record of one executed trade.
type TradeModel struct {
	ID         int64           `gorm:"column:id;primaryKey"`
	TradeUID   string          `gorm:"column:trade_uid;index"`
	Symbol     string          `gorm:"column:symbol;index"`
	Type       string          `gorm:"column:trade_type"`
	Quantity   decimal.Decimal `gorm:"column:quantity;type:decimal(32,8)"`
	Price      decimal.Decimal `gorm:"column:price;type:decimal(32,8)"`
	TotalValue decimal.Decimal `gorm:"column:total_value;type:decimal(32,8)"`
	ProfitLoss decimal.Decimal `gorm:"column:profit_loss;type:decimal(32,8)"`
	Mode       string          `gorm:"column:mode;index"`
	Timestamp  int64           `gorm:"column:timestamp;index"`
}

func (TradeModel) TableName() string { return "trades" }

// BotStatusModel is the persisted scheduler state singleton (row id=1).
type BotStatusModel struct {
	ID          int64  `gorm:"column:id;primaryKey"`
	Running     bool   `gorm:"column:is_running"`
	Mode        string `gorm:"column:mode"`
	LastRunUnix *int64 `gorm:"column:last_run"`
}

func (BotStatusModel) TableName() string { return "bot_status" }
