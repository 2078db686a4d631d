package sqlite

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/HristianD/trading-bot/internal/store"
	"github.com/HristianD/trading-bot/internal/store/model"
	"github.com/HristianD/trading-bot/internal/types"
)

type tradeRepository struct {
	db *gorm.DB
}

func newTradeRepo(db *gorm.DB) *tradeRepository {
	return &tradeRepository{db: db}
}

func (r *tradeRepository) Append(ctx context.Context, trade store.Trade) error {
	if strings.TrimSpace(trade.Symbol) == "" {
		return errors.New("trade requires a symbol")
	}
	m := model.TradeModel{
		TradeUID:   strings.TrimSpace(trade.UID),
		Symbol:     strings.ToUpper(strings.TrimSpace(trade.Symbol)),
		Type:       string(trade.Type),
		Quantity:   trade.Quantity,
		Price:      trade.Price,
		TotalValue: trade.TotalValue,
		ProfitLoss: trade.ProfitLoss,
		Mode:       trade.Mode.String(),
		Timestamp:  trade.Timestamp.UnixMilli(),
	}
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *tradeRepository) Recent(ctx context.Context, mode types.Mode, limit int) ([]store.Trade, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var models []model.TradeModel
	if err := r.db.WithContext(ctx).
		Where("mode = ?", mode.String()).
		Order("timestamp DESC, id DESC").
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]store.Trade, 0, len(models))
	for _, m := range models {
		out = append(out, store.Trade{
			UID:        m.TradeUID,
			Symbol:     m.Symbol,
			Type:       types.TradeType(m.Type),
			Quantity:   m.Quantity,
			Price:      m.Price,
			TotalValue: m.TotalValue,
			ProfitLoss: m.ProfitLoss,
			Mode:       types.Mode(m.Mode),
			Timestamp:  time.UnixMilli(m.Timestamp),
		})
	}
	return out, nil
}

func (r *tradeRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&model.TradeModel{}).Error
}
