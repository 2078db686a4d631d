package sqlite

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/HristianD/trading-bot/internal/store"
	"github.com/HristianD/trading-bot/internal/store/model"
	"github.com/HristianD/trading-bot/internal/types"
)

type priceRepository struct {
	db *gorm.DB
}

func newPriceRepo(db *gorm.DB) *priceRepository {
	return &priceRepository{db: db}
}

func (r *priceRepository) Upsert(ctx context.Context, tick store.PriceTick) error {
	if strings.TrimSpace(tick.Symbol) == "" {
		return errors.New("price tick requires a symbol")
	}
	m := model.PriceTickModel{
		Symbol:    strings.ToUpper(strings.TrimSpace(tick.Symbol)),
		Mode:      tick.Mode.String(),
		Timestamp: tick.Timestamp.UnixMilli(),
		Price:     tick.Price,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}, {Name: "mode"}, {Name: "timestamp"}},
		DoUpdates: clause.AssignmentColumns([]string{"price"}),
	}).Create(&m).Error
}

func (r *priceRepository) MovingAverage(ctx context.Context, symbol string, mode types.Mode, period int) (decimal.Decimal, bool, error) {
	if period <= 0 {
		return decimal.Zero, false, nil
	}
	var models []model.PriceTickModel
	if err := r.db.WithContext(ctx).
		Where("symbol = ? AND mode = ?", strings.ToUpper(strings.TrimSpace(symbol)), mode.String()).
		Order("timestamp DESC").
		Limit(period).
		Find(&models).Error; err != nil {
		return decimal.Zero, false, err
	}
	if len(models) < period {
		return decimal.Zero, false, nil
	}
	prices := make([]decimal.Decimal, 0, len(models)-1)
	for _, m := range models[1:] {
		prices = append(prices, m.Price)
	}
	return decimal.Avg(models[0].Price, prices...), true, nil
}

func (r *priceRepository) Latest(ctx context.Context, symbol string, mode types.Mode) (store.PriceTick, bool, error) {
	var m model.PriceTickModel
	err := r.db.WithContext(ctx).
		Where("symbol = ? AND mode = ?", strings.ToUpper(strings.TrimSpace(symbol)), mode.String()).
		Order("timestamp DESC").
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.PriceTick{}, false, nil
	}
	if err != nil {
		return store.PriceTick{}, false, err
	}
	return priceTickModelToRecord(m), true, nil
}

func (r *priceRepository) History(ctx context.Context, symbol string, mode types.Mode, limit int) ([]store.PriceTick, error) {
	if limit <= 0 || limit > 1000 {
		limit = 200
	}
	var models []model.PriceTickModel
	if err := r.db.WithContext(ctx).
		Where("symbol = ? AND mode = ?", strings.ToUpper(strings.TrimSpace(symbol)), mode.String()).
		Order("timestamp DESC").
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]store.PriceTick, 0, len(models))
	for _, m := range models {
		out = append(out, priceTickModelToRecord(m))
	}
	return out, nil
}

func (r *priceRepository) Clear(ctx context.Context, symbol string) error {
	return r.db.WithContext(ctx).
		Where("symbol = ?", strings.ToUpper(strings.TrimSpace(symbol))).
		Delete(&model.PriceTickModel{}).Error
}

func priceTickModelToRecord(m model.PriceTickModel) store.PriceTick {
	return store.PriceTick{
		Symbol:    m.Symbol,
		Mode:      types.Mode(m.Mode),
		Price:     m.Price,
		Timestamp: time.UnixMilli(m.Timestamp),
	}
}
