package sqlite

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/HristianD/trading-bot/internal/store"
	"github.com/HristianD/trading-bot/internal/store/model"
	"github.com/HristianD/trading-bot/internal/types"
)

type positionRepository struct {
	db *gorm.DB
}

func newPositionRepo(db *gorm.DB) *positionRepository {
	return &positionRepository{db: db}
}

func (r *positionRepository) Get(ctx context.Context, symbol string, mode types.Mode) (store.Position, bool, error) {
	var m model.PositionModel
	err := r.db.WithContext(ctx).
		Where("symbol = ? AND mode = ?", strings.ToUpper(strings.TrimSpace(symbol)), mode.String()).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.Position{}, false, nil
	}
	if err != nil {
		return store.Position{}, false, err
	}
	return positionModelToRecord(m), true, nil
}

func (r *positionRepository) Upsert(ctx context.Context, position store.Position) error {
	if strings.TrimSpace(position.Symbol) == "" {
		return errors.New("position requires a symbol")
	}
	m := model.PositionModel{
		Symbol:        strings.ToUpper(strings.TrimSpace(position.Symbol)),
		Mode:          position.Mode.String(),
		Quantity:      position.Quantity,
		AverageCost:   position.AverageCost,
		UpdatedAtUnix: time.Now().UnixMilli(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}, {Name: "mode"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity", "average_cost", "updated_at"}),
	}).Create(&m).Error
}

func (r *positionRepository) Delete(ctx context.Context, symbol string, mode types.Mode) error {
	return r.db.WithContext(ctx).
		Where("symbol = ? AND mode = ?", strings.ToUpper(strings.TrimSpace(symbol)), mode.String()).
		Delete(&model.PositionModel{}).Error
}

func (r *positionRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&model.PositionModel{}).Error
}

func (r *positionRepository) List(ctx context.Context, mode types.Mode) ([]store.Position, error) {
	var models []model.PositionModel
	if err := r.db.WithContext(ctx).
		Where("mode = ?", mode.String()).
		Order("symbol ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]store.Position, 0, len(models))
	for _, m := range models {
		out = append(out, positionModelToRecord(m))
	}
	return out, nil
}

func positionModelToRecord(m model.PositionModel) store.Position {
	return store.Position{
		Symbol:      m.Symbol,
		Mode:        types.Mode(m.Mode),
		Quantity:    m.Quantity,
		AverageCost: m.AverageCost,
	}
}
