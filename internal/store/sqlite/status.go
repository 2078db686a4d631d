package sqlite

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/HristianD/trading-bot/internal/store"
	"github.com/HristianD/trading-bot/internal/store/model"
	"github.com/HristianD/trading-bot/internal/types"
)

const botStatusRowID = 1

type statusRepository struct {
	db *gorm.DB
}

func newStatusRepo(db *gorm.DB) *statusRepository {
	return &statusRepository{db: db}
}

func (r *statusRepository) Get(ctx context.Context) (store.BotStatus, error) {
	var m model.BotStatusModel
	err := r.db.WithContext(ctx).Where("id = ?", botStatusRowID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Stopped, mode defaults to TRAINING.
		return store.BotStatus{Running: false, Mode: types.ModeTraining}, nil
	}
	if err != nil {
		return store.BotStatus{}, err
	}
	status := store.BotStatus{
		Running: m.Running,
		Mode:    types.Mode(m.Mode),
	}
	if m.LastRunUnix != nil && *m.LastRunUnix > 0 {
		ts := time.UnixMilli(*m.LastRunUnix)
		status.LastRunAt = &ts
	}
	return status, nil
}

func (r *statusRepository) Save(ctx context.Context, status store.BotStatus) error {
	m := model.BotStatusModel{
		ID:      botStatusRowID,
		Running: status.Running,
		Mode:    status.Mode.String(),
	}
	if status.LastRunAt != nil && !status.LastRunAt.IsZero() {
		ms := status.LastRunAt.UnixMilli()
		m.LastRunUnix = &ms
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_running", "mode", "last_run"}),
	}).Create(&m).Error
}
