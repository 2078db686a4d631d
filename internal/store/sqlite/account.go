package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/HristianD/trading-bot/internal/store"
	"github.com/HristianD/trading-bot/internal/store/model"
	"github.com/HristianD/trading-bot/internal/types"
)

type accountRepository struct {
	db *gorm.DB
}

func newAccountRepo(db *gorm.DB) *accountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Get(ctx context.Context, mode types.Mode) (store.Account, bool, error) {
	var m model.AccountModel
	err := r.db.WithContext(ctx).Where("mode = ?", mode.String()).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.Account{}, false, nil
	}
	if err != nil {
		return store.Account{}, false, err
	}
	return store.Account{
		Mode:           types.Mode(m.Mode),
		Balance:        m.Balance,
		InitialBalance: m.InitialBalance,
	}, true, nil
}

func (r *accountRepository) Save(ctx context.Context, account store.Account) error {
	m := model.AccountModel{
		Mode:           account.Mode.String(),
		Balance:        account.Balance,
		InitialBalance: account.InitialBalance,
		UpdatedAtUnix:  time.Now().UnixMilli(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "mode"}},
		DoUpdates: clause.AssignmentColumns([]string{"balance", "initial_balance", "updated_at"}),
	}).Create(&m).Error
}

func (r *accountRepository) AdjustBalance(ctx context.Context, mode types.Mode, delta decimal.Decimal) error {
	var m model.AccountModel
	err := r.db.WithContext(ctx).Where("mode = ?", mode.String()).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("account for mode %s does not exist", mode)
	}
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Model(&model.AccountModel{}).
		Where("mode = ?", mode.String()).
		Updates(map[string]interface{}{
			"balance":    m.Balance.Add(delta),
			"updated_at": time.Now().UnixMilli(),
		})
	return res.Error
}

func (r *accountRepository) ResetToInitial(ctx context.Context) error {
	var models []model.AccountModel
	if err := r.db.WithContext(ctx).Find(&models).Error; err != nil {
		return err
	}
	for _, m := range models {
		if err := r.db.WithContext(ctx).Model(&model.AccountModel{}).
			Where("id = ?", m.ID).
			Updates(map[string]interface{}{
				"balance":    m.InitialBalance,
				"updated_at": time.Now().UnixMilli(),
			}).Error; err != nil {
			return err
		}
	}
	return nil
}
