package persistent

import (
	"context"
	"errors"

	"socialdesk/pkg/models"
	"socialdesk/services/reseller/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const settingsRowID = 1

// SettingsRepository reads the withdrawal settings row on every call, so admin
// updates apply to the next request without a restart.
type SettingsRepository interface {
	Load(ctx context.Context) (*entity.WithdrawalSettings, error)
	Save(ctx context.Context, settings *entity.WithdrawalSettings) error
}

type settingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Load(ctx context.Context) (*entity.WithdrawalSettings, error) {
	var settingsModel models.WithdrawalSettings
	if err := r.db.WithContext(ctx).Where("id = ?", settingsRowID).First(&settingsModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return ToSettingsEntity(&settingsModel), nil
}

func (r *settingsRepository) Save(ctx context.Context, settings *entity.WithdrawalSettings) error {
	settingsModel := ToSettingsModel(settings)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(settingsModel).Error
	if err != nil {
		return err
	}
	settings.UpdatedAt = settingsModel.UpdatedAt
	return nil
}
