package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/businessflow/estimate-api/internal/domain"
)

type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the single settings row, or gorm.ErrRecordNotFound when the
// installation has never been configured.
func (r *SettingsRepository) Get(ctx context.Context) (*domain.CompanySettings, error) {
	var settings domain.CompanySettings
	err := r.db.WithContext(ctx).Order("created_at ASC").First(&settings).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *SettingsRepository) Save(ctx context.Context, settings *domain.CompanySettings) error {
	return r.db.WithContext(ctx).Save(settings).Error
}
