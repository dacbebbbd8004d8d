package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/businessflow/estimate-api/internal/domain"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Create(ctx context.Context, activity *domain.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

// ListByEstimate returns the audit trail for an estimate, newest first.
func (r *ActivityRepository) ListByEstimate(ctx context.Context, estimateID uuid.UUID) ([]domain.Activity, error) {
	activities := []domain.Activity{}
	err := r.db.WithContext(ctx).
		Where("estimate_id = ?", estimateID).
		Order("occurred_at DESC").
		Find(&activities).Error
	return activities, err
}
