package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/businessflow/estimate-api/internal/domain"
)

type EstimateRepository struct {
	db *gorm.DB
}

func NewEstimateRepository(db *gorm.DB) *EstimateRepository {
	return &EstimateRepository{db: db}
}

// preloadItems attaches the line items in their stored order.
func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Preload("Customer")
}

func (r *EstimateRepository) Create(ctx context.Context, estimate *domain.Estimate) error {
	return r.db.WithContext(ctx).Create(estimate).Error
}

// Update saves the estimate and replaces its line items in one transaction,
// so totals and items can never be persisted out of sync.
func (r *EstimateRepository) Update(ctx context.Context, estimate *domain.Estimate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("estimate_id = ?", estimate.ID).Delete(&domain.EstimateItem{}).Error; err != nil {
			return err
		}
		return tx.Save(estimate).Error
	})
}

func (r *EstimateRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Estimate, error) {
	var estimate domain.Estimate
	err := preloadItems(r.db.WithContext(ctx)).
		Where("id = ?", id).
		First(&estimate).Error
	if err != nil {
		return nil, err
	}
	return &estimate, nil
}

// GetByToken resolves a public share token through the unique token index.
func (r *EstimateRepository) GetByToken(ctx context.Context, token string) (*domain.Estimate, error) {
	var estimate domain.Estimate
	err := preloadItems(r.db.WithContext(ctx)).
		Where("token = ?", token).
		First(&estimate).Error
	if err != nil {
		return nil, err
	}
	return &estimate, nil
}

// ListByCustomer returns the customer's estimates ordered newest first.
// A customer with no estimates yields an empty slice, not an error.
func (r *EstimateRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.Estimate, error) {
	estimates := []domain.Estimate{}
	err := preloadItems(r.db.WithContext(ctx)).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&estimates).Error
	return estimates, err
}

func (r *EstimateRepository) List(ctx context.Context, page, pageSize int, customerID *uuid.UUID, status *domain.EstimateStatus) ([]domain.Estimate, int64, error) {
	var estimates []domain.Estimate
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Estimate{})

	if customerID != nil {
		query = query.Where("customer_id = ?", *customerID)
	}

	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := preloadItems(query).Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&estimates).Error

	return estimates, total, err
}

// ReplaceForCustomer swaps out a customer's entire set of estimates in a
// single transaction. Estimates of other customers are untouched.
func (r *EstimateRepository) ReplaceForCustomer(ctx context.Context, customerID uuid.UUID, estimates []domain.Estimate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("customer_id = ?", customerID).Delete(&domain.Estimate{}).Error; err != nil {
			return err
		}
		for i := range estimates {
			estimates[i].CustomerID = customerID
			if err := tx.Create(&estimates[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Upsert updates the estimate when it already exists and appends it
// otherwise. Runs in a transaction so concurrent writers serialize on the
// row rather than corrupting the item set.
func (r *EstimateRepository) Upsert(ctx context.Context, estimate *domain.Estimate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.Estimate
		err := tx.Where("id = ?", estimate.ID).First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Where("estimate_id = ?", estimate.ID).Delete(&domain.EstimateItem{}).Error; err != nil {
				return err
			}
			return tx.Save(estimate).Error
		case err == gorm.ErrRecordNotFound:
			return tx.Create(estimate).Error
		default:
			return err
		}
	})
}

// ListUnsignedSentBefore feeds the signature reminder job: estimates that
// were sent before the cutoff and have not been signed since.
func (r *EstimateRepository) ListUnsignedSentBefore(ctx context.Context, cutoff time.Time) ([]domain.Estimate, error) {
	estimates := []domain.Estimate{}
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Where("status IN ?", []domain.EstimateStatus{domain.EstimateStatusSent, domain.EstimateStatusViewed}).
		Where("sent_at IS NOT NULL AND sent_at < ?", cutoff).
		Order("sent_at ASC").
		Find(&estimates).Error
	return estimates, err
}
