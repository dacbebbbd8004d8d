package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/businessflow/estimate-api/internal/domain"
	"github.com/businessflow/estimate-api/internal/mapper"
	"github.com/businessflow/estimate-api/internal/notify"
	"github.com/businessflow/estimate-api/internal/pricing"
	"github.com/businessflow/estimate-api/internal/repository"
	"github.com/businessflow/estimate-api/internal/storage"
	"github.com/businessflow/estimate-api/internal/token"
)

// EstimateService owns the estimate lifecycle: creation with computed
// pricing, the forward-only status transitions, public-link resolution,
// and PDF export.
type EstimateService struct {
	estimateRepo  *repository.EstimateRepository
	customerRepo  *repository.CustomerRepository
	settingsRepo  *repository.SettingsRepository
	activityRepo  *repository.ActivityRepository
	notifier      notify.Sender
	archive       storage.Archive
	publicBaseURL string
	logger        *zap.Logger
}

func NewEstimateService(
	estimateRepo *repository.EstimateRepository,
	customerRepo *repository.CustomerRepository,
	settingsRepo *repository.SettingsRepository,
	activityRepo *repository.ActivityRepository,
	notifier notify.Sender,
	archive storage.Archive,
	publicBaseURL string,
	logger *zap.Logger,
) *EstimateService {
	return &EstimateService{
		estimateRepo:  estimateRepo,
		customerRepo:  customerRepo,
		settingsRepo:  settingsRepo,
		activityRepo:  activityRepo,
		notifier:      notifier,
		archive:       archive,
		publicBaseURL: publicBaseURL,
		logger:        logger,
	}
}

// Create validates the request, computes pricing, mints the ID and share
// token, and persists the estimate with its items atomically. Nothing is
// persisted when validation or pricing fails.
func (s *EstimateService) Create(ctx context.Context, req *domain.CreateEstimateRequest) (*domain.EstimateDTO, error) {
	customer, err := s.customerRepo.GetByID(ctx, req.CustomerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	items, totals, err := pricing.ComputeTotals(buildItems(req.Items))
	if err != nil {
		return nil, err
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	shareToken, err := token.New()
	if err != nil {
		return nil, err
	}

	estimate := &domain.Estimate{
		Token:        shareToken,
		CustomerID:   customer.ID,
		CustomerName: customer.Name,
		Date:         date,
		Status:       domain.EstimateStatusPending,
		Items:        items,
		Subtotal:     totals.Subtotal,
		Tax:          totals.Tax,
		Total:        totals.Total,
		CustomerNote: req.CustomerNote,
		InternalNote: req.InternalNote,
	}

	if err := s.estimateRepo.Create(ctx, estimate); err != nil {
		return nil, fmt.Errorf("failed to create estimate: %w", err)
	}

	s.logActivity(ctx, estimate.ID, domain.ActivityTypeCreated, "Estimate created",
		fmt.Sprintf("Estimate for '%s' created with %d items, total %.2f", customer.Name, len(items), totals.Total))

	// Reload with relations
	estimate, err = s.estimateRepo.GetByID(ctx, estimate.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload estimate: %w", err)
	}

	dto := s.toDTO(estimate)
	return &dto, nil
}

// Update replaces the editable fields and line items, recomputing totals.
// Signed estimates are immutable.
func (s *EstimateService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateEstimateRequest) (*domain.EstimateDTO, error) {
	estimate, err := s.getEstimate(ctx, id)
	if err != nil {
		return nil, err
	}

	if estimate.IsSigned() {
		return nil, ErrEstimateAlreadySigned
	}

	items, totals, err := pricing.ComputeTotals(buildItems(req.Items))
	if err != nil {
		return nil, err
	}

	if req.Date != "" {
		date, err := parseDate(req.Date)
		if err != nil {
			return nil, err
		}
		estimate.Date = date
	}

	for i := range items {
		items[i].EstimateID = estimate.ID
	}
	estimate.Items = items
	estimate.Subtotal = totals.Subtotal
	estimate.Tax = totals.Tax
	estimate.Total = totals.Total
	estimate.CustomerNote = req.CustomerNote
	estimate.InternalNote = req.InternalNote

	if err := s.estimateRepo.Update(ctx, estimate); err != nil {
		return nil, fmt.Errorf("failed to update estimate: %w", err)
	}

	s.logActivity(ctx, estimate.ID, domain.ActivityTypeUpdated, "Estimate updated",
		fmt.Sprintf("Estimate updated with %d items, total %.2f", len(items), totals.Total))

	// Reload with relations
	estimate, err = s.estimateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload estimate: %w", err)
	}

	dto := s.toDTO(estimate)
	return &dto, nil
}

// GetByID returns a single estimate with its items.
func (s *EstimateService) GetByID(ctx context.Context, id uuid.UUID) (*domain.EstimateDTO, error) {
	estimate, err := s.getEstimate(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := s.toDTO(estimate)
	return &dto, nil
}

// List returns a page of estimates, optionally filtered by customer and
// status.
func (s *EstimateService) List(ctx context.Context, page, pageSize int, customerID *uuid.UUID, status *domain.EstimateStatus) ([]domain.EstimateDTO, int64, error) {
	page, pageSize = repository.ClampPage(page, pageSize)

	estimates, total, err := s.estimateRepo.List(ctx, page, pageSize, customerID, status)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list estimates: %w", err)
	}

	dtos := make([]domain.EstimateDTO, len(estimates))
	for i := range estimates {
		dtos[i] = s.toDTO(&estimates[i])
	}
	return dtos, total, nil
}

// ListByCustomer returns every estimate belonging to one customer. A
// customer without estimates gets an empty list.
func (s *EstimateService) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.EstimateDTO, error) {
	if _, err := s.customerRepo.GetByID(ctx, customerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	estimates, err := s.estimateRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list estimates: %w", err)
	}

	dtos := make([]domain.EstimateDTO, len(estimates))
	for i := range estimates {
		dtos[i] = s.toDTO(&estimates[i])
	}
	return dtos, nil
}

// GetActivities returns the audit trail of an estimate, newest first.
func (s *EstimateService) GetActivities(ctx context.Context, id uuid.UUID) ([]domain.ActivityDTO, error) {
	if _, err := s.getEstimate(ctx, id); err != nil {
		return nil, err
	}

	activities, err := s.activityRepo.ListByEstimate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}

	dtos := make([]domain.ActivityDTO, len(activities))
	for i := range activities {
		dtos[i] = mapper.ToActivityDTO(&activities[i])
	}
	return dtos, nil
}

// ShareLink returns the public link for an estimate.
func (s *EstimateService) ShareLink(ctx context.Context, id uuid.UUID) (*domain.ShareLinkDTO, error) {
	estimate, err := s.getEstimate(ctx, id)
	if err != nil {
		return nil, err
	}

	return &domain.ShareLinkDTO{
		EstimateID: estimate.ID,
		Token:      estimate.Token,
		ShareURL:   s.shareURL(estimate.Token),
	}, nil
}

// ============================================================================
// Helpers
// ============================================================================

func (s *EstimateService) getEstimate(ctx context.Context, id uuid.UUID) (*domain.Estimate, error) {
	estimate, err := s.estimateRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEstimateNotFound
		}
		return nil, fmt.Errorf("failed to get estimate: %w", err)
	}
	return estimate, nil
}

func (s *EstimateService) toDTO(estimate *domain.Estimate) domain.EstimateDTO {
	dto := mapper.ToEstimateDTO(estimate)
	dto.ShareURL = s.shareURL(estimate.Token)
	return dto
}

func (s *EstimateService) shareURL(tok string) string {
	return fmt.Sprintf("%s/e/%s", s.publicBaseURL, tok)
}

func (s *EstimateService) logActivity(ctx context.Context, estimateID uuid.UUID, activityType domain.ActivityType, title, body string) {
	activity := &domain.Activity{
		EstimateID:   estimateID,
		ActivityType: activityType,
		Title:        title,
		Body:         body,
		OccurredAt:   time.Now().UTC(),
	}
	if err := s.activityRepo.Create(ctx, activity); err != nil {
		s.logger.Warn("failed to log activity",
			zap.String("estimateID", estimateID.String()),
			zap.String("activityType", string(activityType)),
			zap.Error(err))
	}
}

// buildItems converts request line items into entities, preserving the
// submitted order as the stored position.
func buildItems(reqs []domain.CreateEstimateItemRequest) []domain.EstimateItem {
	items := make([]domain.EstimateItem, len(reqs))
	for i, r := range reqs {
		items[i] = domain.EstimateItem{
			Position:     i,
			Name:         r.Name,
			Description:  r.Description,
			Unit:         r.Unit,
			Quantity:     r.Quantity,
			MaterialCost: r.MaterialCost,
			Markup:       r.Markup,
			Price:        r.Price,
			TaxRate:      r.TaxRate,
		}
	}
	return items
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	date, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return date, nil
}
