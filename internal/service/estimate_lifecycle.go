package service

// Lifecycle methods for the estimate status machine. Transitions only move
// forward (pending -> sent -> viewed -> signed); a signed estimate is
// immutable apart from reads and PDF export.

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/businessflow/estimate-api/internal/domain"
	"github.com/businessflow/estimate-api/internal/mapper"
	"github.com/businessflow/estimate-api/internal/pdf"
)

// MarkSent transitions a pending estimate to sent, stamps the sent time,
// and notifies the customer with the public link. Notification failure is
// logged but does not roll the transition back.
func (s *EstimateService) MarkSent(ctx context.Context, id uuid.UUID) (*domain.EstimateDTO, error) {
	estimate, err := s.getEstimate(ctx, id)
	if err != nil {
		return nil, err
	}

	if estimate.IsSigned() {
		return nil, ErrEstimateAlreadySigned
	}
	if estimate.Status != domain.EstimateStatusPending {
		return nil, ErrEstimateNotPending
	}

	estimate.Status = domain.EstimateStatusSent
	if estimate.SentAt == nil {
		now := time.Now().UTC()
		estimate.SentAt = &now
	}

	if err := s.estimateRepo.Upsert(ctx, estimate); err != nil {
		return nil, fmt.Errorf("failed to update estimate status: %w", err)
	}

	recipient := ""
	if customer, err := s.customerRepo.GetByID(ctx, estimate.CustomerID); err == nil {
		recipient = customer.Email
	}
	if recipient != "" {
		if err := s.notifier.SendEstimate(ctx, estimate, recipient, s.shareURL(estimate.Token)); err != nil {
			s.logger.Warn("failed to send estimate notification",
				zap.String("estimateID", id.String()),
				zap.String("recipient", recipient),
				zap.Error(err))
		}
	} else {
		s.logger.Warn("estimate sent without notification, customer has no email",
			zap.String("estimateID", id.String()))
	}

	s.logActivity(ctx, id, domain.ActivityTypeSent, "Estimate sent",
		fmt.Sprintf("Estimate sent to '%s'", estimate.CustomerName))

	// Reload with relations
	estimate, err = s.estimateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload estimate: %w", err)
	}

	dto := s.toDTO(estimate)
	return &dto, nil
}

// RecordView marks the estimate as viewed the first time the public link
// is opened. Repeat views and views after signing are no-ops: the status
// never regresses and the first-view timestamp is never restamped.
func (s *EstimateService) RecordView(ctx context.Context, id uuid.UUID) (*domain.EstimateDTO, error) {
	estimate, err := s.getEstimate(ctx, id)
	if err != nil {
		return nil, err
	}

	if estimate.Status.AtLeast(domain.EstimateStatusViewed) {
		dto := s.toDTO(estimate)
		return &dto, nil
	}

	estimate.Status = domain.EstimateStatusViewed
	if estimate.ViewedAt == nil {
		now := time.Now().UTC()
		estimate.ViewedAt = &now
	}

	if err := s.estimateRepo.Upsert(ctx, estimate); err != nil {
		return nil, fmt.Errorf("failed to update estimate status: %w", err)
	}

	s.logActivity(ctx, id, domain.ActivityTypeViewed, "Estimate viewed",
		"The estimate was opened through its public link")

	dto := s.toDTO(estimate)
	return &dto, nil
}

// Sign captures the customer's signature and completes the lifecycle. A
// signed estimate cannot be signed again. After persisting, a PDF copy of
// the signed document is archived best effort.
func (s *EstimateService) Sign(ctx context.Context, id uuid.UUID, req *domain.SignEstimateRequest) (*domain.EstimateDTO, error) {
	if strings.TrimSpace(req.SignerName) == "" || !strings.HasPrefix(req.SignatureDataURL, "data:image/") {
		return nil, ErrInvalidSignature
	}

	estimate, err := s.getEstimate(ctx, id)
	if err != nil {
		return nil, err
	}

	if estimate.IsSigned() {
		return nil, ErrEstimateAlreadySigned
	}

	now := time.Now().UTC()
	estimate.Status = domain.EstimateStatusSigned
	estimate.SignedAt = &now
	estimate.SignerName = strings.TrimSpace(req.SignerName)
	estimate.SignatureDataURL = req.SignatureDataURL
	if estimate.ViewedAt == nil {
		estimate.ViewedAt = &now
	}

	if err := s.estimateRepo.Upsert(ctx, estimate); err != nil {
		return nil, fmt.Errorf("failed to persist signature: %w", err)
	}

	s.logActivity(ctx, id, domain.ActivityTypeSigned, "Estimate signed",
		fmt.Sprintf("Signed by '%s'", estimate.SignerName))

	s.archiveSignedPDF(ctx, estimate)

	// Reload with relations
	estimate, err = s.estimateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload estimate: %w", err)
	}

	dto := s.toDTO(estimate)
	return &dto, nil
}

// SignByToken resolves the public share token and signs the estimate.
func (s *EstimateService) SignByToken(ctx context.Context, tok string, req *domain.SignEstimateRequest) (*domain.PublicEstimateDTO, error) {
	estimate, err := s.getByToken(ctx, tok)
	if err != nil {
		return nil, err
	}

	if _, err := s.Sign(ctx, estimate.ID, req); err != nil {
		return nil, err
	}

	estimate, err = s.getByToken(ctx, tok)
	if err != nil {
		return nil, err
	}

	dto := mapper.ToPublicEstimateDTO(estimate, s.loadSettings(ctx))
	return &dto, nil
}

// GetPublicByToken resolves a share token to the public view of the
// estimate and records the view. The internal note and the token never
// appear in the result.
func (s *EstimateService) GetPublicByToken(ctx context.Context, tok string) (*domain.PublicEstimateDTO, error) {
	estimate, err := s.getByToken(ctx, tok)
	if err != nil {
		return nil, err
	}

	if _, err := s.RecordView(ctx, estimate.ID); err != nil {
		s.logger.Warn("failed to record estimate view",
			zap.String("estimateID", estimate.ID.String()),
			zap.Error(err))
	}

	estimate, err = s.getByToken(ctx, tok)
	if err != nil {
		return nil, err
	}

	dto := mapper.ToPublicEstimateDTO(estimate, s.loadSettings(ctx))
	return &dto, nil
}

// RenderPDF renders the internal PDF export of an estimate.
func (s *EstimateService) RenderPDF(ctx context.Context, id uuid.UUID) ([]byte, error) {
	estimate, err := s.getEstimate(ctx, id)
	if err != nil {
		return nil, err
	}
	return pdf.RenderEstimate(estimate, s.branding(ctx))
}

// RenderPublicPDF renders the PDF download served on the public link.
func (s *EstimateService) RenderPublicPDF(ctx context.Context, tok string) ([]byte, error) {
	estimate, err := s.getByToken(ctx, tok)
	if err != nil {
		return nil, err
	}
	// The public download carries no internal note; the renderer never
	// prints it, so the entity can be passed through as-is.
	return pdf.RenderEstimate(estimate, s.branding(ctx))
}

// ============================================================================
// Helpers
// ============================================================================

func (s *EstimateService) getByToken(ctx context.Context, tok string) (*domain.Estimate, error) {
	estimate, err := s.estimateRepo.GetByToken(ctx, tok)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEstimateNotFound
		}
		return nil, fmt.Errorf("failed to resolve share token: %w", err)
	}
	return estimate, nil
}

func (s *EstimateService) loadSettings(ctx context.Context) *domain.CompanySettings {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("failed to load company settings", zap.Error(err))
		}
		return nil
	}
	return settings
}

func (s *EstimateService) branding(ctx context.Context) pdf.Branding {
	settings := s.loadSettings(ctx)
	if settings == nil {
		return pdf.Branding{}
	}
	return pdf.Branding{
		CompanyName: settings.CompanyName,
		Email:       settings.Email,
		Phone:       settings.Phone,
		Address:     settings.Address,
	}
}

// archiveSignedPDF stores a PDF copy of the signed document. Failures are
// logged only; the signature itself is already durable in the database.
func (s *EstimateService) archiveSignedPDF(ctx context.Context, estimate *domain.Estimate) {
	if s.archive == nil {
		return
	}

	data, err := pdf.RenderEstimate(estimate, s.branding(ctx))
	if err != nil {
		s.logger.Warn("failed to render signed estimate for archive",
			zap.String("estimateID", estimate.ID.String()),
			zap.Error(err))
		return
	}

	name := fmt.Sprintf("signed/%s.pdf", estimate.ID)
	if _, err := s.archive.Put(ctx, name, "application/pdf", bytes.NewReader(data)); err != nil {
		s.logger.Warn("failed to archive signed estimate",
			zap.String("estimateID", estimate.ID.String()),
			zap.Error(err))
		return
	}

	s.logger.Info("signed estimate archived",
		zap.String("estimateID", estimate.ID.String()),
		zap.String("name", name))
}
