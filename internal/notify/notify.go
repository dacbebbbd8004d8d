// Package notify defines the outbound notification boundary. Delivery
// transport is pluggable; the default implementation only records the send.
package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/businessflow/estimate-api/internal/domain"
)

// Sender delivers estimate notifications to customers.
type Sender interface {
	// SendEstimate notifies the recipient that an estimate is ready,
	// including the public link to view and sign it.
	SendEstimate(ctx context.Context, estimate *domain.Estimate, recipientEmail, shareURL string) error

	// SendReminder nudges the recipient about an estimate that was sent
	// but never signed.
	SendReminder(ctx context.Context, estimate *domain.Estimate, recipientEmail, shareURL string) error
}

// LogSender records sends in the application log without delivering
// anything. It stands in until a real mail transport is wired.
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) SendEstimate(ctx context.Context, estimate *domain.Estimate, recipientEmail, shareURL string) error {
	s.logger.Info("estimate notification",
		zap.String("estimateID", estimate.ID.String()),
		zap.String("recipient", recipientEmail),
		zap.String("shareUrl", shareURL))
	return nil
}

func (s *LogSender) SendReminder(ctx context.Context, estimate *domain.Estimate, recipientEmail, shareURL string) error {
	s.logger.Info("estimate signature reminder",
		zap.String("estimateID", estimate.ID.String()),
		zap.String("recipient", recipientEmail),
		zap.String("shareUrl", shareURL))
	return nil
}
