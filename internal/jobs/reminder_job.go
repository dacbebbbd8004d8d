package jobs

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/businessflow/estimate-api/internal/domain"
	"github.com/businessflow/estimate-api/internal/notify"
	"github.com/businessflow/estimate-api/internal/repository"
)

// ReminderJob nudges customers about estimates that were sent but never
// signed. Each run emits at most one reminder per due estimate.
type ReminderJob struct {
	estimateRepo  *repository.EstimateRepository
	activityRepo  *repository.ActivityRepository
	notifier      notify.Sender
	publicBaseURL string
	afterDays     int
	timeout       time.Duration
	logger        *zap.Logger
}

func NewReminderJob(
	estimateRepo *repository.EstimateRepository,
	activityRepo *repository.ActivityRepository,
	notifier notify.Sender,
	publicBaseURL string,
	afterDays int,
	logger *zap.Logger,
) *ReminderJob {
	return &ReminderJob{
		estimateRepo:  estimateRepo,
		activityRepo:  activityRepo,
		notifier:      notifier,
		publicBaseURL: publicBaseURL,
		afterDays:     afterDays,
		timeout:       5 * time.Minute,
		logger:        logger,
	}
}

// Run executes one reminder scan. It satisfies the cron job signature.
func (j *ReminderJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	sent, failed := j.RunOnce(ctx)
	if sent > 0 || failed > 0 {
		j.logger.Info("signature reminder scan finished",
			zap.Int("remindersSent", sent),
			zap.Int("failures", failed))
	}
}

// RunOnce scans for due estimates and sends reminders, returning how many
// went out and how many failed.
func (j *ReminderJob) RunOnce(ctx context.Context) (sent, failed int) {
	cutoff := time.Now().UTC().AddDate(0, 0, -j.afterDays)

	due, err := j.estimateRepo.ListUnsignedSentBefore(ctx, cutoff)
	if err != nil {
		j.logger.Error("failed to list estimates due for reminder", zap.Error(err))
		return 0, 0
	}

	for i := range due {
		estimate := &due[i]
		recipient := ""
		if estimate.Customer != nil {
			recipient = estimate.Customer.Email
		}
		if recipient == "" {
			j.logger.Warn("skipping reminder, customer has no email",
				zap.String("estimateID", estimate.ID.String()))
			continue
		}

		shareURL := fmt.Sprintf("%s/e/%s", j.publicBaseURL, estimate.Token)
		if err := j.notifier.SendReminder(ctx, estimate, recipient, shareURL); err != nil {
			j.logger.Warn("failed to send signature reminder",
				zap.String("estimateID", estimate.ID.String()),
				zap.Error(err))
			failed++
			continue
		}

		j.recordReminder(ctx, estimate)
		sent++
	}
	return sent, failed
}

func (j *ReminderJob) recordReminder(ctx context.Context, estimate *domain.Estimate) {
	activity := &domain.Activity{
		EstimateID:   estimate.ID,
		ActivityType: domain.ActivityTypeReminder,
		Title:        "Signature reminder sent",
		Body:         fmt.Sprintf("Reminder sent for estimate unsigned since %s", estimate.SentAt.Format("2006-01-02")),
		OccurredAt:   time.Now().UTC(),
	}
	if err := j.activityRepo.Create(ctx, activity); err != nil {
		j.logger.Warn("failed to record reminder activity",
			zap.String("estimateID", estimate.ID.String()),
			zap.Error(err))
	}
}
