package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/businessflow/estimate-api/internal/domain"
	"github.com/businessflow/estimate-api/internal/repository"
)

type recordingSender struct {
	reminders []string
}

func (r *recordingSender) SendEstimate(ctx context.Context, e *domain.Estimate, recipient, shareURL string) error {
	return nil
}

func (r *recordingSender) SendReminder(ctx context.Context, e *domain.Estimate, recipient, shareURL string) error {
	r.reminders = append(r.reminders, e.Token)
	return nil
}

func TestReminderJobRemindsOnlyDueEstimates(t *testing.T) {
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.Customer{}, &domain.Estimate{}, &domain.EstimateItem{}, &domain.Activity{},
	))

	customer := &domain.Customer{Name: "Acme", Email: "acme@example.com"}
	require.NoError(t, db.Create(customer).Error)

	now := time.Now().UTC()
	old := now.AddDate(0, 0, -10)
	recent := now.Add(-time.Hour)

	estimates := []*domain.Estimate{
		{Token: "tok-due", CustomerID: customer.ID, Date: now, Status: domain.EstimateStatusSent, SentAt: &old},
		{Token: "tok-recent", CustomerID: customer.ID, Date: now, Status: domain.EstimateStatusSent, SentAt: &recent},
		{Token: "tok-signed", CustomerID: customer.ID, Date: now, Status: domain.EstimateStatusSigned, SentAt: &old, SignedAt: &recent},
	}
	for _, e := range estimates {
		require.NoError(t, db.Create(e).Error)
	}

	sender := &recordingSender{}
	job := NewReminderJob(
		repository.NewEstimateRepository(db),
		repository.NewActivityRepository(db),
		sender,
		"http://localhost:8080",
		7,
		zap.NewNop(),
	)

	sent, failed := job.RunOnce(context.Background())
	assert.Equal(t, 1, sent)
	assert.Equal(t, 0, failed)
	assert.Equal(t, []string{"tok-due"}, sender.reminders)

	// The reminder lands in the estimate's activity trail.
	activities, err := repository.NewActivityRepository(db).ListByEstimate(context.Background(), estimates[0].ID)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, domain.ActivityTypeReminder, activities[0].ActivityType)
}
