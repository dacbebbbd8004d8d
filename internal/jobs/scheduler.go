// Package jobs runs the background schedules of the estimate subsystem.
package jobs

import (
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/businessflow/estimate-api/internal/config"
)

// Scheduler owns the cron runner and the registered jobs.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

func NewScheduler(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		logger: logger,
	}
}

// RegisterReminderJob schedules the signature reminder scan when enabled.
func (s *Scheduler) RegisterReminderJob(cfg *config.RemindersConfig, job *ReminderJob) error {
	if !cfg.Enabled {
		s.logger.Info("signature reminders disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(cfg.Schedule, job.Run); err != nil {
		return err
	}

	s.logger.Info("signature reminder job scheduled",
		zap.String("schedule", cfg.Schedule),
		zap.Int("afterDays", cfg.AfterDays))
	return nil
}

// Start begins running scheduled jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
