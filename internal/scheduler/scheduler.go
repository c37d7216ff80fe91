package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	"givecycle-backend/internal/jobs"
	"givecycle-backend/internal/logger"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler creates a new scheduler with the provided job runner
func NewScheduler(jobRunner *jobs.JobRunner) *Scheduler {
	// Create cron with UTC timezone and seconds precision
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	s.registerJobs()
	return s
}

// registerJobs registers all scheduled jobs with the cron scheduler
func (s *Scheduler) registerJobs() {
	cfg := s.jobs.Config().Scheduler

	// Hourly escrow release
	_, err := s.cron.AddFunc(cfg.ReleaseExpiredEscrows, s.jobs.ReleaseExpiredEscrows)
	if err != nil {
		logger.Error("Failed to register ReleaseExpiredEscrows job", "error", err)
	}

	// Match expiry every 6 hours
	_, err = s.cron.AddFunc(cfg.ExpireStaleMatches, s.jobs.ExpireStaleMatches)
	if err != nil {
		logger.Error("Failed to register ExpireStaleMatches job", "error", err)
	}

	// Daily cycle due-date sweep
	_, err = s.cron.AddFunc(cfg.SweepCycleDueDates, s.jobs.SweepCycleDueDates)
	if err != nil {
		logger.Error("Failed to register SweepCycleDueDates job", "error", err)
	}

	// Daily leaderboard recompute
	_, err = s.cron.AddFunc(cfg.RecomputeLeaderboard, s.jobs.RecomputeLeaderboard)
	if err != nil {
		logger.Error("Failed to register RecomputeLeaderboard job", "error", err)
	}

	logger.Info("All cron jobs registered successfully")
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info("Starting cron scheduler...")
	s.cron.Start()
	logger.Info("Cron scheduler started successfully")
}

// Stop gracefully stops the cron scheduler
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}

// IsRunning returns true if the scheduler has jobs registered
func (s *Scheduler) IsRunning() bool {
	return len(s.cron.Entries()) > 0
}
