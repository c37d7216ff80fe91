package jobs

import (
	"givecycle-backend/internal/config"
	"givecycle-backend/internal/logger"
	"givecycle-backend/internal/repository"
	"givecycle-backend/internal/service"
)

// JobRunner coordinates all scheduled reconciliation jobs
type JobRunner struct {
	store    repository.Store
	notifier service.Notifier
	config   *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(store repository.Store, notifier service.Notifier, cfg *config.Config) *JobRunner {
	return &JobRunner{
		store:    store,
		notifier: notifier,
		config:   cfg,
	}
}

// Config exposes the loaded configuration to the scheduler
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAllHourlyJobs runs all hourly jobs (for manual execution)
func (jr *JobRunner) RunAllHourlyJobs() {
	jr.ReleaseExpiredEscrows()
}

// RunAllDailyJobs runs all daily jobs (for manual execution)
func (jr *JobRunner) RunAllDailyJobs() {
	jr.SweepCycleDueDates()
	jr.RecomputeLeaderboard()
}
