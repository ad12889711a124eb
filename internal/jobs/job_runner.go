package jobs

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"alumni-connect-backend/internal/config"
	"alumni-connect-backend/internal/logger"
	"alumni-connect-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	services *service.Services
	config   *config.Config
	now      func() time.Time
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(services *service.Services, cfg *config.Config) *JobRunner {
	return &JobRunner{
		services: services,
		config:   cfg,
		now:      time.Now,
	}
}

// Config returns the configuration the runner was built with
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// today is the current UTC calendar date.
func (jr *JobRunner) today() time.Time {
	return jr.now().UTC()
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	start := jr.now()
	jobFunc()
	logger.Info("Job completed", "job", jobName, "duration", jr.now().Sub(start))
}

// RunAllDailyJobs runs all daily jobs (for manual execution)
func (jr *JobRunner) RunAllDailyJobs() {
	jr.CompletePastEvents()
	jr.SendEventReminders()
	jr.RefreshMentorStats()
}

// ErrUnknownJob is returned by Run for a name it does not know
var ErrUnknownJob = errors.New("unknown job")

// jobTable maps the names accepted by Run to the jobs they start
func (jr *JobRunner) jobTable() map[string]func() {
	return map[string]func(){
		"complete-past-events": jr.CompletePastEvents,
		"send-event-reminders": jr.SendEventReminders,
		"refresh-mentor-stats": jr.RefreshMentorStats,
		"all-daily":            jr.RunAllDailyJobs,
	}
}

// JobNames lists the names accepted by Run, sorted
func (jr *JobRunner) JobNames() []string {
	return slices.Sorted(maps.Keys(jr.jobTable()))
}

// Run executes the named job once
func (jr *JobRunner) Run(name string) error {
	job, ok := jr.jobTable()[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownJob, name)
	}
	job()
	return nil
}
