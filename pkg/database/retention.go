package database

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/latoulicious/hutbot/pkg/logging"
	"github.com/robfig/cron/v3"
)

// Pruner deletes persisted log rows older than a cutoff
type Pruner interface {
	PruneBefore(cutoff time.Time) (int64, error)
}

// RetentionJob periodically prunes old log rows
type RetentionJob struct {
	cron     *cron.Cron
	entryID  cron.EntryID
	schedule string
	maxAge   time.Duration
	pruner   Pruner
	logger   logging.Logger
	running  atomic.Bool
	now      func() time.Time
}

// NewRetentionJob schedules pruning of rows older than maxAge on a cron schedule
// such as "@daily" or "0 4 * * *"
func NewRetentionJob(pruner Pruner, schedule string, maxAge time.Duration, logger logging.Logger) (*RetentionJob, error) {
	if maxAge <= 0 {
		return nil, fmt.Errorf("log retention must be positive, got %s", maxAge)
	}

	job := &RetentionJob{
		cron:     cron.New(),
		schedule: schedule,
		maxAge:   maxAge,
		pruner:   pruner,
		logger:   logger,
		now:      time.Now,
	}

	id, err := job.cron.AddFunc(schedule, job.Run)
	if err != nil {
		return nil, fmt.Errorf("invalid retention schedule %q: %w", schedule, err)
	}
	job.entryID = id

	return job, nil
}

// Start begins running the job in the background
func (j *RetentionJob) Start() {
	j.cron.Start()
	j.logger.Info("Log retention job started", map[string]interface{}{
		"schedule": j.schedule,
		"max_age":  j.maxAge.String(),
	})
}

// Stop halts the scheduler; the returned context is done once a running prune finishes
func (j *RetentionJob) Stop() context.Context {
	return j.cron.Stop()
}

// NextRun reports when the job fires next, zero until the scheduler has started
func (j *RetentionJob) NextRun() time.Time {
	return j.cron.Entry(j.entryID).Next
}

// IsRunning reports whether a prune is in progress
func (j *RetentionJob) IsRunning() bool {
	return j.running.Load()
}

// Run prunes once. Overlapping runs are skipped.
func (j *RetentionJob) Run() {
	if !j.running.CompareAndSwap(false, true) {
		j.logger.Warn("Log retention already running, skipping", nil)
		return
	}
	defer j.running.Store(false)

	cutoff := j.now().Add(-j.maxAge)
	deleted, err := j.pruner.PruneBefore(cutoff)
	if err != nil {
		j.logger.Error("Log retention failed", err, map[string]interface{}{
			"cutoff": cutoff,
		})
		return
	}

	j.logger.Info("Log retention completed", map[string]interface{}{
		"cutoff":  cutoff,
		"deleted": deleted,
	})
}
