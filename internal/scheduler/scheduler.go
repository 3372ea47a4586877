// Package scheduler runs periodic maintenance jobs, primarily the nightly
// data refresh after market close.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/screenerlabs/equityscreener/pkg/logger"
)

// Job is one schedulable unit of work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
	// Schedule is a standard 5-field cron expression, e.g. "30 18 * * 1-5".
	Schedule() string
}

// JobResult records one execution.
type JobResult struct {
	JobName   string        `json:"job_name"`
	StartTime time.Time     `json:"start_time"`
	Duration  time.Duration `json:"duration"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

const historyLimit = 100

// Scheduler registers jobs with cron and keeps a bounded execution history.
type Scheduler struct {
	cron   *cron.Cron
	logger *logger.Logger

	mu      sync.RWMutex
	history map[string][]JobResult

	maxRetries int
	retryDelay time.Duration
}

// New creates a scheduler.
func New(log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:       cron.New(),
		logger:     log,
		history:    make(map[string][]JobResult),
		maxRetries: 2,
		retryDelay: time.Minute,
	}
}

// Register adds a job under its own schedule.
func (s *Scheduler) Register(job Job) error {
	_, err := s.cron.AddFunc(job.Schedule(), func() { s.runJob(job) })
	if err != nil {
		return fmt.Errorf("register job %s: %w", job.Name(), err)
	}
	s.logger.WithFields(map[string]interface{}{
		"job":      job.Name(),
		"schedule": job.Schedule(),
	}).Info("Job registered")
	return nil
}

// Start begins executing schedules in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started")
}

// Stop halts scheduling and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Scheduler stopped")
}

// runJob executes one job with bounded retries and records the outcome.
func (s *Scheduler) runJob(job Job) {
	start := time.Now()
	s.logger.WithField("job", job.Name()).Info("Job started")

	var lastErr error
	success := false
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if err := job.Run(context.Background()); err != nil {
			lastErr = err
			s.logger.WithError(err).WithFields(map[string]interface{}{
				"job":     job.Name(),
				"attempt": attempt + 1,
			}).Warn("Job execution failed")
			if attempt < s.maxRetries {
				time.Sleep(s.retryDelay)
			}
			continue
		}
		success = true
		break
	}

	result := JobResult{
		JobName:   job.Name(),
		StartTime: start,
		Duration:  time.Since(start),
		Success:   success,
	}
	if !success && lastErr != nil {
		result.Error = lastErr.Error()
	}
	s.record(result)

	if success {
		s.logger.WithFields(map[string]interface{}{
			"job":      job.Name(),
			"duration": result.Duration,
		}).Info("Job completed")
	} else {
		s.logger.WithFields(map[string]interface{}{
			"job":   job.Name(),
			"error": result.Error,
		}).Error("Job failed after all retries")
	}
}

func (s *Scheduler) record(result JobResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := append(s.history[result.JobName], result)
	if len(h) > historyLimit {
		h = h[len(h)-historyLimit:]
	}
	s.history[result.JobName] = h
}

// History returns the recorded executions for a job, oldest first.
func (s *Scheduler) History(jobName string) []JobResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]JobResult(nil), s.history[jobName]...)
}
