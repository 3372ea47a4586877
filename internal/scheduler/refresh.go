package scheduler

import (
	"context"
	"fmt"

	"github.com/screenerlabs/equityscreener/internal/ingest"
)

// RefreshJob runs the full data refresh on its cron schedule.
type RefreshJob struct {
	service  *ingest.Service
	schedule string
}

// NewRefreshJob creates the nightly refresh job.
func NewRefreshJob(service *ingest.Service, schedule string) *RefreshJob {
	return &RefreshJob{service: service, schedule: schedule}
}

func (j *RefreshJob) Name() string { return "data_refresh" }

func (j *RefreshJob) Schedule() string { return j.schedule }

// Run refreshes every instrument. A partial refresh is not a job failure;
// only a batch that could not run at all is.
func (j *RefreshJob) Run(ctx context.Context) error {
	result, err := j.service.Refresh(ctx, nil)
	if err != nil {
		return err
	}
	if result.Total > 0 && result.Succeeded == 0 {
		return fmt.Errorf("refresh failed for all %d tickers", result.Total)
	}
	return nil
}
