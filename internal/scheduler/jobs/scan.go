package jobs

import (
	"context"
	"fmt"

	"github.com/wtopps/quantitative-stock-selection/internal/pipeline"
	"github.com/wtopps/quantitative-stock-selection/pkg/logger"
)

// ScanJob runs the full screening pass before the close on trading days.
type ScanJob struct {
	orchestrator *pipeline.Orchestrator
	schedule     string
	logger       *logger.Logger
}

// NewScanJob creates the daily screening job.
func NewScanJob(orchestrator *pipeline.Orchestrator, schedule string, log *logger.Logger) *ScanJob {
	return &ScanJob{
		orchestrator: orchestrator,
		schedule:     schedule,
		logger:       log,
	}
}

// Name returns the job name
func (j *ScanJob) Name() string {
	return "daily_scan"
}

// Schedule returns the cron schedule expression
func (j *ScanJob) Schedule() string {
	return j.schedule
}

// Run executes one screening pass
func (j *ScanJob) Run(ctx context.Context) error {
	batch, err := j.orchestrator.Run(ctx)
	if err != nil {
		return fmt.Errorf("daily scan failed: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"batch_id": batch.ID,
		"selected": len(batch.Stocks),
	}).Info("Daily scan finished")
	return nil
}
