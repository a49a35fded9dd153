package jobs

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// sweepBatchLimit caps how many due jobs one sweep pass picks up.
const sweepBatchLimit = 100

// ClaimSweepJob periodically runs the deferred job sweep, which detects
// deliveries whose claim timed out and escalates them. The detection window
// is the sweep interval; one minute keeps escalations timely without loading
// the queue table.
type ClaimSweepJob struct {
	handler commands.SweepDueJobsCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewClaimSweepJob creates the sweep job. Uses SweepDueJobsCommandHandler to
// process due queue entries once per minute.
func NewClaimSweepJob(handler commands.SweepDueJobsCommandHandler, logger *slog.Logger) *ClaimSweepJob {
	return &ClaimSweepJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "claim_sweep_job"),
	}
}

// Start begins the sweep job to run every minute.
func (j *ClaimSweepJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * * *", func() {
		ctx := context.Background()

		cmd, cmdErr := commands.NewSweepDueJobsCommand(sweepBatchLimit)
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Sweep command construction failed", "error", cmdErr)
			return
		}

		ran, handleErr := j.handler.Handle(ctx, cmd)
		if handleErr != nil {
			j.logger.ErrorContext(ctx, "Claim sweep failed", "error", handleErr)
			return
		}
		if ran > 0 {
			j.logger.InfoContext(ctx, "Claim sweep finished", "jobs", ran)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Claim sweep job started (running every minute)")
	return nil
}

// Stop stops the sweep job.
func (j *ClaimSweepJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Claim sweep job stopped")
}
