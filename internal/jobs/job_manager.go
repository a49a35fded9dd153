// Package jobs provides scheduled background tasks built on
// github.com/robfig/cron/v3.
//
// Two jobs run alongside the HTTP server:
//
//  1. ClaimSweepJob - runs every minute to pick up due queue entries and
//     escalate deliveries whose claim timed out
//  2. OutboxDispatchJob - runs every ten seconds to deliver pending outbox
//     notifications
//
// Jobs are managed through JobManager:
//
//	jobManager := jobs.NewJobManager(sweepHandler, uowFactory, notifier, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
package jobs

import (
	"fmt"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/ports"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	claimSweepJob     *ClaimSweepJob
	outboxDispatchJob *OutboxDispatchJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	sweepHandler commands.SweepDueJobsCommandHandler,
	uowFactory ports.UnitOfWorkFactory,
	notifier ports.Notifier,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		claimSweepJob:     NewClaimSweepJob(sweepHandler, logger),
		outboxDispatchJob: NewOutboxDispatchJob(uowFactory, notifier, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.claimSweepJob.Start(); err != nil {
		return fmt.Errorf("failed to start claim sweep job: %w", err)
	}

	if err := jm.outboxDispatchJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.claimSweepJob.Stop()
		return fmt.Errorf("failed to start outbox dispatch job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.claimSweepJob.Stop()
	jm.outboxDispatchJob.Stop()
}
