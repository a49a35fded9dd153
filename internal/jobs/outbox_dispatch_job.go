package jobs

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/ports"

	"github.com/robfig/cron/v3"
)

const (
	// dispatchBatchLimit caps how many messages one dispatch pass sends.
	dispatchBatchLimit = 50
	// dispatchMaxAttempts is the number of send failures before a message
	// is parked as Failed.
	dispatchMaxAttempts = 5
)

// OutboxDispatchJob drains the notification outbox: commands store messages
// transactionally with their state change, this job delivers them. Delivery
// is at-least-once; a crash between provider accept and the status update
// re-sends the message on the next pass.
type OutboxDispatchJob struct {
	uowFactory ports.UnitOfWorkFactory
	notifier   ports.Notifier
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewOutboxDispatchJob creates the dispatch job.
func NewOutboxDispatchJob(
	uowFactory ports.UnitOfWorkFactory,
	notifier ports.Notifier,
	logger *slog.Logger,
) *OutboxDispatchJob {
	return &OutboxDispatchJob{
		uowFactory: uowFactory,
		notifier:   notifier,
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger.With("component", "outbox_dispatch_job"),
	}
}

// Start begins the dispatch job to run every ten seconds.
func (j *OutboxDispatchJob) Start() error {
	_, err := j.cron.AddFunc("*/10 * * * * *", func() {
		ctx := context.Background()
		if dispatchErr := j.dispatch(ctx); dispatchErr != nil {
			j.logger.ErrorContext(ctx, "Outbox dispatch failed", "error", dispatchErr)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Outbox dispatch job started (running every ten seconds)")
	return nil
}

// Stop stops the dispatch job.
func (j *OutboxDispatchJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Outbox dispatch job stopped")
}

// dispatch sends one batch of pending messages and records the outcome of
// each send.
func (j *OutboxDispatchJob) dispatch(ctx context.Context) error {
	uow := j.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	outboxRepo := uow.OutboxRepository()
	messages, err := outboxRepo.GetUnsent(ctx, dispatchBatchLimit)
	if err != nil {
		return err
	}
	if len(messages) == 0 {
		return nil
	}

	for _, message := range messages {
		if sendErr := j.notifier.Send(ctx, message); sendErr != nil {
			j.logger.WarnContext(ctx, "Notification send failed",
				"kind", message.Kind(),
				"attempts", message.Attempts()+1,
				"error", sendErr,
			)
			if failErr := message.RecordFailure(dispatchMaxAttempts); failErr != nil {
				return failErr
			}
		} else if markErr := message.MarkSent(time.Now().UTC()); markErr != nil {
			return markErr
		}

		if updateErr := outboxRepo.Update(ctx, message); updateErr != nil {
			return updateErr
		}
	}

	return uow.Commit(ctx)
}
