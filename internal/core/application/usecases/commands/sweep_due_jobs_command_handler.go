package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/jobqueue"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/outbox"
)

// SweepDueJobsCommandHandler runs one pass of the deferred job scheduler.
// Due Pending entries are flipped to Running with a conditional update, so
// concurrent sweeps pick disjoint sets; each entry then runs its handler and
// ends Done or Failed. Entries are never implicitly re-enqueued.
type SweepDueJobsCommandHandler struct {
	uowFactory        SweepUoWFactory
	escalationAddress string
}

// NewSweepDueJobsCommandHandler creates a handler for job sweeps.
// escalationAddress receives claim-overdue notifications.
func NewSweepDueJobsCommandHandler(uowFactory SweepUoWFactory, escalationAddress string) SweepDueJobsCommandHandler {
	return SweepDueJobsCommandHandler{
		uowFactory:        uowFactory,
		escalationAddress: escalationAddress,
	}
}

// Handle processes one sweep pass and reports how many jobs it ran.
func (h *SweepDueJobsCommandHandler) Handle(ctx context.Context, cmd SweepDueJobsCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	jobRepo := uow.JobRepository()
	entries, err := jobRepo.ClaimDue(ctx, time.Now().UTC(), cmd.Limit())
	if err != nil {
		return 0, err
	}

	for _, entry := range entries {
		if runErr := h.run(ctx, uow, entry); runErr != nil {
			if failErr := entry.Fail(runErr); failErr != nil {
				return 0, failErr
			}
		} else if doneErr := entry.Complete(); doneErr != nil {
			return 0, doneErr
		}

		if err = jobRepo.Update(ctx, entry); err != nil {
			return 0, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return len(entries), nil
}

func (h *SweepDueJobsCommandHandler) run(ctx context.Context, uow SweepUoW, entry *jobqueue.Entry) error {
	switch entry.JobType() {
	case jobqueue.JobCheckDeliveryClaim:
		return h.checkDeliveryClaim(ctx, uow, entry)
	default:
		return fmt.Errorf("unknown job type %q", entry.JobType())
	}
}

// checkDeliveryClaim escalates deliveries that sat unclaimed past the claim
// timeout. It detects and notifies; it never auto-cancels. Re-reading the
// status makes the job idempotent: a claimed delivery is a no-op.
func (h *SweepDueJobsCommandHandler) checkDeliveryClaim(ctx context.Context, uow SweepUoW, entry *jobqueue.Entry) error {
	var payload struct {
		DeliveryID string `json:"deliveryId"`
	}
	if err := json.Unmarshal(entry.Payload(), &payload); err != nil {
		return err
	}
	deliveryID, err := kernel.UUIDFromString(payload.DeliveryID)
	if err != nil {
		return err
	}

	deliveryRepo := uow.DeliveryRepository()
	dlv, err := deliveryRepo.Get(ctx, deliveryID)
	if err != nil {
		return err
	}
	if dlv.Status() != delivery.Queued {
		return nil
	}

	log, err := delivery.NewLog(
		dlv.ID(), delivery.EventEscalated,
		delivery.Queued.String(), delivery.Queued.String(),
		"claim timeout exceeded", "scheduler", "system",
	)
	if err != nil {
		return err
	}
	if err = deliveryRepo.AddLog(ctx, log); err != nil {
		return err
	}

	message, err := outbox.NewMessage(
		outbox.KindClaimOverdue,
		h.escalationAddress,
		fmt.Sprintf("Delivery %s unclaimed", dlv.TrackingCode()),
		fmt.Sprintf("Delivery %s is still queued past its claim timeout.", dlv.TrackingCode()),
	)
	if err != nil {
		return err
	}
	return uow.OutboxRepository().Add(ctx, message)
}
