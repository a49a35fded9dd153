package commands

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrReportWorkerPositionCommandIsNotConstructed = errors.New(
	"ReportWorkerPositionCommand must be created via NewReportWorkerPositionCommand constructor",
)

// ReportWorkerPositionCommand represents one position report from a worker's
// device. The optional delivery reference makes the report visible in that
// delivery's audit trail.
type ReportWorkerPositionCommand struct { //nolint:recvcheck //using for validation
	workerID   kernel.UUID
	position   kernel.GeoPoint
	reportedAt time.Time
	deliveryID *kernel.UUID

	guard guard.ConstructorGuard
}

// NewReportWorkerPositionCommand creates a command to record a worker position.
func NewReportWorkerPositionCommand(
	workerID kernel.UUID,
	position kernel.GeoPoint,
	reportedAt time.Time,
	deliveryID *kernel.UUID,
) (ReportWorkerPositionCommand, error) {
	if err := errors.Join(workerID.Validate(), position.Validate()); err != nil {
		return ReportWorkerPositionCommand{}, err
	}
	if deliveryID != nil {
		if err := deliveryID.Validate(); err != nil {
			return ReportWorkerPositionCommand{}, err
		}
	}

	return ReportWorkerPositionCommand{
		workerID:   workerID,
		position:   position,
		reportedAt: reportedAt,
		deliveryID: deliveryID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ReportWorkerPositionCommand) Validate() error {
	return c.guard.Validate(ErrReportWorkerPositionCommandIsNotConstructed)
}

// WorkerID returns the reporting worker.
func (c ReportWorkerPositionCommand) WorkerID() kernel.UUID {
	return c.workerID
}

// Position returns the reported position.
func (c ReportWorkerPositionCommand) Position() kernel.GeoPoint {
	return c.position
}

// ReportedAt returns the device timestamp of the report.
func (c ReportWorkerPositionCommand) ReportedAt() time.Time {
	return c.reportedAt
}

// DeliveryID returns the delivery the report belongs to, or nil.
func (c ReportWorkerPositionCommand) DeliveryID() *kernel.UUID {
	return c.deliveryID
}
