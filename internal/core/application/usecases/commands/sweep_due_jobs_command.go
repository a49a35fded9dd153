package commands

import (
	"errors"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrSweepDueJobsCommandIsNotConstructed = errors.New(
	"SweepDueJobsCommand must be created via NewSweepDueJobsCommand constructor",
)

// SweepDueJobsCommand represents one sweep pass over the deferred job queue.
type SweepDueJobsCommand struct { //nolint:recvcheck //using for validation
	limit int

	guard guard.ConstructorGuard
}

// NewSweepDueJobsCommand creates a command to run one sweep pass picking up
// at most limit due jobs.
func NewSweepDueJobsCommand(limit int) (SweepDueJobsCommand, error) {
	if limit <= 0 {
		return SweepDueJobsCommand{}, errs.NewValueIsInvalidError("limit")
	}

	return SweepDueJobsCommand{
		limit: limit,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c SweepDueJobsCommand) Validate() error {
	return c.guard.Validate(ErrSweepDueJobsCommandIsNotConstructed)
}

// Limit returns the maximum number of jobs one pass may pick up.
func (c SweepDueJobsCommand) Limit() int {
	return c.limit
}
