// Package jobrepo provides data transfer objects and mapping functions for
// the deferred job queue.
package jobrepo

import (
	"encoding/json"
	"time"

	"fulfillment/internal/core/domain/model/jobqueue"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// EntryDTO represents one deferred job row. The sweep selects by status and
// run_at, hence the composite index.
type EntryDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	JobType   string    `gorm:"type:varchar(64);not null"`
	Payload   string    `gorm:"type:jsonb"`
	RunAt     time.Time `gorm:"index:idx_jobs_status_run_at"`
	Status    int       `gorm:"index:idx_jobs_status_run_at"`
	LastError string
	CreatedAt time.Time
}

// TableName specifies the database table name for deferred jobs.
func (EntryDTO) TableName() string {
	return "jobs"
}

func fromDomain(entry *jobqueue.Entry) EntryDTO {
	return EntryDTO{
		ID:        entry.ID().Bytes(),
		JobType:   entry.JobType(),
		Payload:   string(entry.Payload()),
		RunAt:     entry.RunAt(),
		Status:    int(entry.Status()),
		LastError: entry.LastError(),
		CreatedAt: entry.CreatedAt(),
	}
}

func toDomain(dto EntryDTO) (*jobqueue.Entry, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return jobqueue.RestoreEntry(
		id, dto.JobType, json.RawMessage(dto.Payload),
		dto.RunAt, jobqueue.Status(dto.Status), dto.LastError, dto.CreatedAt,
	)
}
