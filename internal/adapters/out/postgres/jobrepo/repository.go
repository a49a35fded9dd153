package jobrepo

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/jobqueue"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormJobRepository implements JobRepository using GORM.
type GormJobRepository struct {
	db *gorm.DB
}

// NewGormJobRepository creates a new GORM job repository.
func NewGormJobRepository(db *gorm.DB) *GormJobRepository {
	return &GormJobRepository{db: db}
}

// Add saves a new job entry.
func (r *GormJobRepository) Add(ctx context.Context, entry *jobqueue.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	dto := fromDomain(entry)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update saves an existing job entry.
func (r *GormJobRepository) Update(ctx context.Context, entry *jobqueue.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	dto := fromDomain(entry)
	result := r.db.WithContext(ctx).Model(&EntryDTO{}).Where("id = ?", dto.ID).
		Select("status", "last_error").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Get retrieves a job entry by ID.
func (r *GormJobRepository) Get(ctx context.Context, id kernel.UUID) (*jobqueue.Entry, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto EntryDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("job", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// ClaimDue atomically flips up to limit due Pending entries to Running and
// returns them. SKIP LOCKED keeps concurrent sweeps on disjoint sets, so a
// job runs at most once per scheduling.
func (r *GormJobRepository) ClaimDue(ctx context.Context, now time.Time, limit int) ([]*jobqueue.Entry, error) {
	if limit <= 0 {
		return nil, errs.NewValueIsInvalidError("limit")
	}

	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Raw(`
		UPDATE jobs
		SET status = ?
		WHERE id IN (
			SELECT id FROM jobs
			WHERE status = ? AND run_at <= ?
			ORDER BY run_at
			LIMIT ?
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id
	`, int(jobqueue.StatusRunning), int(jobqueue.StatusPending), now, limit).Scan(&ids).Error
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return []*jobqueue.Entry{}, nil
	}

	var dtos []EntryDTO
	if err = r.db.WithContext(ctx).Find(&dtos, "id IN ?", ids).Error; err != nil {
		return nil, err
	}

	entries := make([]*jobqueue.Entry, 0, len(dtos))
	for _, dto := range dtos {
		entry, entryErr := toDomain(dto)
		if entryErr != nil {
			return nil, entryErr
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
