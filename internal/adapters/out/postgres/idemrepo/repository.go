// Package idemrepo persists idempotency records: one row per client key
// holding the exact response the original request produced. The primary key
// on the client key is what arbitrates concurrent duplicates.
package idemrepo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecordDTO represents one stored idempotency record.
type RecordDTO struct {
	Key       string `gorm:"primaryKey"`
	Response  string `gorm:"type:jsonb"`
	CreatedAt time.Time
}

// TableName specifies the database table name for idempotency records.
func (RecordDTO) TableName() string {
	return "idempotency_records"
}

// GormIdempotencyRepository implements IdempotencyRepository using GORM.
type GormIdempotencyRepository struct {
	db *gorm.DB
}

// NewGormIdempotencyRepository creates a new GORM idempotency repository.
func NewGormIdempotencyRepository(db *gorm.DB) *GormIdempotencyRepository {
	return &GormIdempotencyRepository{db: db}
}

// Add stores the response under the key. When another request already owns
// the key the insert hits ON CONFLICT DO NOTHING, affects zero rows, and
// surfaces as ErrIdempotencyKeyTaken so the caller can replay the winner.
func (r *GormIdempotencyRepository) Add(ctx context.Context, key string, response json.RawMessage) error {
	if key == "" {
		return errs.NewValueIsRequiredError("key")
	}

	dto := RecordDTO{
		Key:       key,
		Response:  string(response),
		CreatedAt: time.Now().UTC(),
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrIdempotencyKeyTaken
	}
	return nil
}

// Get retrieves the stored response for a key.
func (r *GormIdempotencyRepository) Get(ctx context.Context, key string) (json.RawMessage, error) {
	if key == "" {
		return nil, errs.NewValueIsRequiredError("key")
	}

	var dto RecordDTO
	if err := r.db.WithContext(ctx).First(&dto, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("idempotencyKey", key)
		}
		return nil, err
	}

	return json.RawMessage(dto.Response), nil
}
