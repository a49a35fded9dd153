package outboxrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/outbox"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOutboxRepository implements OutboxRepository using GORM.
type GormOutboxRepository struct {
	db *gorm.DB
}

// NewGormOutboxRepository creates a new GORM outbox repository.
func NewGormOutboxRepository(db *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{db: db}
}

// Add saves a new outbox message.
func (r *GormOutboxRepository) Add(ctx context.Context, message *outbox.Message) error {
	if err := message.Validate(); err != nil {
		return err
	}

	dto := fromDomain(message)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update saves an existing outbox message.
func (r *GormOutboxRepository) Update(ctx context.Context, message *outbox.Message) error {
	if err := message.Validate(); err != nil {
		return err
	}

	dto := fromDomain(message)
	result := r.db.WithContext(ctx).Model(&MessageDTO{}).Where("id = ?", dto.ID).
		Select("status", "attempts", "sent_at").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Get retrieves an outbox message by ID.
func (r *GormOutboxRepository) Get(ctx context.Context, id kernel.UUID) (*outbox.Message, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto MessageDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("message", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetUnsent retrieves up to limit Pending messages, oldest first, so one
// dispatch pass drains the queue in creation order. Selected rows are locked
// with SKIP LOCKED for the rest of the transaction, so overlapping dispatch
// passes pick disjoint sets and no message is delivered twice.
func (r *GormOutboxRepository) GetUnsent(ctx context.Context, limit int) ([]*outbox.Message, error) {
	if limit <= 0 {
		return nil, errs.NewValueIsInvalidError("limit")
	}

	var dtos []MessageDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("status = ?", int(outbox.StatusPending)).
		Order("created_at ASC").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	messages := make([]*outbox.Message, 0, len(dtos))
	for _, dto := range dtos {
		message, msgErr := toDomain(dto)
		if msgErr != nil {
			return nil, msgErr
		}
		messages = append(messages, message)
	}
	return messages, nil
}
