// Package outboxrepo provides data transfer objects and mapping functions
// for the notification outbox. Messages are written in the same transaction
// as the state change they announce and dispatched asynchronously.
package outboxrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/outbox"

	"github.com/google/uuid"
)

// MessageDTO represents one outbox row.
type MessageDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Kind      string    `gorm:"type:varchar(64);not null"`
	Recipient string    `gorm:"not null"`
	Subject   string
	Body      string
	Status    int `gorm:"index"`
	Attempts  int
	SentAt    *time.Time
	CreatedAt time.Time `gorm:"index"`
}

// TableName specifies the database table name for outbox messages.
func (MessageDTO) TableName() string {
	return "outbox_messages"
}

func fromDomain(message *outbox.Message) MessageDTO {
	return MessageDTO{
		ID:        message.ID().Bytes(),
		Kind:      message.Kind(),
		Recipient: message.Recipient(),
		Subject:   message.Subject(),
		Body:      message.Body(),
		Status:    int(message.Status()),
		Attempts:  message.Attempts(),
		SentAt:    message.SentAt(),
		CreatedAt: message.CreatedAt(),
	}
}

func toDomain(dto MessageDTO) (*outbox.Message, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return outbox.RestoreMessage(
		id, dto.Kind, dto.Recipient, dto.Subject, dto.Body,
		outbox.Status(dto.Status), dto.Attempts, dto.SentAt, dto.CreatedAt,
	)
}
