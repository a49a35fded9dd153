package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/outbox"
)

// Notifier defines the contract for delivering outbox messages to their
// recipients. Implementations are expected to be safe for concurrent use.
type Notifier interface {
	// Send delivers one message. A nil return means the provider accepted
	// the message; the dispatcher then marks it sent.
	Send(ctx context.Context, message *outbox.Message) error
}
