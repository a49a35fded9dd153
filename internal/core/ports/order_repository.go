package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates and
// their invoices. An invoice always belongs to exactly one order and is
// written in the same transaction that creates the order.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// AddInvoice persists a new invoice.
	AddInvoice(ctx context.Context, invoice *order.Invoice) error

	// UpdateInvoice persists changes to an existing invoice.
	UpdateInvoice(ctx context.Context, invoice *order.Invoice) error

	// GetInvoice retrieves an invoice by its unique identifier.
	GetInvoice(ctx context.Context, id kernel.UUID) (*order.Invoice, error)

	// GetInvoiceByOrder retrieves the invoice attached to an order.
	GetInvoiceByOrder(ctx context.Context, orderID kernel.UUID) (*order.Invoice, error)
}
