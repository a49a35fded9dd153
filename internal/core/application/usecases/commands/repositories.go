// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"fulfillment/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Each handler depends on the narrowest interface that covers the
// repositories its transaction touches.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// UnitRepoFactory provides access to the unit repository within a transaction.
	UnitRepoFactory interface {
		UnitRepository() ports.UnitRepository
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// DeliveryRepoFactory provides access to the delivery repository within a transaction.
	DeliveryRepoFactory interface {
		DeliveryRepository() ports.DeliveryRepository
	}

	// WorkerRepoFactory provides access to the worker repository within a transaction.
	WorkerRepoFactory interface {
		WorkerRepository() ports.WorkerRepository
	}

	// JobRepoFactory provides access to the job repository within a transaction.
	JobRepoFactory interface {
		JobRepository() ports.JobRepository
	}

	// OutboxRepoFactory provides access to the outbox repository within a transaction.
	OutboxRepoFactory interface {
		OutboxRepository() ports.OutboxRepository
	}

	// IdempotencyRepoFactory provides access to the idempotency repository within a transaction.
	IdempotencyRepoFactory interface {
		IdempotencyRepository() ports.IdempotencyRepository
	}

	// OrderUoW manages the order creation transaction: reservations, order,
	// invoice, delivery, deferred job, outbox message, and idempotency
	// record all commit or roll back together.
	OrderUoW interface {
		TxManager
		UnitRepoFactory
		OrderRepoFactory
		DeliveryRepoFactory
		JobRepoFactory
		OutboxRepoFactory
		IdempotencyRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// CancelOrderUoW manages the cancellation transaction across order,
	// invoice, units, and delivery.
	CancelOrderUoW interface {
		TxManager
		UnitRepoFactory
		OrderRepoFactory
		DeliveryRepoFactory
	}

	// CancelOrderUoWFactory creates new cancellation unit of work instances.
	CancelOrderUoWFactory interface {
		Create() CancelOrderUoW
	}

	// InvoiceUoW manages payment confirmation, which touches only the order
	// aggregate and its invoice.
	InvoiceUoW interface {
		TxManager
		OrderRepoFactory
	}

	// InvoiceUoWFactory creates new invoice unit of work instances.
	InvoiceUoWFactory interface {
		Create() InvoiceUoW
	}

	// ClaimUoW manages the claim transaction: the conditional claim write
	// plus the worker lookup for vehicle validation.
	ClaimUoW interface {
		TxManager
		DeliveryRepoFactory
		WorkerRepoFactory
	}

	// ClaimUoWFactory creates new claim unit of work instances.
	ClaimUoWFactory interface {
		Create() ClaimUoW
	}

	// DeliveryUoW manages worker and admin delivery mutations. Completion
	// cascades into the order and its units, hence the wider surface.
	DeliveryUoW interface {
		TxManager
		DeliveryRepoFactory
		OrderRepoFactory
		UnitRepoFactory
		OutboxRepoFactory
	}

	// DeliveryUoWFactory creates new delivery unit of work instances.
	DeliveryUoWFactory interface {
		Create() DeliveryUoW
	}

	// WorkerUoW manages worker registration and position reports.
	WorkerUoW interface {
		TxManager
		WorkerRepoFactory
		DeliveryRepoFactory
	}

	// WorkerUoWFactory creates new worker unit of work instances.
	WorkerUoWFactory interface {
		Create() WorkerUoW
	}

	// SweepUoW manages one deferred-job sweep pass.
	SweepUoW interface {
		TxManager
		JobRepoFactory
		DeliveryRepoFactory
		OutboxRepoFactory
	}

	// SweepUoWFactory creates new sweep unit of work instances.
	SweepUoWFactory interface {
		Create() SweepUoW
	}
)
