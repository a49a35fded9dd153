package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/jobqueue"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/outbox"
	"fulfillment/internal/core/domain/model/unit"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// taxRatePercent is applied to the order subtotal.
const taxRatePercent = 10

// Tariff holds the pricing inputs for delivery fees: the warehouse origin
// the route is measured from, a base fee, and a per-kilometer rate. Amounts
// are minor units in the order currency.
type Tariff struct {
	Origin   kernel.GeoPoint
	BaseFee  int64
	PerKmFee int64
}

// CreateOrderResult carries the response produced by order creation.
// Replayed reports that an idempotency record supplied the response and no
// state was changed.
type CreateOrderResult struct {
	Response json.RawMessage
	Replayed bool
}

// createOrderResponse is the persisted shape of a successful creation. It is
// stored in the idempotency record and must stay byte-stable across replays.
type createOrderResponse struct {
	OrderID       string `json:"orderId"`
	OrderNumber   string `json:"orderNumber"`
	InvoiceID     string `json:"invoiceId"`
	InvoiceNumber string `json:"invoiceNumber"`
	DeliveryID    string `json:"deliveryId"`
	TrackingCode  string `json:"trackingCode"`
	Subtotal      int64  `json:"subtotal"`
	Tax           int64  `json:"tax"`
	DeliveryFee   int64  `json:"deliveryFee"`
	Total         int64  `json:"total"`
	Currency      string `json:"currency"`
	Status        string `json:"status"`
}

// CreateOrderCommandHandler is the order factory. One transaction reserves a
// unit per item quantity, creates the order, invoice, and queued delivery,
// schedules the claim-timeout check, writes the confirmation outbox message,
// and records the idempotency key. Any failure rolls back everything.
type CreateOrderCommandHandler struct {
	uowFactory     OrderUoWFactory
	distanceClient ports.DistanceClient
	tariff         Tariff
	claimTimeout   time.Duration
}

// NewCreateOrderCommandHandler creates a handler for order creation.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	distanceClient ports.DistanceClient,
	tariff Tariff,
	claimTimeout time.Duration,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory:     uowFactory,
		distanceClient: distanceClient,
		tariff:         tariff,
		claimTimeout:   claimTimeout,
	}
}

// Handle processes the order creation command.
//
// With an idempotency key, a previously stored response is returned as-is
// with zero side effects. A concurrent first-write losing the key's unique
// constraint resolves the same way: roll back and read the winner's record.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (CreateOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return CreateOrderResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return CreateOrderResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if cmd.IdempotencyKey() != "" {
		stored, err := uow.IdempotencyRepository().Get(ctx, cmd.IdempotencyKey())
		if err == nil {
			return CreateOrderResult{Response: stored, Replayed: true}, nil
		}
		var notFound *errs.ObjectNotFoundError
		if !errors.As(err, &notFound) {
			return CreateOrderResult{}, err
		}
	}

	ord, err := h.createOrder(ctx, cmd)
	if err != nil {
		return CreateOrderResult{}, err
	}

	unitRepo := uow.UnitRepository()
	for _, item := range cmd.Items() {
		units, reserveErr := unitRepo.ReserveAvailable(ctx, item.VariantID(), ord.ID(), item.Quantity())
		if reserveErr != nil {
			return CreateOrderResult{}, reserveErr
		}
		for _, reserved := range units {
			history, histErr := unit.NewHistoryEntry(
				reserved.ID(), unit.Available, unit.Reserved,
				"system", fmt.Sprintf("reserved for order %s", ord.Number()),
			)
			if histErr != nil {
				return CreateOrderResult{}, histErr
			}
			if histErr = unitRepo.AddHistory(ctx, history); histErr != nil {
				return CreateOrderResult{}, histErr
			}
		}
	}

	if err = uow.OrderRepository().Add(ctx, ord); err != nil {
		return CreateOrderResult{}, err
	}

	invoice, err := order.NewInvoice(kernel.NewUUID(), ord.ID(), ord.Total())
	if err != nil {
		return CreateOrderResult{}, err
	}
	if err = uow.OrderRepository().AddInvoice(ctx, invoice); err != nil {
		return CreateOrderResult{}, err
	}

	dlv, err := h.createDelivery(cmd, ord, invoice)
	if err != nil {
		return CreateOrderResult{}, err
	}
	if err = uow.DeliveryRepository().Add(ctx, dlv); err != nil {
		return CreateOrderResult{}, err
	}

	if err = h.scheduleClaimCheck(ctx, uow, dlv); err != nil {
		return CreateOrderResult{}, err
	}

	if err = h.enqueueConfirmation(ctx, uow, cmd, ord); err != nil {
		return CreateOrderResult{}, err
	}

	response, err := json.Marshal(createOrderResponse{
		OrderID:       ord.ID().String(),
		OrderNumber:   ord.Number(),
		InvoiceID:     invoice.ID().String(),
		InvoiceNumber: invoice.Number(),
		DeliveryID:    dlv.ID().String(),
		TrackingCode:  dlv.TrackingCode().String(),
		Subtotal:      ord.Subtotal().Amount(),
		Tax:           ord.Tax().Amount(),
		DeliveryFee:   ord.DeliveryFee().Amount(),
		Total:         ord.Total().Amount(),
		Currency:      ord.Total().Currency(),
		Status:        ord.Status().String(),
	})
	if err != nil {
		return CreateOrderResult{}, err
	}

	if cmd.IdempotencyKey() != "" {
		if err = uow.IdempotencyRepository().Add(ctx, cmd.IdempotencyKey(), response); err != nil {
			if errors.Is(err, ports.ErrIdempotencyKeyTaken) {
				return h.replayWinner(ctx, cmd.IdempotencyKey())
			}
			return CreateOrderResult{}, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return CreateOrderResult{}, err
	}

	return CreateOrderResult{Response: response}, nil
}

// replayWinner reads the record written by a concurrently racing request.
// The caller's own transaction is already doomed to roll back.
func (h *CreateOrderCommandHandler) replayWinner(ctx context.Context, key string) (CreateOrderResult, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return CreateOrderResult{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	stored, err := uow.IdempotencyRepository().Get(ctx, key)
	if err != nil {
		return CreateOrderResult{}, err
	}
	return CreateOrderResult{Response: stored, Replayed: true}, nil
}

func (h *CreateOrderCommandHandler) createOrder(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	currency, subtotal, err := sumItems(cmd.Items())
	if err != nil {
		return nil, err
	}

	tax, err := kernel.NewMoney(subtotal.Amount()*taxRatePercent/100, currency)
	if err != nil {
		return nil, err
	}

	fee, err := h.deliveryFee(ctx, cmd, currency)
	if err != nil {
		return nil, err
	}

	return order.NewOrder(kernel.NewUUID(), cmd.Customer(), cmd.Address(), cmd.Geo(), cmd.Items(), tax, fee)
}

// deliveryFee prices the courier leg. Pickup orders carry no fee. Routing
// failures degrade to a zero fee instead of blocking creation.
func (h *CreateOrderCommandHandler) deliveryFee(ctx context.Context, cmd CreateOrderCommand, currency string) (kernel.Money, error) {
	if cmd.Method() == delivery.MethodPickup || cmd.Geo() == nil {
		return kernel.NewZeroMoney(currency)
	}

	estimate, err := h.distanceClient.CalculateETA(ctx, h.tariff.Origin, *cmd.Geo())
	if err != nil {
		return kernel.NewZeroMoney(currency)
	}

	km := int64(estimate.DistanceMeters / 1000)
	return kernel.NewMoney(h.tariff.BaseFee+h.tariff.PerKmFee*km, currency)
}

func (h *CreateOrderCommandHandler) createDelivery(cmd CreateOrderCommand, ord *order.Order, invoice *order.Invoice) (*delivery.Delivery, error) {
	items := make([]delivery.Item, 0, len(cmd.Items()))
	for _, line := range cmd.Items() {
		item, err := delivery.NewItem(line.VariantID(), line.Name(), line.Quantity())
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return delivery.NewDelivery(ord.ID(), invoice.ID(), cmd.Method(), items)
}

func (h *CreateOrderCommandHandler) scheduleClaimCheck(ctx context.Context, uow OrderUoW, dlv *delivery.Delivery) error {
	payload, err := json.Marshal(map[string]string{"deliveryId": dlv.ID().String()})
	if err != nil {
		return err
	}

	entry, err := jobqueue.NewEntry(jobqueue.JobCheckDeliveryClaim, payload, time.Now().UTC().Add(h.claimTimeout))
	if err != nil {
		return err
	}
	return uow.JobRepository().Add(ctx, entry)
}

func (h *CreateOrderCommandHandler) enqueueConfirmation(ctx context.Context, uow OrderUoW, cmd CreateOrderCommand, ord *order.Order) error {
	recipient := cmd.Customer().GuestEmail()
	if recipient == "" {
		recipient = "user:" + cmd.Customer().UserID().String()
	}

	message, err := outbox.NewMessage(
		outbox.KindOrderConfirmed,
		recipient,
		fmt.Sprintf("Order %s confirmed", ord.Number()),
		fmt.Sprintf("Your order %s was created and awaits payment. Total: %s.", ord.Number(), ord.Total()),
	)
	if err != nil {
		return err
	}
	return uow.OutboxRepository().Add(ctx, message)
}

func sumItems(items []order.LineItem) (currency string, subtotal kernel.Money, err error) {
	currency = items[0].UnitPrice().Currency()
	subtotal, err = kernel.NewZeroMoney(currency)
	if err != nil {
		return "", kernel.Money{}, err
	}

	for _, item := range items {
		line, lineErr := item.Subtotal()
		if lineErr != nil {
			return "", kernel.Money{}, lineErr
		}
		subtotal, lineErr = subtotal.Add(line)
		if lineErr != nil {
			return "", kernel.Money{}, lineErr
		}
	}
	return currency, subtotal, nil
}
