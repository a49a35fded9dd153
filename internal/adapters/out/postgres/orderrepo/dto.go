// Package orderrepo provides data transfer objects and mapping functions for
// order and invoice persistence. The order aggregate spans two tables: the
// order row with its snapshotted totals and one row per line item.
package orderrepo

import (
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting orders. Money
// amounts are minor units; totals are snapshotted at creation time and never
// recomputed from line items.
type OrderDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Number      string    `gorm:"uniqueIndex"`
	UserID      *uuid.UUID `gorm:"type:uuid;index"`
	GuestName   string
	GuestEmail  string
	GuestPhone  string
	Address     string
	GeoLat      *float64
	GeoLng      *float64
	Subtotal    int64
	Tax         int64
	DeliveryFee int64
	Total       int64
	Currency    string
	Status      int `gorm:"index"`

	Items []LineItemDTO `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// LineItemDTO represents one order line.
type LineItemDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID `gorm:"type:uuid;index"`
	VariantID  uuid.UUID `gorm:"type:uuid"`
	Name       string
	UnitPrice  int64
	Currency   string
	Quantity   int
	RentalDays int
}

// TableName specifies the database table name for order line items.
func (LineItemDTO) TableName() string {
	return "order_items"
}

// InvoiceDTO represents the database structure for persisting invoices.
type InvoiceDTO struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Number   string    `gorm:"uniqueIndex"`
	OrderID  uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	Total    int64
	Currency string
	Status   int
}

// TableName specifies the database table name for invoice entities.
func (InvoiceDTO) TableName() string {
	return "invoices"
}

func fromDomain(aggregate *order.Order) OrderDTO {
	customer := aggregate.Customer()

	var userID *uuid.UUID
	if id := customer.UserID(); id != nil {
		raw := id.Bytes()
		userID = &raw
	}

	var geoLat, geoLng *float64
	if geo := aggregate.Geo(); geo != nil {
		lat, lng := geo.Lat(), geo.Lng()
		geoLat, geoLng = &lat, &lng
	}

	items := make([]LineItemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, LineItemDTO{
			ID:         uuid.New(),
			OrderID:    aggregate.ID().Bytes(),
			VariantID:  item.VariantID().Bytes(),
			Name:       item.Name(),
			UnitPrice:  item.UnitPrice().Amount(),
			Currency:   item.UnitPrice().Currency(),
			Quantity:   item.Quantity(),
			RentalDays: item.RentalDays(),
		})
	}

	return OrderDTO{
		ID:          aggregate.ID().Bytes(),
		Number:      aggregate.Number(),
		UserID:      userID,
		GuestName:   customer.GuestName(),
		GuestEmail:  customer.GuestEmail(),
		GuestPhone:  customer.GuestPhone(),
		Address:     aggregate.Address(),
		GeoLat:      geoLat,
		GeoLng:      geoLng,
		Subtotal:    aggregate.Subtotal().Amount(),
		Tax:         aggregate.Tax().Amount(),
		DeliveryFee: aggregate.DeliveryFee().Amount(),
		Total:       aggregate.Total().Amount(),
		Currency:    aggregate.Total().Currency(),
		Status:      int(aggregate.Status()),
		Items:       items,
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customer, err := customerToDomain(dto)
	if err != nil {
		return nil, err
	}

	var geo *kernel.GeoPoint
	if dto.GeoLat != nil && dto.GeoLng != nil {
		point, geoErr := kernel.NewGeoPoint(*dto.GeoLat, *dto.GeoLng)
		if geoErr != nil {
			return nil, geoErr
		}
		geo = &point
	}

	items := make([]order.LineItem, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := lineItemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	subtotal, err := kernel.NewMoney(dto.Subtotal, dto.Currency)
	if err != nil {
		return nil, err
	}
	tax, err := kernel.NewMoney(dto.Tax, dto.Currency)
	if err != nil {
		return nil, err
	}
	fee, err := kernel.NewMoney(dto.DeliveryFee, dto.Currency)
	if err != nil {
		return nil, err
	}
	total, err := kernel.NewMoney(dto.Total, dto.Currency)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		id, dto.Number, customer, dto.Address, geo, items,
		subtotal, tax, fee, total, order.Status(dto.Status),
	)
}

func customerToDomain(dto OrderDTO) (order.Customer, error) {
	if dto.UserID != nil {
		userID, err := kernel.UUIDFromBytes((*dto.UserID)[:])
		if err != nil {
			return order.Customer{}, err
		}
		return order.NewRegisteredCustomer(userID)
	}
	return order.NewGuestCustomer(dto.GuestName, dto.GuestEmail, dto.GuestPhone)
}

func lineItemToDomain(dto LineItemDTO) (order.LineItem, error) {
	variantID, err := kernel.UUIDFromBytes(dto.VariantID[:])
	if err != nil {
		return order.LineItem{}, err
	}
	price, err := kernel.NewMoney(dto.UnitPrice, dto.Currency)
	if err != nil {
		return order.LineItem{}, err
	}
	return order.NewLineItem(variantID, dto.Name, price, dto.Quantity, dto.RentalDays)
}

func invoiceFromDomain(invoice *order.Invoice) InvoiceDTO {
	return InvoiceDTO{
		ID:       invoice.ID().Bytes(),
		Number:   invoice.Number(),
		OrderID:  invoice.OrderID().Bytes(),
		Total:    invoice.Total().Amount(),
		Currency: invoice.Total().Currency(),
		Status:   int(invoice.Status()),
	}
}

func invoiceToDomain(dto InvoiceDTO) (*order.Invoice, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	total, err := kernel.NewMoney(dto.Total, dto.Currency)
	if err != nil {
		return nil, err
	}
	return order.RestoreInvoice(id, dto.Number, orderID, total, order.InvoiceStatus(dto.Status))
}
