// Package queries contains the read side of the application. Handlers run
// directly against the database and return plain response structures,
// bypassing the aggregate.
package queries

import (
	"errors"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/errs"
	"orders/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves a single order with its items and totals.
type GetOrderQuery struct {
	OrderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, errs.NewValueIsRequiredErrorWithCause("order_id", err)
	}
	return GetOrderQuery{OrderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderItemResponse is one line item of an order.
type OrderItemResponse struct {
	ID         kernel.UUID     `json:"id"`
	SKU        string          `json:"sku"`
	ProductID  string          `json:"product_id,omitempty"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Meta       map[string]any  `json:"meta,omitempty"`
}

// OrderTotalsResponse is the monetary breakdown of an order.
type OrderTotalsResponse struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	Tax        decimal.Decimal `json:"tax"`
	Shipping   decimal.Decimal `json:"shipping"`
	Discounts  decimal.Decimal `json:"discounts"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// GetOrderQueryResponse is the full read model of an order. Items come back
// in insertion order.
type GetOrderQueryResponse struct {
	ID                   kernel.UUID         `json:"id"`
	Reference            string              `json:"reference"`
	Status               string              `json:"status"`
	CustomerID           string              `json:"customer_id"`
	SalesChannel         string              `json:"sales_channel,omitempty"`
	ShippingAddress      string              `json:"shipping_address,omitempty"`
	BillingInfo          string              `json:"billing_info,omitempty"`
	Notes                string              `json:"notes,omitempty"`
	PreferredWarehouseID string              `json:"preferred_warehouse_id,omitempty"`
	ReservationID        *kernel.UUID        `json:"reservation_id,omitempty"`
	Items                []OrderItemResponse `json:"items"`
	Totals               OrderTotalsResponse `json:"totals"`
	Version              int64               `json:"version"`
	CreatedAt            time.Time           `json:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at"`
}
