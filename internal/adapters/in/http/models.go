package http

import (
	"time"

	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// ErrorResponse is the uniform error body returned by every endpoint.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type ItemRequest struct {
	SKU       string          `json:"sku"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Meta      map[string]any  `json:"meta"`
}

type CreateOrderRequest struct {
	Reference            string        `json:"reference"`
	CustomerID           string        `json:"customer_id"`
	SalesChannel         string        `json:"sales_channel"`
	ShippingAddress      string        `json:"shipping_address"`
	BillingInfo          string        `json:"billing_info"`
	Notes                string        `json:"notes"`
	PreferredWarehouseID string        `json:"preferred_warehouse_id"`
	Items                []ItemRequest `json:"items"`
	ReserveOnPlace       *bool         `json:"reserve_on_place"`
}

// reserveOnPlace resolves the optional flag. An omitted flag means the caller
// wants stock reserved at placement, so only an explicit false disables it.
func (r CreateOrderRequest) reserveOnPlace() bool {
	return r.ReserveOnPlace == nil || *r.ReserveOnPlace
}

type PatchOrderRequest struct {
	ShippingAddress *string `json:"shipping_address"`
	Notes           *string `json:"notes"`
	ExpectedVersion *int64  `json:"expected_version"`
}

type AddItemsRequest struct {
	Items []ItemRequest `json:"items"`
}

type UpdateItemRequest struct {
	SKU       *string          `json:"sku"`
	ProductID *string          `json:"product_id"`
	Quantity  *int             `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
	Meta      map[string]any   `json:"meta"`
}

type ChangeStatusRequest struct {
	Status         string `json:"status"`
	Reason         string `json:"reason"`
	WarehouseID    string `json:"warehouse_id"`
	TrackingNumber string `json:"tracking_number"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

type ItemResponse struct {
	ID         string          `json:"id"`
	SKU        string          `json:"sku"`
	ProductID  string          `json:"product_id,omitempty"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Meta       map[string]any  `json:"meta,omitempty"`
}

type TotalsResponse struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	Tax        decimal.Decimal `json:"tax"`
	Shipping   decimal.Decimal `json:"shipping"`
	Discounts  decimal.Decimal `json:"discounts"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// OrderResponse is the write-side view of an order, returned from command
// endpoints after a successful mutation.
type OrderResponse struct {
	ID                   string         `json:"id"`
	Reference            string         `json:"reference"`
	Status               string         `json:"status"`
	CustomerID           string         `json:"customer_id"`
	SalesChannel         string         `json:"sales_channel,omitempty"`
	ShippingAddress      string         `json:"shipping_address,omitempty"`
	BillingInfo          string         `json:"billing_info,omitempty"`
	Notes                string         `json:"notes,omitempty"`
	PreferredWarehouseID string         `json:"preferred_warehouse_id,omitempty"`
	ReservationID        *string        `json:"reservation_id,omitempty"`
	Items                []ItemResponse `json:"items"`
	Totals               TotalsResponse `json:"totals"`
	Version              int64          `json:"version"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

func orderToResponse(aggregate *order.Order) OrderResponse {
	var reservationID *string
	if id := aggregate.ReservationID(); id != nil {
		value := id.String()
		reservationID = &value
	}

	items := make([]ItemResponse, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, ItemResponse{
			ID:         item.ID().String(),
			SKU:        item.SKU(),
			ProductID:  item.ProductID(),
			Quantity:   item.Quantity(),
			UnitPrice:  item.UnitPrice(),
			TotalPrice: item.TotalPrice(),
			Meta:       item.Meta(),
		})
	}

	totals := aggregate.Totals()
	return OrderResponse{
		ID:                   aggregate.ID().String(),
		Reference:            aggregate.Reference(),
		Status:               aggregate.Status().String(),
		CustomerID:           aggregate.CustomerID(),
		SalesChannel:         aggregate.SalesChannel(),
		ShippingAddress:      aggregate.ShippingAddress(),
		BillingInfo:          aggregate.BillingInfo(),
		Notes:                aggregate.Notes(),
		PreferredWarehouseID: aggregate.PreferredWarehouseID(),
		ReservationID:        reservationID,
		Items:                items,
		Totals: TotalsResponse{
			Subtotal:   totals.Subtotal,
			Tax:        totals.Tax,
			Shipping:   totals.Shipping,
			Discounts:  totals.Discounts,
			GrandTotal: totals.GrandTotal,
		},
		Version:   aggregate.Version(),
		CreatedAt: aggregate.CreatedAt(),
		UpdatedAt: aggregate.UpdatedAt(),
	}
}

func itemInputsFromRequest(items []ItemRequest) []commands.ItemInput {
	inputs := make([]commands.ItemInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, commands.ItemInput{
			SKU:       item.SKU,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Meta:      item.Meta,
		})
	}
	return inputs
}
