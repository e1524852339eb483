package commands

import (
	"context"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
	"orders/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ItemInput carries the raw line-item fields supplied by a caller before
// they become validated domain items.
type ItemInput struct {
	SKU       string
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
	Meta      map[string]any
}

// buildItems converts inputs into validated domain items, minting an id for
// each.
func buildItems(inputs []ItemInput) ([]order.Item, error) {
	items := make([]order.Item, 0, len(inputs))
	for _, input := range inputs {
		item, err := order.NewItem(kernel.NewUUID(), input.SKU, input.ProductID, input.Quantity, input.UnitPrice, input.Meta)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// enrichItems resolves catalog data for inputs carrying a product id: the
// catalog's SKU and unit price take precedence over caller-supplied values.
// A missing or inactive product aborts the whole creation.
func enrichItems(ctx context.Context, catalog ports.ProductCatalog, inputs []ItemInput) ([]ItemInput, error) {
	enriched := make([]ItemInput, len(inputs))
	for i, input := range inputs {
		if input.ProductID == "" {
			enriched[i] = input
			continue
		}

		product, err := catalog.GetProduct(ctx, input.ProductID)
		if err != nil {
			return nil, err
		}
		if !product.IsActive {
			return nil, errs.NewValueIsInvalidErrorWithCause("product_id", errs.NewValueIsInvalidError(input.ProductID+" is not active"))
		}

		input.SKU = product.SKU
		input.UnitPrice = product.UnitPrice
		enriched[i] = input
	}
	return enriched, nil
}

// reservationItems projects an order's items into the gateway's wire shape.
func reservationItems(aggregate *order.Order) []ports.ReservationItem {
	items := aggregate.Items()
	out := make([]ports.ReservationItem, 0, len(items))
	for _, item := range items {
		out = append(out, ports.ReservationItem{
			SKU:      item.SKU(),
			Quantity: item.Quantity(),
		})
	}
	return out
}
