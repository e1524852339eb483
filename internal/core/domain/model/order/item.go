package order

import (
	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Item is a line item belonging to an order. Its total price is always
// quantity x unit price, recomputed on every write and never independently
// settable.
type Item struct {
	id         kernel.UUID
	sku        string
	productID  string
	quantity   int
	unitPrice  decimal.Decimal
	totalPrice decimal.Decimal
	meta       map[string]any
}

// NewItem creates a validated line item: sku required, quantity positive,
// unit price non-negative.
func NewItem(id kernel.UUID, sku, productID string, quantity int, unitPrice decimal.Decimal, meta map[string]any) (Item, error) {
	if err := id.Validate(); err != nil {
		return Item{}, err
	}
	if sku == "" {
		return Item{}, errs.NewValueIsRequiredError("sku")
	}
	if quantity <= 0 {
		return Item{}, errs.NewValueIsInvalidError("quantity")
	}
	if unitPrice.IsNegative() {
		return Item{}, errs.NewValueIsInvalidError("unit_price")
	}

	return Item{
		id:         id,
		sku:        sku,
		productID:  productID,
		quantity:   quantity,
		unitPrice:  unitPrice,
		totalPrice: lineTotal(unitPrice, quantity),
		meta:       meta,
	}, nil
}

// RestoreItem rehydrates an item from persistence. The total price is
// recomputed rather than trusted from storage.
func RestoreItem(id kernel.UUID, sku, productID string, quantity int, unitPrice decimal.Decimal, meta map[string]any) (Item, error) {
	return NewItem(id, sku, productID, quantity, unitPrice, meta)
}

func lineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

// ID returns the item's unique identifier.
func (i Item) ID() kernel.UUID {
	return i.id
}

// SKU returns the stock keeping unit.
func (i Item) SKU() string {
	return i.sku
}

// ProductID returns the catalog product id, empty when the item was supplied
// without one.
func (i Item) ProductID() string {
	return i.productID
}

// Quantity returns the ordered quantity.
func (i Item) Quantity() int {
	return i.quantity
}

// UnitPrice returns the price per unit.
func (i Item) UnitPrice() decimal.Decimal {
	return i.unitPrice
}

// TotalPrice returns quantity x unit price, rounded to 2 decimal places.
func (i Item) TotalPrice() decimal.Decimal {
	return i.totalPrice
}

// Meta returns the arbitrary item metadata.
func (i Item) Meta() map[string]any {
	return i.meta
}

// ItemPatch is a sparse update to an existing item. Nil fields are left
// unchanged.
type ItemPatch struct {
	SKU       *string
	ProductID *string
	Quantity  *int
	UnitPrice *decimal.Decimal
	Meta      map[string]any
}

// applyPatch mutates the item with the non-nil patch fields, re-validating
// and recomputing the line total.
func (i *Item) applyPatch(patch ItemPatch) error {
	if patch.SKU != nil {
		if *patch.SKU == "" {
			return errs.NewValueIsRequiredError("sku")
		}
		i.sku = *patch.SKU
	}
	if patch.ProductID != nil {
		i.productID = *patch.ProductID
	}
	if patch.Quantity != nil {
		if *patch.Quantity <= 0 {
			return errs.NewValueIsInvalidError("quantity")
		}
		i.quantity = *patch.Quantity
	}
	if patch.UnitPrice != nil {
		if patch.UnitPrice.IsNegative() {
			return errs.NewValueIsInvalidError("unit_price")
		}
		i.unitPrice = *patch.UnitPrice
	}
	if patch.Meta != nil {
		i.meta = patch.Meta
	}

	i.totalPrice = lineTotal(i.unitPrice, i.quantity)
	return nil
}
