package commands

import (
	"errors"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"
	"orders/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents a request to create a new order, optionally
// reserving stock immediately and optionally carrying an idempotency key
// supplied by the caller out-of-band.
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID        kernel.UUID
	items          []ItemInput
	attributes     order.Attributes
	reserveOnPlace bool
	idempotencyKey string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a validated creation command. An empty item
// list is permitted and yields a zero-total order. Each supplied item must
// have a positive quantity, a non-negative unit price, and either a SKU or a
// product id to resolve one from.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	items []ItemInput,
	attributes order.Attributes,
	reserveOnPlace bool,
	idempotencyKey string,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		items:          items,
		attributes:     attributes,
		reserveOnPlace: reserveOnPlace,
		idempotencyKey: idempotencyKey,
		guard:          guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.validateItems(items),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the identifier minted for the new order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Items returns the raw line-item inputs.
func (c CreateOrderCommand) Items() []ItemInput {
	return c.items
}

// Attributes returns the descriptive order fields.
func (c CreateOrderCommand) Attributes() order.Attributes {
	return c.attributes
}

// ReserveOnPlace reports whether stock should be reserved immediately.
func (c CreateOrderCommand) ReserveOnPlace() bool {
	return c.reserveOnPlace
}

// IdempotencyKey returns the caller-supplied key, empty when absent.
func (c CreateOrderCommand) IdempotencyKey() string {
	return c.idempotencyKey
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c CreateOrderCommand) validateItems(items []ItemInput) error {
	for _, item := range items {
		if item.SKU == "" && item.ProductID == "" {
			return errs.NewValueIsRequiredError("sku")
		}
		if item.Quantity <= 0 {
			return errs.NewValueIsInvalidError("quantity")
		}
		if item.UnitPrice.IsNegative() {
			return errs.NewValueIsInvalidError("unit_price")
		}
	}
	return nil
}
