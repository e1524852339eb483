package commands

import (
	"errors"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/errs"
	"orders/internal/pkg/guard"
)

var ErrAddItemsCommandIsNotConstructed = errors.New(
	"AddItemsCommand must be created via NewAddItemsCommand constructor",
)

// AddItemsCommand represents a request to append line items to an order
// still in a pre-reservation status.
type AddItemsCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	items   []ItemInput

	guard guard.ConstructorGuard
}

// NewAddItemsCommand creates a validated add-items command. At least one
// item is required; each must have a SKU, a positive quantity and a
// non-negative unit price.
func NewAddItemsCommand(orderID kernel.UUID, items []ItemInput) (AddItemsCommand, error) {
	cmd := AddItemsCommand{
		items: items,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setItems(items),
	); err != nil {
		return AddItemsCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AddItemsCommand) Validate() error {
	return c.guard.Validate(ErrAddItemsCommandIsNotConstructed)
}

// OrderID returns the target order identifier.
func (c AddItemsCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Items returns the raw line-item inputs.
func (c AddItemsCommand) Items() []ItemInput {
	return c.items
}

func (c *AddItemsCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *AddItemsCommand) setItems(items []ItemInput) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for _, item := range items {
		if item.SKU == "" {
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
