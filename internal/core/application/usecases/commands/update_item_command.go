package commands

import (
	"errors"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/guard"
)

var ErrUpdateItemCommandIsNotConstructed = errors.New(
	"UpdateItemCommand must be created via NewUpdateItemCommand constructor",
)

// UpdateItemCommand represents a sparse update to one line item of an order
// still in a pre-reservation status.
type UpdateItemCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	itemID  kernel.UUID
	patch   order.ItemPatch

	guard guard.ConstructorGuard
}

// NewUpdateItemCommand creates a validated item-update command. Field-level
// validation of the patch happens in the domain when it is applied.
func NewUpdateItemCommand(orderID, itemID kernel.UUID, patch order.ItemPatch) (UpdateItemCommand, error) {
	cmd := UpdateItemCommand{
		patch: patch,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setItemID(itemID),
	); err != nil {
		return UpdateItemCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateItemCommand) Validate() error {
	return c.guard.Validate(ErrUpdateItemCommandIsNotConstructed)
}

// OrderID returns the target order identifier.
func (c UpdateItemCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ItemID returns the target item identifier.
func (c UpdateItemCommand) ItemID() kernel.UUID {
	return c.itemID
}

// Patch returns the sparse item update.
func (c UpdateItemCommand) Patch() order.ItemPatch {
	return c.patch
}

func (c *UpdateItemCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *UpdateItemCommand) setItemID(itemID kernel.UUID) error {
	if err := itemID.Validate(); err != nil {
		return err
	}

	c.itemID = itemID
	return nil
}
