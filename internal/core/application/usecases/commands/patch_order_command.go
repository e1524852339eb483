package commands

import (
	"errors"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/guard"
)

var ErrPatchOrderCommandIsNotConstructed = errors.New(
	"PatchOrderCommand must be created via NewPatchOrderCommand constructor",
)

// PatchOrderCommand represents a sparse update to an order's mutable fields
// guarded by an optional expected-version token. The token is the system's
// compare-and-swap discipline: the caller obtains it from a prior read and a
// mismatch fails without writing.
type PatchOrderCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	patch           order.Patch
	expectedVersion *int64

	guard guard.ConstructorGuard
}

// NewPatchOrderCommand creates a validated patch command. A nil expected
// version skips the version check.
func NewPatchOrderCommand(orderID kernel.UUID, patch order.Patch, expectedVersion *int64) (PatchOrderCommand, error) {
	cmd := PatchOrderCommand{
		patch:           patch,
		expectedVersion: expectedVersion,
		guard:           guard.NewConstructorGuard(),
	}

	if err := cmd.setOrderID(orderID); err != nil {
		return PatchOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c PatchOrderCommand) Validate() error {
	return c.guard.Validate(ErrPatchOrderCommandIsNotConstructed)
}

// OrderID returns the target order identifier.
func (c PatchOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Patch returns the sparse field set.
func (c PatchOrderCommand) Patch() order.Patch {
	return c.patch
}

// ExpectedVersion returns the optional version token.
func (c PatchOrderCommand) ExpectedVersion() *int64 {
	return c.expectedVersion
}

func (c *PatchOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
