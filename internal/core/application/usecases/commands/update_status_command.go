package commands

import (
	"errors"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/guard"
)

var ErrUpdateStatusCommandIsNotConstructed = errors.New(
	"UpdateStatusCommand must be created via NewUpdateStatusCommand constructor",
)

// UpdateStatusCommand represents a request to move an order to a target
// status, carrying the transition metadata the entry guards may require.
type UpdateStatusCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	target  order.Status
	details order.TransitionDetails

	guard guard.ConstructorGuard
}

// NewUpdateStatusCommand creates a validated status-update command. The
// target must be a member of the defined state set; whether the transition
// is legal from the order's current status is decided by the aggregate.
func NewUpdateStatusCommand(orderID kernel.UUID, target order.Status, details order.TransitionDetails) (UpdateStatusCommand, error) {
	cmd := UpdateStatusCommand{
		details: details,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setTarget(target),
	); err != nil {
		return UpdateStatusCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateStatusCommandIsNotConstructed)
}

// OrderID returns the target order identifier.
func (c UpdateStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Target returns the requested status.
func (c UpdateStatusCommand) Target() order.Status {
	return c.target
}

// Details returns the transition metadata.
func (c UpdateStatusCommand) Details() order.TransitionDetails {
	return c.details
}

func (c *UpdateStatusCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *UpdateStatusCommand) setTarget(target order.Status) error {
	if err := target.Validate(); err != nil {
		return err
	}

	c.target = target
	return nil
}
