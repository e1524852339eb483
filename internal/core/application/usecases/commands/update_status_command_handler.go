package commands

import (
	"context"
	"fmt"
	"strings"

	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
	"orders/internal/pkg/errs"
)

// UpdateStatusCommandHandler moves orders through the lifecycle, invoking
// the reservation gateway around the transaction boundary:
//
//   - entering RESERVED checks availability and reserves stock before any
//     write, so a gateway failure aborts with nothing committed
//   - entering SHIPPED confirms the stock deduction before commit
//   - entering CANCELLED releases the hold after commit, best-effort; the
//     outbox event lets inventory reconcile a failed release
type UpdateStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	gateway    ports.ReservationGateway
}

// NewUpdateStatusCommandHandler creates a handler for status updates.
func NewUpdateStatusCommandHandler(uowFactory OrderUoWFactory, gateway ports.ReservationGateway) UpdateStatusCommandHandler {
	return UpdateStatusCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
	}
}

// Handle processes the status-update command and returns the updated order.
func (h *UpdateStatusCommandHandler) Handle(ctx context.Context, cmd UpdateStatusCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	hadReservation := aggregate.ReservationID() != nil

	if err = aggregate.ChangeStatus(cmd.Target(), cmd.Details()); err != nil {
		return nil, err
	}

	// Gateway calls gate the commit: a failure here rolls the transaction
	// back before any state change becomes visible.
	switch cmd.Target() {
	case order.Reserved:
		if len(aggregate.Items()) > 0 {
			if err = h.reserveStock(ctx, aggregate); err != nil {
				return nil, err
			}
		}
	case order.Shipped:
		if len(aggregate.Items()) > 0 {
			if err = h.gateway.ConfirmDeduction(ctx, aggregate.ID(), reservationItems(aggregate)); err != nil {
				return nil, err
			}
		}
	}

	if err = saveOrder(ctx, uow, aggregate, false); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	if cmd.Target() == order.Cancelled && hadReservation && len(aggregate.Items()) > 0 {
		_ = h.gateway.Release(ctx, aggregate.ID(), reservationItems(aggregate))
	}

	return aggregate, nil
}

func (h *UpdateStatusCommandHandler) reserveStock(ctx context.Context, aggregate *order.Order) error {
	items := reservationItems(aggregate)

	availability, err := h.gateway.CheckAvailability(ctx, items)
	if err != nil {
		return err
	}
	if !availability.AllAvailable {
		return errs.NewValueIsInvalidErrorWithCause("items",
			fmt.Errorf("insufficient stock for %s", strings.Join(availability.UnavailableItems, ", ")))
	}

	return h.gateway.Reserve(ctx, aggregate.ID(), items)
}
