package commands

import (
	"context"

	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
)

// CancelOrderCommandHandler cancels orders from any non-terminal status,
// releasing any held reservation after the cancellation commits.
type CancelOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	gateway    ports.ReservationGateway
}

// NewCancelOrderCommandHandler creates a handler for order cancellation.
func NewCancelOrderCommandHandler(uowFactory OrderUoWFactory, gateway ports.ReservationGateway) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
	}
}

// Handle processes the cancellation command and returns the updated order.
func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (*order.Order, error) {
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

	if err = aggregate.Cancel(cmd.Reason()); err != nil {
		return nil, err
	}

	if err = saveOrder(ctx, uow, aggregate, false); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	// Best-effort release after commit; the outbox event lets inventory
	// reconcile a failed call.
	if hadReservation && len(aggregate.Items()) > 0 {
		_ = h.gateway.Release(ctx, aggregate.ID(), reservationItems(aggregate))
	}

	return aggregate, nil
}
