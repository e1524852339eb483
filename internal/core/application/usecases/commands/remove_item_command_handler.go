package commands

import (
	"context"

	"orders/internal/core/domain/model/order"
)

// RemoveItemCommandHandler deletes one item from a modifiable order,
// recomputing totals in the same transaction.
type RemoveItemCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewRemoveItemCommandHandler creates a handler for item removal.
func NewRemoveItemCommandHandler(uowFactory OrderUoWFactory) RemoveItemCommandHandler {
	return RemoveItemCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the item-removal command and returns the updated order.
func (h *RemoveItemCommandHandler) Handle(ctx context.Context, cmd RemoveItemCommand) (*order.Order, error) {
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

	if err = aggregate.RemoveItem(cmd.ItemID()); err != nil {
		return nil, err
	}

	if err = saveOrder(ctx, uow, aggregate, false); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return aggregate, nil
}
