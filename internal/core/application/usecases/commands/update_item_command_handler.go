package commands

import (
	"context"

	"orders/internal/core/domain/model/order"
)

// UpdateItemCommandHandler patches one item of a modifiable order,
// recomputing totals in the same transaction.
type UpdateItemCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewUpdateItemCommandHandler creates a handler for item updates.
func NewUpdateItemCommandHandler(uowFactory OrderUoWFactory) UpdateItemCommandHandler {
	return UpdateItemCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the item-update command and returns the updated order.
func (h *UpdateItemCommandHandler) Handle(ctx context.Context, cmd UpdateItemCommand) (*order.Order, error) {
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

	if err = aggregate.UpdateItem(cmd.ItemID(), cmd.Patch()); err != nil {
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
