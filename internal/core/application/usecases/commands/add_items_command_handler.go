package commands

import (
	"context"

	"orders/internal/core/domain/model/order"
)

// AddItemsCommandHandler appends items to a modifiable order, recomputing
// totals in the same transaction.
type AddItemsCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewAddItemsCommandHandler creates a handler for item addition.
func NewAddItemsCommandHandler(uowFactory OrderUoWFactory) AddItemsCommandHandler {
	return AddItemsCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the add-items command and returns the updated order.
func (h *AddItemsCommandHandler) Handle(ctx context.Context, cmd AddItemsCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	items, err := buildItems(cmd.Items())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if err = aggregate.AddItems(items); err != nil {
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
