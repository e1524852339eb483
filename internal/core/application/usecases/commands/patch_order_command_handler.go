package commands

import (
	"context"

	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"
)

// PatchOrderCommandHandler applies sparse field updates with optimistic
// concurrency. A stale expected version fails with VersionConflict before
// any write.
type PatchOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewPatchOrderCommandHandler creates a handler for order patching.
func NewPatchOrderCommandHandler(uowFactory OrderUoWFactory) PatchOrderCommandHandler {
	return PatchOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the patch command and returns the updated order.
func (h *PatchOrderCommandHandler) Handle(ctx context.Context, cmd PatchOrderCommand) (*order.Order, error) {
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

	if expected := cmd.ExpectedVersion(); expected != nil && *expected != aggregate.Version() {
		return nil, errs.NewVersionConflictError(*expected, aggregate.Version())
	}

	if _, err = aggregate.ApplyPatch(cmd.Patch()); err != nil {
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
