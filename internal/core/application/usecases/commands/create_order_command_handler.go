package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
	"orders/internal/pkg/errs"
)

// CreateOrderResult is the outcome of handling a creation command. Existed
// is true when the idempotency key was already bound to an order, in which
// case Order is that earlier order and nothing new was written.
type CreateOrderResult struct {
	Order   *order.Order
	Existed bool
}

// CreateOrderCommandHandler handles idempotent order creation.
//
// Stock is reserved before the transaction commits: a reservation failure
// aborts before any write, so a committed order never claims a reservation
// it does not hold. If the transaction then loses an idempotency-key race,
// the reservation is released and the winner's order is returned.
type CreateOrderCommandHandler struct {
	uowFactory CreateOrderUoWFactory
	gateway    ports.ReservationGateway
	catalog    ports.ProductCatalog
	policy     order.TotalsPolicy
}

// NewCreateOrderCommandHandler creates a handler for order creation.
func NewCreateOrderCommandHandler(
	uowFactory CreateOrderUoWFactory,
	gateway ports.ReservationGateway,
	catalog ports.ProductCatalog,
	policy order.TotalsPolicy,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
		catalog:    catalog,
		policy:     policy,
	}
}

// Handle processes the creation command per the idempotency protocol:
//  1. A key already bound to an order short-circuits to that order.
//  2. Items carrying a product id are enriched from the catalog.
//  3. With reserve-on-place, availability is checked and stock reserved
//     before any write.
//  4. Order, items, audit entries, outbox messages and the key binding are
//     inserted in one transaction.
//  5. A duplicate-key conflict at insert means a concurrent request won the
//     race: the reservation is released and the winner's order returned.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (CreateOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return CreateOrderResult{}, err
	}

	if cmd.IdempotencyKey() != "" {
		existing, err := h.findExisting(ctx, cmd.IdempotencyKey())
		if err != nil {
			return CreateOrderResult{}, err
		}
		if existing != nil {
			return CreateOrderResult{Order: existing, Existed: true}, nil
		}
	}

	inputs, err := enrichItems(ctx, h.catalog, cmd.Items())
	if err != nil {
		return CreateOrderResult{}, err
	}
	items, err := buildItems(inputs)
	if err != nil {
		return CreateOrderResult{}, err
	}

	aggregate, err := order.NewOrder(cmd.OrderID(), cmd.Attributes(), items, cmd.ReserveOnPlace(), h.policy)
	if err != nil {
		return CreateOrderResult{}, err
	}

	reserved := false
	if cmd.ReserveOnPlace() && len(aggregate.Items()) > 0 {
		if err = h.reserveStock(ctx, aggregate); err != nil {
			return CreateOrderResult{}, err
		}
		reserved = true
	}

	result, err := h.insert(ctx, cmd, aggregate)
	if err == nil {
		return result, nil
	}

	if errors.Is(err, errs.ErrIdempotencyConflict) && cmd.IdempotencyKey() != "" {
		if reserved {
			_ = h.gateway.Release(ctx, aggregate.ID(), reservationItems(aggregate))
		}
		return h.readWinner(ctx, cmd.IdempotencyKey())
	}

	if reserved {
		_ = h.gateway.Release(ctx, aggregate.ID(), reservationItems(aggregate))
	}
	return CreateOrderResult{}, err
}

func (h *CreateOrderCommandHandler) insert(ctx context.Context, cmd CreateOrderCommand, aggregate *order.Order) (CreateOrderResult, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return CreateOrderResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := saveOrder(ctx, uow, aggregate, true); err != nil {
		return CreateOrderResult{}, err
	}

	if cmd.IdempotencyKey() != "" {
		if err := uow.IdempotencyRepository().Bind(ctx, cmd.IdempotencyKey(), aggregate.ID()); err != nil {
			return CreateOrderResult{}, err
		}
	}

	if err := uow.Commit(ctx); err != nil {
		return CreateOrderResult{}, err
	}

	return CreateOrderResult{Order: aggregate}, nil
}

func (h *CreateOrderCommandHandler) reserveStock(ctx context.Context, aggregate *order.Order) error {
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

func (h *CreateOrderCommandHandler) findExisting(ctx context.Context, key string) (*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderID, err := uow.IdempotencyRepository().FindOrderID(ctx, key)
	if err != nil {
		return nil, err
	}
	if orderID == nil {
		return nil, nil
	}

	return uow.OrderRepository().Get(ctx, *orderID)
}

func (h *CreateOrderCommandHandler) readWinner(ctx context.Context, key string) (CreateOrderResult, error) {
	winner, err := h.findExisting(ctx, key)
	if err != nil {
		return CreateOrderResult{}, err
	}
	if winner == nil {
		return CreateOrderResult{}, errs.NewIdempotencyConflictError(key, errors.New("winning order not found after conflict"))
	}
	return CreateOrderResult{Order: winner, Existed: true}, nil
}
