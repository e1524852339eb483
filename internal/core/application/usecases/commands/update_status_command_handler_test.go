package commands_test

import (
	"errors"
	"testing"

	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
	"orders/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func expectSave(uow *MockOrderUoW, repo *MockOrderRepository, audit *MockAuditRepository, outboxRepo *MockOutboxRepository) []*mock.Call {
	return []*mock.Call{
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Update", mock.Anything, mock.Anything).Return(nil).Once(),
		uow.On("AuditRepository").Return(audit).Once(),
		audit.On("Append", mock.Anything, mock.Anything).Return(nil).Once(),
		uow.On("OutboxRepository").Return(outboxRepo).Once(),
		outboxRepo.On("Append", mock.Anything, mock.Anything).Return(nil).Once(),
	}
}

func TestUpdateStatusCommandHandler_Handle_ReserveTransition(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	stored := storedOrder(t, id, order.Pending, nil, storedItem(t, "A", 2, 10.0))
	cmd, _ := commands.NewUpdateStatusCommand(id, order.Reserved, order.TransitionDetails{})

	gateway := new(MockReservationGateway)
	uow, repo, audit, outboxRepo, _ := createUoWMocks()

	calls := []*mock.Call{
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, id).Return(stored, nil).Once(),
		gateway.On("CheckAvailability", mock.Anything, mock.Anything).
			Return(ports.AvailabilityResult{AllAvailable: true}, nil).Once(),
		gateway.On("Reserve", mock.Anything, id, mock.Anything).Return(nil).Once(),
	}
	calls = append(calls, expectSave(uow, repo, audit, outboxRepo)...)
	calls = append(calls,
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	mock.InOrder(calls...)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewUpdateStatusCommandHandler(factory, gateway)
	updated, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Reserved, updated.Status())
	assert.NotNil(t, updated.ReservationID())
	assert.Equal(t, int64(2), updated.Version())
	gateway.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestUpdateStatusCommandHandler_Handle_ShipConfirmsDeduction(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	reservationID := kernel.NewUUID()
	stored := storedOrder(t, id, order.Fulfilling, &reservationID, storedItem(t, "A", 1, 10.0))
	cmd, _ := commands.NewUpdateStatusCommand(id, order.Shipped, order.TransitionDetails{TrackingNumber: "TRK-1"})

	gateway := new(MockReservationGateway)
	uow, repo, audit, outboxRepo, _ := createUoWMocks()

	calls := []*mock.Call{
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, id).Return(stored, nil).Once(),
		gateway.On("ConfirmDeduction", mock.Anything, id, mock.Anything).Return(nil).Once(),
	}
	calls = append(calls, expectSave(uow, repo, audit, outboxRepo)...)
	calls = append(calls,
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	mock.InOrder(calls...)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewUpdateStatusCommandHandler(factory, gateway)
	updated, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Shipped, updated.Status())
	gateway.AssertExpectations(t)
}

func TestUpdateStatusCommandHandler_Handle_CancelReleasesAfterCommit(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	reservationID := kernel.NewUUID()
	stored := storedOrder(t, id, order.Reserved, &reservationID, storedItem(t, "A", 1, 10.0))
	cmd, _ := commands.NewUpdateStatusCommand(id, order.Cancelled, order.TransitionDetails{Reason: "no stock"})

	gateway := new(MockReservationGateway)
	uow, repo, audit, outboxRepo, _ := createUoWMocks()

	calls := []*mock.Call{
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, id).Return(stored, nil).Once(),
	}
	calls = append(calls, expectSave(uow, repo, audit, outboxRepo)...)
	calls = append(calls,
		uow.On("Commit", ctx).Return(nil).Once(),
		gateway.On("Release", mock.Anything, id, mock.Anything).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	mock.InOrder(calls...)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewUpdateStatusCommandHandler(factory, gateway)
	updated, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Cancelled, updated.Status())
	assert.Nil(t, updated.ReservationID())
	gateway.AssertExpectations(t)
}

func TestUpdateStatusCommandHandler_Handle_InvalidTransition(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	stored := storedOrder(t, id, order.Pending, nil)
	cmd, _ := commands.NewUpdateStatusCommand(id, order.Shipped, order.TransitionDetails{TrackingNumber: "TRK-1"})

	gateway := new(MockReservationGateway)
	uow, repo, _, _, _ := createUoWMocks()
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, id).Return(stored, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewUpdateStatusCommandHandler(factory, gateway)
	_, err := h.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrInvalidTransition)
	assert.Equal(t, order.Pending, stored.Status())
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	gateway.AssertNotCalled(t, "ConfirmDeduction", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateStatusCommandHandler_Handle_GatewayFailureAborts(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	stored := storedOrder(t, id, order.Pending, nil, storedItem(t, "A", 1, 10.0))
	cmd, _ := commands.NewUpdateStatusCommand(id, order.Reserved, order.TransitionDetails{})

	gateway := new(MockReservationGateway)
	uow, repo, _, _, _ := createUoWMocks()
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, id).Return(stored, nil).Once(),
		gateway.On("CheckAvailability", mock.Anything, mock.Anything).
			Return(ports.AvailabilityResult{}, errs.NewUpstreamUnavailableError("inventory", errors.New("connection refused"))).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewUpdateStatusCommandHandler(factory, gateway)
	_, err := h.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrUpstreamUnavailable)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}
