package commands_test

import (
	"testing"

	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPatchOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	stored := storedOrder(t, id, order.Pending, nil)
	notes := "ring twice"
	cmd, _ := commands.NewPatchOrderCommand(id, order.Patch{Notes: &notes}, nil)

	uow, repo, audit, outboxRepo, _ := createUoWMocks()
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, id).Return(stored, nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Update", mock.Anything, stored).Return(nil).Once(),
		uow.On("AuditRepository").Return(audit).Once(),
		audit.On("Append", mock.Anything, mock.Anything).Return(nil).Once(),
		uow.On("OutboxRepository").Return(outboxRepo).Once(),
		outboxRepo.On("Append", mock.Anything, mock.Anything).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewPatchOrderCommandHandler(factory)
	updated, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, "ring twice", updated.Notes())
	assert.Equal(t, int64(2), updated.Version())
	uow.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestPatchOrderCommandHandler_Handle_MatchingExpectedVersion(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	stored := storedOrder(t, id, order.Pending, nil)
	notes := "updated"
	expected := int64(1)
	cmd, _ := commands.NewPatchOrderCommand(id, order.Patch{Notes: &notes}, &expected)

	uow, repo, audit, outboxRepo, _ := createUoWMocks()
	uow.On("Begin", ctx).Return(nil)
	uow.On("OrderRepository").Return(repo)
	uow.On("AuditRepository").Return(audit)
	uow.On("OutboxRepository").Return(outboxRepo)
	repo.On("Get", mock.Anything, id).Return(stored, nil)
	repo.On("Update", mock.Anything, stored).Return(nil)
	audit.On("Append", mock.Anything, mock.Anything).Return(nil)
	outboxRepo.On("Append", mock.Anything, mock.Anything).Return(nil)
	uow.On("Commit", ctx).Return(nil)
	uow.On("Rollback", ctx).Return(nil)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewPatchOrderCommandHandler(factory)
	updated, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Version())
}

func TestPatchOrderCommandHandler_Handle_VersionConflict(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	stored := storedOrder(t, id, order.Pending, nil) // version 1
	notes := "updated"
	stale := int64(7)
	cmd, _ := commands.NewPatchOrderCommand(id, order.Patch{Notes: &notes}, &stale)

	uow, repo, _, _, _ := createUoWMocks()
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, id).Return(stored, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewPatchOrderCommandHandler(factory)
	_, err := h.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrVersionConflict)

	var conflict *errs.VersionConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, int64(7), conflict.Expected)
	assert.Equal(t, int64(1), conflict.Actual)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestPatchOrderCommandHandler_Handle_NotFound(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	notes := "updated"
	cmd, _ := commands.NewPatchOrderCommand(id, order.Patch{Notes: &notes}, nil)

	uow, repo, _, _, _ := createUoWMocks()
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, id).Return(nil, errs.NewObjectNotFoundError("order_id", id)).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewPatchOrderCommandHandler(factory)
	_, err := h.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}
