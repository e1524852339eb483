package errs_test

import (
	"errors"
	"testing"

	"orders/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("NewObjectNotFoundError", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("orderID", "123")

		assert.Equal(t, "orderID", err.ParamName)
		assert.Equal(t, "123", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: 123", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("NewObjectNotFoundErrorWithCause", func(t *testing.T) {
		cause := errors.New("database connection failed")
		err := errs.NewObjectNotFoundErrorWithCause("orderID", "123", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: orderID, ID is: 123 (cause: database connection failed)",
			err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})
}

func TestValueIsInvalidError(t *testing.T) {
	t.Run("NewValueIsInvalidError", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("quantity")

		assert.Equal(t, "quantity", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is invalid: quantity", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})

	t.Run("NewValueIsInvalidErrorWithCause", func(t *testing.T) {
		cause := errors.New("must be greater than 0")
		err := errs.NewValueIsInvalidErrorWithCause("quantity", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "value is invalid: quantity (cause: must be greater than 0)", err.Error())
	})

	t.Run("sanitize removes newlines", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("hello\nworld")
		assert.Contains(t, err.Error(), "hello world")
		assert.NotContains(t, err.Error(), "\n")
	})
}

func TestValueIsRequiredError(t *testing.T) {
	err := errs.NewValueIsRequiredError("sku")

	assert.Equal(t, "sku", err.ParamName)
	assert.Equal(t, "value is required: sku", err.Error())
	assert.Equal(t, errs.ErrValueIsRequired, err.Unwrap())
}

func TestVersionConflictError(t *testing.T) {
	err := errs.NewVersionConflictError(1, 2)

	assert.Equal(t, int64(1), err.Expected)
	assert.Equal(t, int64(2), err.Actual)
	assert.Equal(t, "version conflict: expected version 1, actual version 2", err.Error())
	assert.Equal(t, errs.ErrVersionConflict, err.Unwrap())
}

func TestInvalidTransitionError(t *testing.T) {
	err := errs.NewInvalidTransitionError("SHIPPED", "PENDING", []string{"COMPLETED"})

	assert.Equal(t, "SHIPPED", err.From)
	assert.Equal(t, "PENDING", err.To)
	assert.Equal(t, []string{"COMPLETED"}, err.Allowed)
	assert.Equal(t,
		"invalid status transition: cannot transition SHIPPED -> PENDING (allowed: COMPLETED)",
		err.Error())
	assert.Equal(t, errs.ErrInvalidTransition, err.Unwrap())
}

func TestPreconditionFailedError(t *testing.T) {
	err := errs.NewPreconditionFailedError("warehouse_id", "FULFILLING")

	assert.Equal(t, "warehouse_id", err.ParamName)
	assert.Equal(t, "FULFILLING", err.Target)
	assert.Equal(t, "precondition failed: warehouse_id is required to enter FULFILLING", err.Error())
	assert.Equal(t, errs.ErrPreconditionFailed, err.Unwrap())
}

func TestAlreadyTerminalError(t *testing.T) {
	err := errs.NewAlreadyTerminalError("COMPLETED")

	assert.Equal(t, "COMPLETED", err.Status)
	assert.Equal(t, "order is in a terminal status: COMPLETED", err.Error())
	assert.Equal(t, errs.ErrAlreadyTerminal, err.Unwrap())
}

func TestNotModifiableError(t *testing.T) {
	err := errs.NewNotModifiableError("RESERVED")

	assert.Equal(t, "RESERVED", err.Status)
	assert.Equal(t, "order items are not modifiable: current status is RESERVED", err.Error())
	assert.Equal(t, errs.ErrNotModifiable, err.Unwrap())
}

func TestIdempotencyConflictError(t *testing.T) {
	cause := errors.New("duplicate key value violates unique constraint")
	err := errs.NewIdempotencyConflictError("K1", cause)

	assert.Equal(t, "K1", err.Key)
	assert.Equal(t, cause, err.Cause)
	assert.Equal(t, errs.ErrIdempotencyConflict, err.Unwrap())
}

func TestUpstreamUnavailableError(t *testing.T) {
	cause := errors.New("connection refused")
	err := errs.NewUpstreamUnavailableError("inventory", cause)

	assert.Equal(t, "inventory", err.Upstream)
	assert.Equal(t,
		"upstream service unavailable: inventory (cause: connection refused)",
		err.Error())
	assert.Equal(t, errs.ErrUpstreamUnavailable, err.Unwrap())
}

func TestErrorsCanBeUnwrapped(t *testing.T) {
	require.ErrorIs(t, errs.NewObjectNotFoundError("orderID", "123"), errs.ErrObjectNotFound)
	require.ErrorIs(t, errs.NewValueIsInvalidError("quantity"), errs.ErrValueIsInvalid)
	require.ErrorIs(t, errs.NewValueIsRequiredError("sku"), errs.ErrValueIsRequired)
	require.ErrorIs(t, errs.NewVersionConflictError(1, 2), errs.ErrVersionConflict)
	require.ErrorIs(t, errs.NewInvalidTransitionError("DRAFT", "SHIPPED", nil), errs.ErrInvalidTransition)
	require.ErrorIs(t, errs.NewPreconditionFailedError("tracking_number", "SHIPPED"), errs.ErrPreconditionFailed)
	require.ErrorIs(t, errs.NewAlreadyTerminalError("CANCELLED"), errs.ErrAlreadyTerminal)
	require.ErrorIs(t, errs.NewNotModifiableError("SHIPPED"), errs.ErrNotModifiable)
	require.ErrorIs(t, errs.NewIdempotencyConflictError("K1", nil), errs.ErrIdempotencyConflict)
	require.ErrorIs(t, errs.NewUpstreamUnavailableError("catalog", nil), errs.ErrUpstreamUnavailable)
}
