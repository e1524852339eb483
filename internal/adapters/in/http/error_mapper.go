package http

import (
	"errors"
	"net/http"

	"orders/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// respondError translates domain errors into HTTP status codes. Conflicting
// writes and illegal lifecycle moves map to 409, missing preconditions and
// frozen orders to 422, upstream outages to 503.
func respondError(ctx echo.Context, err error) error {
	return ctx.JSON(statusCodeFor(err), ErrorResponse{
		Code:    statusCodeFor(err),
		Message: err.Error(),
	})
}

func statusCodeFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrVersionConflict),
		errors.Is(err, errs.ErrInvalidTransition),
		errors.Is(err, errs.ErrAlreadyTerminal),
		errors.Is(err, errs.ErrIdempotencyConflict):
		return http.StatusConflict
	case errors.Is(err, errs.ErrPreconditionFailed),
		errors.Is(err, errs.ErrNotModifiable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrUpstreamUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
