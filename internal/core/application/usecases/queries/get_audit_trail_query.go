package queries

import (
	"errors"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/errs"
	"orders/internal/pkg/guard"
)

var ErrGetAuditTrailQueryIsNotConstructed = errors.New(
	"GetAuditTrailQuery must be created via NewGetAuditTrailQuery constructor",
)

// GetAuditTrailQuery retrieves the audit history of one order, oldest entry
// first.
type GetAuditTrailQuery struct {
	OrderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetAuditTrailQuery(orderID kernel.UUID) (GetAuditTrailQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetAuditTrailQuery{}, errs.NewValueIsRequiredErrorWithCause("order_id", err)
	}
	return GetAuditTrailQuery{OrderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetAuditTrailQuery) Validate() error {
	return q.guard.Validate(ErrGetAuditTrailQueryIsNotConstructed)
}

type AuditEntryResponse struct {
	ID        kernel.UUID    `json:"id"`
	Action    string         `json:"action"`
	Actor     string         `json:"actor"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

type GetAuditTrailQueryResponse struct {
	OrderID kernel.UUID          `json:"order_id"`
	Entries []AuditEntryResponse `json:"entries"`
}
