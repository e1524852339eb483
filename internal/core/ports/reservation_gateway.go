package ports

import (
	"context"

	"orders/internal/core/domain/model/kernel"
)

// ReservationItem is one SKU/quantity pair sent to the inventory service.
type ReservationItem struct {
	SKU      string
	Quantity int
}

// AvailabilityResult is the outcome of a bulk stock check.
type AvailabilityResult struct {
	AllAvailable     bool
	UnavailableItems []string
}

// ReservationGateway is the inventory/reservation collaborator. Calls happen
// outside the database transaction boundary; a failed call aborts the
// in-progress mutation before any write. Partial failures within one call
// surface as a single error, never as a partial success.
type ReservationGateway interface {
	// CheckAvailability performs a bulk stock check for the items.
	CheckAvailability(ctx context.Context, items []ReservationItem) (AvailabilityResult, error)

	// Reserve places a hold on stock for the order's items.
	Reserve(ctx context.Context, orderID kernel.UUID, items []ReservationItem) error

	// Release frees a previously placed hold.
	Release(ctx context.Context, orderID kernel.UUID, items []ReservationItem) error

	// ConfirmDeduction converts the hold into an actual stock deduction
	// when the order ships.
	ConfirmDeduction(ctx context.Context, orderID kernel.UUID, items []ReservationItem) error
}
