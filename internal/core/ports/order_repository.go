package ports

import (
	"context"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate with its items.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order with a version check:
	// the row is written only if the stored version equals the aggregate's
	// version minus one. A mismatch fails with VersionConflict.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves a non-deleted order with its items by id.
	// Returns ObjectNotFound for absent or soft-deleted orders.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
}
