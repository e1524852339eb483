package ports

import (
	"context"

	"orders/internal/core/domain/model/kernel"
)

// IdempotencyRepository maps client-supplied idempotency keys to the orders
// they produced. A key binds to at most one order ever; the unique index on
// the key is the concurrency primitive for duplicate creation requests.
type IdempotencyRepository interface {
	// FindOrderID returns the order bound to the key, or nil when the key
	// is unknown.
	FindOrderID(ctx context.Context, key string) (*kernel.UUID, error)

	// Bind records the key -> order binding. A concurrent insert of the
	// same key fails with IdempotencyConflict.
	Bind(ctx context.Context, key string, orderID kernel.UUID) error
}
