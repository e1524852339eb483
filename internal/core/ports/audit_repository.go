package ports

import (
	"context"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
)

// AuditRepository is the append-only store of audit entries. Entries are
// written in the same transaction as the mutation they record.
type AuditRepository interface {
	// Append persists the entries. Entries are immutable once written.
	Append(ctx context.Context, entries []order.AuditEntry) error

	// ListByOrder returns every entry for the order, timestamp ascending.
	ListByOrder(ctx context.Context, orderID kernel.UUID) ([]order.AuditEntry, error)
}
