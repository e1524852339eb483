package ports

import (
	"context"
)

// UnitOfWorkFactory creates a new UnitOfWork per request/command, keeping
// concurrent operations isolated from each other.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is the business transaction boundary. The repositories it
// exposes are bound to the transaction started by Begin, so an order change,
// its audit entries, its idempotency binding and its outbox messages commit
// or roll back together.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction. Safe to defer after a
	// successful commit.
	Rollback(ctx context.Context) error

	// OrderRepository returns an OrderRepository bound to the transaction.
	OrderRepository() OrderRepository

	// AuditRepository returns an AuditRepository bound to the transaction.
	AuditRepository() AuditRepository

	// IdempotencyRepository returns an IdempotencyRepository bound to the
	// transaction.
	IdempotencyRepository() IdempotencyRepository

	// OutboxRepository returns an OutboxRepository bound to the transaction.
	OutboxRepository() OutboxRepository
}
