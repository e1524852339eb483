package ports

import (
	"context"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/outbox"
)

// OutboxRepository stores follow-up event messages. Messages are appended in
// the same transaction as the mutation producing them and drained by the
// dispatch job.
type OutboxRepository interface {
	// Append persists pending messages.
	Append(ctx context.Context, messages []outbox.Message) error

	// FetchPending returns up to limit undispatched messages, oldest first.
	FetchPending(ctx context.Context, limit int) ([]outbox.Message, error)

	// MarkDispatched stamps the messages as published.
	MarkDispatched(ctx context.Context, ids []kernel.UUID, at time.Time) error
}
