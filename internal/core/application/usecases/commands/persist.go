package commands

import (
	"context"

	"orders/internal/core/domain/model/order"
	"orders/internal/core/domain/model/outbox"
)

// saveOrder persists the aggregate together with the audit entries buffered
// by its mutations and one outbox message per entry. Everything is written
// through repositories bound to the same transaction; the audit buffer is
// flushed only after all writes succeed.
func saveOrder(ctx context.Context, uow OrderUoW, aggregate *order.Order, isNew bool) error {
	if isNew {
		if err := uow.OrderRepository().Add(ctx, aggregate); err != nil {
			return err
		}
	} else {
		if err := uow.OrderRepository().Update(ctx, aggregate); err != nil {
			return err
		}
	}

	entries := aggregate.PendingAuditEntries()
	if len(entries) == 0 {
		return nil
	}

	if err := uow.AuditRepository().Append(ctx, entries); err != nil {
		return err
	}

	messages := make([]outbox.Message, 0, len(entries))
	for _, entry := range entries {
		message, err := outbox.NewMessage(aggregate.ID(), string(entry.Action), entry.Details)
		if err != nil {
			return err
		}
		messages = append(messages, message)
	}
	if err := uow.OutboxRepository().Append(ctx, messages); err != nil {
		return err
	}

	aggregate.FlushAuditEntries()
	return nil
}
