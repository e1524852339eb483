package order

import (
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/errs"
)

// Action identifies what happened to an order in an audit entry.
type Action string

const (
	ActionCreated       Action = "order.created"
	ActionReserved      Action = "order.reserved"
	ActionPatched       Action = "order.patched"
	ActionDeleted       Action = "order.deleted"
	ActionItemsAdded    Action = "order.items_added"
	ActionItemUpdated   Action = "order.item_updated"
	ActionItemRemoved   Action = "order.item_removed"
	ActionStatusChanged Action = "order.status_changed"
	ActionCancelled     Action = "order.cancelled"
)

// ActorSystem is recorded when a change was made by the service itself
// rather than an identified user.
const ActorSystem = "system"

// AuditEntry is an append-only record of a change applied to an order. The
// Details map carries action-specific context, such as the from/to statuses
// of a transition or the fields touched by a patch.
type AuditEntry struct {
	ID        kernel.UUID
	OrderID   kernel.UUID
	Action    Action
	Actor     string
	Details   map[string]any
	CreatedAt time.Time
}

// NewAuditEntry creates an entry for a change happening now. An empty actor
// defaults to the system actor.
func NewAuditEntry(orderID kernel.UUID, action Action, actor string, details map[string]any) (AuditEntry, error) {
	if err := orderID.Validate(); err != nil {
		return AuditEntry{}, err
	}
	if action == "" {
		return AuditEntry{}, errs.NewValueIsRequiredError("action")
	}
	if actor == "" {
		actor = ActorSystem
	}

	return AuditEntry{
		ID:        kernel.NewUUID(),
		OrderID:   orderID,
		Action:    action,
		Actor:     actor,
		Details:   details,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// RestoreAuditEntry rehydrates an entry from persistence without validation.
func RestoreAuditEntry(id, orderID kernel.UUID, action Action, actor string, details map[string]any, createdAt time.Time) AuditEntry {
	return AuditEntry{
		ID:        id,
		OrderID:   orderID,
		Action:    action,
		Actor:     actor,
		Details:   details,
		CreatedAt: createdAt,
	}
}
