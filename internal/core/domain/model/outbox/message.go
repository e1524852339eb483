// Package outbox contains the transactional outbox messages recording the
// follow-up events an order mutation produced. Messages are appended in the
// same transaction as the mutation and dispatched asynchronously, so no
// event is lost if the process dies between commit and publish.
package outbox

import (
	"encoding/json"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/errs"
)

// Envelope is the wire shape published to the message broker.
type Envelope struct {
	EventID    string         `json:"event_id"`
	EventType  string         `json:"event_type"`
	OrderID    string         `json:"order_id"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload,omitempty"`
}

// Message is one pending or dispatched outbox row. Payload holds the
// serialized Envelope.
type Message struct {
	ID           kernel.UUID
	OrderID      kernel.UUID
	EventType    string
	Payload      json.RawMessage
	CreatedAt    time.Time
	DispatchedAt *time.Time
}

// NewMessage creates a pending message wrapping the payload in an Envelope.
func NewMessage(orderID kernel.UUID, eventType string, payload map[string]any) (Message, error) {
	if err := orderID.Validate(); err != nil {
		return Message{}, err
	}
	if eventType == "" {
		return Message{}, errs.NewValueIsRequiredError("event_type")
	}

	id := kernel.NewUUID()
	now := time.Now().UTC()

	raw, err := json.Marshal(Envelope{
		EventID:    id.String(),
		EventType:  eventType,
		OrderID:    orderID.String(),
		OccurredAt: now,
		Payload:    payload,
	})
	if err != nil {
		return Message{}, errs.NewValueIsInvalidErrorWithCause("payload", err)
	}

	return Message{
		ID:        id,
		OrderID:   orderID,
		EventType: eventType,
		Payload:   raw,
		CreatedAt: now,
	}, nil
}

// RestoreMessage rehydrates a message from persistence.
func RestoreMessage(id, orderID kernel.UUID, eventType string, payload json.RawMessage, createdAt time.Time, dispatchedAt *time.Time) Message {
	return Message{
		ID:           id,
		OrderID:      orderID,
		EventType:    eventType,
		Payload:      payload,
		CreatedAt:    createdAt,
		DispatchedAt: dispatchedAt,
	}
}

// IsDispatched reports whether the message has been published.
func (m Message) IsDispatched() bool {
	return m.DispatchedAt != nil
}

// MarkDispatched records the publish time.
func (m *Message) MarkDispatched(at time.Time) {
	dispatchedAt := at.UTC()
	m.DispatchedAt = &dispatchedAt
}
