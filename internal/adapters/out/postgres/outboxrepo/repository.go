// Package outboxrepo stores domain events in the same database as the
// aggregates that produced them, so a single transaction covers both. A
// background job drains pending rows to the message broker.
package outboxrepo

import (
	"context"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/outbox"
	"orders/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var _ ports.OutboxRepository = &GormOutboxRepository{}

type MessageDTO struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID      uuid.UUID  `gorm:"type:uuid;index;not null"`
	EventType    string     `gorm:"not null"`
	Payload      []byte     `gorm:"type:jsonb;not null"`
	CreatedAt    time.Time  `gorm:"index;not null"`
	DispatchedAt *time.Time `gorm:"index"`
}

// TableName overrides GORM's default naming convention.
func (MessageDTO) TableName() string {
	return "outbox_messages"
}

type GormOutboxRepository struct {
	db *gorm.DB
}

func NewGormOutboxRepository(db *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{db: db}
}

func (r *GormOutboxRepository) Append(ctx context.Context, messages []outbox.Message) error {
	if len(messages) == 0 {
		return nil
	}

	dtos := make([]MessageDTO, 0, len(messages))
	for _, message := range messages {
		dtos = append(dtos, fromDomain(message))
	}
	return r.db.WithContext(ctx).Create(&dtos).Error
}

// FetchPending returns undispatched messages oldest first so consumers see
// events in the order they were recorded.
func (r *GormOutboxRepository) FetchPending(ctx context.Context, limit int) ([]outbox.Message, error) {
	var dtos []MessageDTO
	err := r.db.WithContext(ctx).
		Where("dispatched_at IS NULL").
		Order("created_at asc").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	messages := make([]outbox.Message, 0, len(dtos))
	for _, dto := range dtos {
		message, msgErr := toDomain(dto)
		if msgErr != nil {
			return nil, msgErr
		}
		messages = append(messages, message)
	}
	return messages, nil
}

func (r *GormOutboxRepository) MarkDispatched(ctx context.Context, ids []kernel.UUID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}

	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Bytes())
	}
	return r.db.WithContext(ctx).
		Model(&MessageDTO{}).
		Where("id IN ?", raw).
		Update("dispatched_at", at.UTC()).Error
}

func fromDomain(message outbox.Message) MessageDTO {
	return MessageDTO{
		ID:           message.ID.Bytes(),
		OrderID:      message.OrderID.Bytes(),
		EventType:    message.EventType,
		Payload:      message.Payload,
		CreatedAt:    message.CreatedAt,
		DispatchedAt: message.DispatchedAt,
	}
}

func toDomain(dto MessageDTO) (outbox.Message, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return outbox.Message{}, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return outbox.Message{}, err
	}
	return outbox.RestoreMessage(id, orderID, dto.EventType, dto.Payload, dto.CreatedAt, dto.DispatchedAt), nil
}
