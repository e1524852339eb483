// Package auditrepo persists the append-only audit trail of order changes.
package auditrepo

import (
	"context"
	"encoding/json"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var _ ports.AuditRepository = &GormAuditRepository{}

// AuditEntryDTO represents one row of the audit trail. Rows are never
// updated or deleted.
type AuditEntryDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;index;not null"`
	Action    string    `gorm:"not null"`
	Actor     string    `gorm:"not null"`
	Details   []byte    `gorm:"type:jsonb"`
	CreatedAt time.Time `gorm:"index;not null"`
}

// TableName overrides GORM's default naming convention.
func (AuditEntryDTO) TableName() string {
	return "order_audit_entries"
}

type GormAuditRepository struct {
	db *gorm.DB
}

func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

func (r *GormAuditRepository) Append(ctx context.Context, entries []order.AuditEntry) error {
	if len(entries) == 0 {
		return nil
	}

	dtos := make([]AuditEntryDTO, 0, len(entries))
	for _, entry := range entries {
		dto, err := fromDomain(entry)
		if err != nil {
			return err
		}
		dtos = append(dtos, dto)
	}
	return r.db.WithContext(ctx).Create(&dtos).Error
}

func (r *GormAuditRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]order.AuditEntry, error) {
	var dtos []AuditEntryDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("created_at asc").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	entries := make([]order.AuditEntry, 0, len(dtos))
	for _, dto := range dtos {
		entry, entryErr := toDomain(dto)
		if entryErr != nil {
			return nil, entryErr
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func fromDomain(entry order.AuditEntry) (AuditEntryDTO, error) {
	var details []byte
	if entry.Details != nil {
		raw, err := json.Marshal(entry.Details)
		if err != nil {
			return AuditEntryDTO{}, err
		}
		details = raw
	}

	return AuditEntryDTO{
		ID:        entry.ID.Bytes(),
		OrderID:   entry.OrderID.Bytes(),
		Action:    string(entry.Action),
		Actor:     entry.Actor,
		Details:   details,
		CreatedAt: entry.CreatedAt,
	}, nil
}

func toDomain(dto AuditEntryDTO) (order.AuditEntry, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return order.AuditEntry{}, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return order.AuditEntry{}, err
	}

	var details map[string]any
	if len(dto.Details) > 0 {
		if err = json.Unmarshal(dto.Details, &details); err != nil {
			return order.AuditEntry{}, err
		}
	}

	return order.RestoreAuditEntry(id, orderID, order.Action(dto.Action), dto.Actor, details, dto.CreatedAt), nil
}
