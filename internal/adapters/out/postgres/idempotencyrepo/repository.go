// Package idempotencyrepo stores the binding between client-supplied
// idempotency keys and the orders they created. The primary-key constraint
// on the key column is the concurrency primitive: the first transaction to
// commit a binding wins, every loser gets an idempotency conflict.
package idempotencyrepo

import (
	"context"
	"errors"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/ports"
	"orders/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

var _ ports.IdempotencyRepository = &GormIdempotencyRepository{}

type IdempotencyRecordDTO struct {
	Key       string    `gorm:"primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName overrides GORM's default naming convention.
func (IdempotencyRecordDTO) TableName() string {
	return "idempotency_records"
}

type GormIdempotencyRepository struct {
	db *gorm.DB
}

func NewGormIdempotencyRepository(db *gorm.DB) *GormIdempotencyRepository {
	return &GormIdempotencyRepository{db: db}
}

func (r *GormIdempotencyRepository) FindOrderID(ctx context.Context, key string) (*kernel.UUID, error) {
	var dto IdempotencyRecordDTO
	err := r.db.WithContext(ctx).First(&dto, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	return &orderID, nil
}

func (r *GormIdempotencyRepository) Bind(ctx context.Context, key string, orderID kernel.UUID) error {
	dto := IdempotencyRecordDTO{
		Key:       key,
		OrderID:   orderID.Bytes(),
		CreatedAt: time.Now().UTC(),
	}

	err := r.db.WithContext(ctx).Create(&dto).Error
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return errs.NewIdempotencyConflictError(key, err)
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewIdempotencyConflictError(key, err)
		}
		return err
	}
	return nil
}
