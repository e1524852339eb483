package orderrepo

import (
	"context"
	"errors"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
	"orders/internal/pkg/errs"

	"gorm.io/gorm"
)

var _ ports.OrderRepository = &GormOrderRepository{}

// NotDeleted narrows a query to orders that have not been soft-deleted.
// Every read path that must hide deleted orders goes through this scope.
func NotDeleted(db *gorm.DB) *gorm.DB {
	return db.Where("deleted = ?", false)
}

// GormOrderRepository persists order aggregates with optimistic locking on
// the version column.
type GormOrderRepository struct {
	db     *gorm.DB
	policy order.TotalsPolicy
}

func NewGormOrderRepository(db *gorm.DB, policy order.TotalsPolicy) *GormOrderRepository {
	return &GormOrderRepository{db: db, policy: policy}
}

func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	dto, items, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	if err = r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// Update writes the aggregate back, guarded by a compare-and-set on the
// version column. The aggregate arrives with its version already bumped, so
// the row must still hold version-1 for the write to apply.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	dto, items, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, dto.Version-1).
		Select("*").
		Omit("id", "created_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.classifyStaleWrite(ctx, dto)
	}

	if err = r.db.WithContext(ctx).
		Where("order_id = ?", dto.ID).
		Delete(&ItemDTO{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	var dto OrderDTO
	err := r.db.WithContext(ctx).
		Scopes(NotDeleted).
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order_id", id)
		}
		return nil, err
	}

	var items []ItemDTO
	err = r.db.WithContext(ctx).
		Where("order_id = ?", dto.ID).
		Order("position asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	return toDomain(dto, items, r.policy)
}

// classifyStaleWrite distinguishes a version conflict from a missing row
// when the compare-and-set matched nothing.
func (r *GormOrderRepository) classifyStaleWrite(ctx context.Context, dto OrderDTO) error {
	var current OrderDTO
	err := r.db.WithContext(ctx).
		Select("version").
		First(&current, "id = ?", dto.ID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NewObjectNotFoundError("order_id", dto.ID.String())
		}
		return err
	}
	return errs.NewVersionConflictError(dto.Version-1, current.Version)
}
