// Package postgres wires the repositories into a transactional unit of work
// backed by GORM.
package postgres

import (
	"context"

	"orders/internal/adapters/out/postgres/auditrepo"
	"orders/internal/adapters/out/postgres/idempotencyrepo"
	"orders/internal/adapters/out/postgres/orderrepo"
	"orders/internal/adapters/out/postgres/outboxrepo"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"

	"gorm.io/gorm"
)

var _ ports.UnitOfWorkFactory = &GormUnitOfWorkFactory{}
var _ ports.UnitOfWork = &GormUnitOfWork{}

type GormUnitOfWorkFactory struct {
	db     *gorm.DB
	policy order.TotalsPolicy
}

func NewGormUnitOfWorkFactory(db *gorm.DB, policy order.TotalsPolicy) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db, policy: policy}
}

func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{db: f.db, policy: f.policy}
}

// GormUnitOfWork scopes repository access to a single database transaction.
// Repositories obtained between Begin and Commit share the transaction;
// outside of one they fall back to the raw connection.
type GormUnitOfWork struct {
	db     *gorm.DB
	tx     *gorm.DB
	policy order.TotalsPolicy
}

func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}
	uow.tx = uow.db.WithContext(ctx).Begin()
	return uow.tx.Error
}

func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}
	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}
	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow.policy)
}

func (uow *GormUnitOfWork) AuditRepository() ports.AuditRepository {
	return auditrepo.NewGormAuditRepository(uow.conn())
}

func (uow *GormUnitOfWork) IdempotencyRepository() ports.IdempotencyRepository {
	return idempotencyrepo.NewGormIdempotencyRepository(uow.conn())
}

func (uow *GormUnitOfWork) OutboxRepository() ports.OutboxRepository {
	return outboxrepo.NewGormOutboxRepository(uow.conn())
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

// Migrate creates or updates the schema for every table the unit of work
// touches.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.ItemDTO{},
		&auditrepo.AuditEntryDTO{},
		&idempotencyrepo.IdempotencyRecordDTO{},
		&outboxrepo.MessageDTO{},
	)
}
