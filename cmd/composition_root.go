package cmd

import (
	"log/slog"

	httpin "orders/internal/adapters/in/http"
	"orders/internal/adapters/out/catalog"
	"orders/internal/adapters/out/inventory"
	"orders/internal/adapters/out/kafka"
	"orders/internal/adapters/out/postgres"
	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/application/usecases/queries"
	"orders/internal/core/domain/model/order"
	"orders/internal/jobs"

	"gorm.io/gorm"
)

// totalsPolicy is the pricing scheme applied to every order.
func totalsPolicy() order.TotalsPolicy {
	return order.NewFlatRatePolicy()
}

// CompositionRoot wires adapters into use-case handlers. Handlers are cheap
// value types, so each getter builds a fresh one.
type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	gateway    *inventory.Client
	catalog    *catalog.Client
	producer   *kafka.Producer
}

func NewCompositionRoot(configs Config, gormDB *gorm.DB) CompositionRoot {
	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB, totalsPolicy()),
		gateway:    inventory.NewClient(configs.InventoryServiceURL),
		catalog:    catalog.NewClient(configs.CatalogServiceURL),
		producer:   kafka.NewProducer([]string{configs.KafkaHost}, configs.KafkaOrderEventsTopic),
	}
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.CreateOrderUoWFactory = FuncCreateOrderUoWFactory(func() commands.CreateOrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f, c.gateway, c.catalog, totalsPolicy())
}

func (c *CompositionRoot) CreatePatchOrderCommandHandler() commands.PatchOrderCommandHandler {
	return commands.NewPatchOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateAddItemsCommandHandler() commands.AddItemsCommandHandler {
	return commands.NewAddItemsCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateUpdateItemCommandHandler() commands.UpdateItemCommandHandler {
	return commands.NewUpdateItemCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateRemoveItemCommandHandler() commands.RemoveItemCommandHandler {
	return commands.NewRemoveItemCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateUpdateStatusCommandHandler() commands.UpdateStatusCommandHandler {
	return commands.NewUpdateStatusCommandHandler(c.orderUoWFactory(), c.gateway)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.orderUoWFactory(), c.gateway)
}

func (c *CompositionRoot) CreateDeleteOrderCommandHandler() commands.DeleteOrderCommandHandler {
	return commands.NewDeleteOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAuditTrailQueryHandler() queries.GetAuditTrailQueryHandler {
	return queries.NewGetAuditTrailQueryHandler(c.gormDB)
}

// CreateHTTPServer assembles the REST server with every handler wired in.
func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreatePatchOrderCommandHandler(),
		c.CreateAddItemsCommandHandler(),
		c.CreateUpdateItemCommandHandler(),
		c.CreateRemoveItemCommandHandler(),
		c.CreateUpdateStatusCommandHandler(),
		c.CreateCancelOrderCommandHandler(),
		c.CreateDeleteOrderCommandHandler(),
		c.CreateGetOrderQueryHandler(),
		c.CreateListOrdersQueryHandler(),
		c.CreateGetAuditTrailQueryHandler(),
	)
}

// CreateJobManager assembles the background jobs, including the outbox
// dispatcher that publishes committed events to Kafka.
func (c *CompositionRoot) CreateJobManager(logger *slog.Logger) *jobs.JobManager {
	return jobs.NewJobManager(&c.uowFactory, c.producer, logger)
}

func (c *CompositionRoot) Close() error {
	return c.producer.Close()
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncCreateOrderUoWFactory func() commands.CreateOrderUoW

func (f FuncCreateOrderUoWFactory) Create() commands.CreateOrderUoW {
	return f()
}
