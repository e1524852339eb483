package jobs

import (
	"context"
	"log/slog"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/ports"

	"github.com/robfig/cron/v3"
)

const dispatchBatchSize = 100

// EventPublisher sends one serialized event to the broker.
type EventPublisher interface {
	Publish(ctx context.Context, key string, value []byte) error
}

// OutboxDispatchJob drains pending outbox messages to the broker. Messages
// are published with the order id as partition key, then marked dispatched.
// A message that fails to publish stays pending and is retried on the next
// tick.
type OutboxDispatchJob struct {
	uowFactory ports.UnitOfWorkFactory
	publisher  EventPublisher
	cron       *cron.Cron
	logger     *slog.Logger
}

func NewOutboxDispatchJob(uowFactory ports.UnitOfWorkFactory, publisher EventPublisher, logger *slog.Logger) *OutboxDispatchJob {
	return &OutboxDispatchJob{
		uowFactory: uowFactory,
		publisher:  publisher,
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger.With("component", "outbox_dispatch_job"),
	}
}

// Start begins draining the outbox every second.
func (j *OutboxDispatchJob) Start() error {
	_, err := j.cron.AddFunc("* * * * * *", func() {
		ctx := context.Background()
		if err := j.dispatchPending(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Outbox dispatch run failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Outbox dispatch job started (running every second)")
	return nil
}

func (j *OutboxDispatchJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Outbox dispatch job stopped")
}

func (j *OutboxDispatchJob) dispatchPending(ctx context.Context) error {
	outboxRepo := j.uowFactory.Create().OutboxRepository()

	pending, err := outboxRepo.FetchPending(ctx, dispatchBatchSize)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		return nil
	}

	dispatched := make([]kernel.UUID, 0, len(pending))
	for _, message := range pending {
		if pubErr := j.publisher.Publish(ctx, message.OrderID.String(), message.Payload); pubErr != nil {
			j.logger.WarnContext(ctx, "Failed to publish outbox message",
				"message_id", message.ID.String(),
				"event_type", message.EventType,
				"error", pubErr)
			continue
		}
		dispatched = append(dispatched, message.ID)
	}
	if len(dispatched) == 0 {
		return nil
	}

	if err = outboxRepo.MarkDispatched(ctx, dispatched, time.Now().UTC()); err != nil {
		return err
	}

	j.logger.InfoContext(ctx, "Dispatched outbox messages", "count", len(dispatched))
	return nil
}
