// Package jobs provides scheduled background tasks built on
// github.com/robfig/cron/v3. The outbox dispatch job runs every second and
// moves committed domain events from the database to the broker.
package jobs

import (
	"fmt"
	"log/slog"

	"orders/internal/core/ports"
)

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	outboxDispatchJob *OutboxDispatchJob
}

func NewJobManager(uowFactory ports.UnitOfWorkFactory, publisher EventPublisher, logger *slog.Logger) *JobManager {
	return &JobManager{
		outboxDispatchJob: NewOutboxDispatchJob(uowFactory, publisher, logger),
	}
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() error {
	if err := jm.outboxDispatchJob.Start(); err != nil {
		return fmt.Errorf("failed to start outbox dispatch job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.outboxDispatchJob.Stop()
}
