package producer

import (
	"context"
	"time"

	"github.com/way-wise/company-site-backend-sub001/internal/messaging/kafka"

	"go.uber.org/zap"
)

const defaultBatchSize = 50

// Worker polls the outbox table and relays pending rows to Kafka.
type Worker struct {
	repo      kafka.OutboxRepository
	publisher *Publisher
	logger    *zap.Logger
	interval  time.Duration
}

func NewWorker(repo kafka.OutboxRepository, publisher *Publisher, logger *zap.Logger, interval time.Duration) *Worker {
	if interval <= 0 {
		interval = 3 * time.Second
	}

	return &Worker{
		repo:      repo,
		publisher: publisher,
		logger:    logger.Named("outbox.worker"),
		interval:  interval,
	}
}

func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("outbox worker started", zap.Duration("poll_interval", w.interval))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("outbox worker stopped")
			return
		case <-ticker.C:
			if err := w.drainPending(ctx); err != nil {
				w.logger.Error("drain outbox failed", zap.Error(err))
			}
		}
	}
}

func (w *Worker) drainPending(ctx context.Context) error {
	events, err := w.repo.ListPending(ctx, defaultBatchSize)
	if err != nil {
		return err
	}

	if len(events) == 0 {
		return nil
	}

	w.logger.Info("relaying pending outbox events", zap.Int("count", len(events)))

	for _, event := range events {
		if err := w.publisher.Publish(ctx, event); err != nil {
			w.logger.Error("publish outbox event failed",
				zap.String("outbox_id", event.ID),
				zap.String("event_type", event.EventType),
				zap.String("topic", event.Topic),
				zap.Error(err),
			)
			_ = w.repo.MarkFailed(ctx, event.ID, err.Error())
			continue
		}

		if err := w.repo.MarkSent(ctx, event.ID); err != nil {
			w.logger.Error("mark outbox sent failed",
				zap.String("outbox_id", event.ID),
				zap.Error(err),
			)
			continue
		}

		w.logger.Info("outbox event sent",
			zap.String("outbox_id", event.ID),
			zap.String("event_type", event.EventType),
			zap.String("topic", event.Topic),
		)
	}

	return nil
}
