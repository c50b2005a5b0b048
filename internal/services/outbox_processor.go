package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/salescore/domain"
	"github.com/fastygo/salescore/internal/infrastructure/outbox"
	"github.com/fastygo/salescore/repository"
)

// ConnectionHealth abstracts the connection monitor functionality.
type ConnectionHealth interface {
	IsOnline() bool
}

// ProcessorConfig controls how frequently the outbox is drained.
type ProcessorConfig struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
	Retention  time.Duration
}

// OutboxProcessor republishes parked events to the live sink on a
// schedule. Entries drain in enqueue order and are requeued with a
// retry cap when delivery keeps failing.
type OutboxProcessor struct {
	store   *outbox.Store
	monitor ConnectionHealth
	sink    repository.EventSink
	logger  *zap.Logger
	cron    *cron.Cron
	cfg     ProcessorConfig
}

func NewOutboxProcessor(
	store *outbox.Store,
	monitor ConnectionHealth,
	sink repository.EventSink,
	logger *zap.Logger,
	cfg ProcessorConfig,
) *OutboxProcessor {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 5
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	op := &OutboxProcessor{
		store:   store,
		monitor: monitor,
		sink:    sink,
		logger:  logger,
		cfg:     cfg,
		cron:    cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = op.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if err := op.Drain(ctx); err != nil {
			op.logger.Error("outbox drain failed", zap.Error(err))
		}
	})

	return op
}

// Start launches the cron scheduler.
func (op *OutboxProcessor) Start() {
	if op == nil || op.cron == nil {
		return
	}
	op.cron.Start()
	op.logger.Info("outbox processor started")
}

// Stop gracefully stops the scheduler.
func (op *OutboxProcessor) Stop(ctx context.Context) {
	if op == nil || op.cron == nil {
		return
	}
	stopCtx := op.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	op.logger.Info("outbox processor stopped")
}

// Drain republishes pending entries synchronously.
func (op *OutboxProcessor) Drain(ctx context.Context) error {
	if op == nil || op.store == nil || op.sink == nil {
		return nil
	}
	if op.monitor != nil && !op.monitor.IsOnline() {
		op.logger.Debug("skipping outbox drain (offline)")
		return nil
	}

	if op.cfg.Retention > 0 {
		if err := op.store.Cleanup(time.Now().Add(-op.cfg.Retention)); err != nil {
			op.logger.Warn("outbox cleanup failed", zap.Error(err))
		}
	}

	entries, err := op.store.GetBatch(op.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if err := op.sink.Publish(ctx, []domain.Event{entry.Event}); err != nil {
			op.logger.Error("failed to republish outbox entry",
				zap.String("event_id", entry.Event.ID),
				zap.String("event", entry.Event.Name),
				zap.Error(err))

			entry.Retries++
			if entry.Retries >= op.cfg.MaxRetries {
				op.logger.Warn("dropping outbox entry (max retries reached)",
					zap.String("event_id", entry.Event.ID))
				_ = op.store.Remove(entry)
				continue
			}

			if err := op.store.Remove(entry); err != nil {
				op.logger.Warn("failed to remove outbox entry", zap.Error(err))
			}
			if err := op.store.Requeue(entry); err != nil {
				op.logger.Error("failed to requeue outbox entry", zap.Error(err))
			}
			continue
		}

		if err := op.store.Remove(entry); err != nil {
			op.logger.Warn("failed to purge published outbox entry", zap.Error(err))
		}
	}
	return nil
}

// Size returns the number of pending entries.
func (op *OutboxProcessor) Size() int {
	if op == nil || op.store == nil {
		return 0
	}
	size, err := op.store.Size()
	if err != nil {
		return 0
	}
	return size
}
