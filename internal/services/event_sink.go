package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/fastygo/salescore/domain"
	"github.com/fastygo/salescore/internal/infrastructure/outbox"
	"github.com/fastygo/salescore/repository"
)

// ResilientSink delivers events to the live sink and falls back to the
// durable outbox when delivery fails. A recorded event is therefore
// never dropped: it is either published or parked for the drainer.
type ResilientSink struct {
	live   repository.EventSink
	store  *outbox.Store
	logger *zap.Logger
}

func NewResilientSink(live repository.EventSink, store *outbox.Store, logger *zap.Logger) *ResilientSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResilientSink{
		live:   live,
		store:  store,
		logger: logger,
	}
}

func (s *ResilientSink) Publish(ctx context.Context, events []domain.Event) error {
	if len(events) == 0 {
		return nil
	}

	if s.live != nil {
		if err := s.live.Publish(ctx, events); err == nil {
			return nil
		} else {
			s.logger.Warn("live event publish failed, parking in outbox",
				zap.Int("events", len(events)),
				zap.Error(err))
		}
	}

	if s.store == nil {
		return domain.NewError(domain.ErrCodeInternal, "no event sink available")
	}
	for _, event := range events {
		if err := s.store.Enqueue(outbox.Entry{Event: event}); err != nil {
			return domain.WrapError(domain.ErrCodeInternal, "outbox enqueue failed", err)
		}
	}
	return nil
}

var _ repository.EventSink = (*ResilientSink)(nil)
