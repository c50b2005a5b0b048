package repository

import (
	"context"

	"github.com/fastygo/salescore/domain"
	"github.com/fastygo/salescore/specification"
)

// SaleRepository persists the Sale aggregate.
//
// Save inserts new aggregates and overwrites existing ones under
// optimistic concurrency: a save whose aggregate version does not match
// the stored version fails with a conflict instead of overwriting.
// After a successful write the repository publishes the aggregate's
// pending events in recorded order, increments its version by one and
// clears the ledger. Find returns results in a stable order for a fixed
// specification and data snapshot.
type SaleRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Sale, error)
	GetAll(ctx context.Context) ([]*domain.Sale, error)
	Find(ctx context.Context, spec specification.Specification[*domain.Sale]) ([]*domain.Sale, error)
	Save(ctx context.Context, sale *domain.Sale) error
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}

// EventSink receives published domain events after a successful save.
// Delivery semantics are the sink's concern.
type EventSink interface {
	Publish(ctx context.Context, events []domain.Event) error
}
