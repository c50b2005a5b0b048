// Package memory provides the reference in-memory implementations of
// the repository contracts. They are the behavioral baseline the
// durable stores must match and the default fixture in tests.
package memory

import (
	"context"
	"sync"

	"github.com/fastygo/salescore/domain"
	"github.com/fastygo/salescore/repository"
	"github.com/fastygo/salescore/specification"
)

type saleRepository struct {
	mu    sync.RWMutex
	sales map[string]domain.SaleState
	order []string
	sink  repository.EventSink
}

// NewSaleRepository creates an in-memory sale repository. The sink
// receives pending events after every successful save; a nil sink
// disables publication.
func NewSaleRepository(sink repository.EventSink) repository.SaleRepository {
	return &saleRepository{
		sales: make(map[string]domain.SaleState),
		sink:  sink,
	}
}

func (r *saleRepository) GetByID(ctx context.Context, id string) (*domain.Sale, error) {
	r.mu.RLock()
	state, ok := r.sales[id]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrSaleNotFound
	}
	return domain.RehydrateSale(state), nil
}

func (r *saleRepository) GetAll(ctx context.Context) ([]*domain.Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Sale, 0, len(r.order))
	for _, id := range r.order {
		if state, ok := r.sales[id]; ok {
			out = append(out, domain.RehydrateSale(state))
		}
	}
	return out, nil
}

// Find filters through the specification's predicate form, iterating in
// insertion order so results are stable for a fixed data snapshot.
func (r *saleRepository) Find(ctx context.Context, spec specification.Specification[*domain.Sale]) ([]*domain.Sale, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	pred := spec.Predicate()
	var out []*domain.Sale
	for _, sale := range all {
		if specification.EvalPredicate(pred, specification.SaleFields, sale) {
			out = append(out, sale)
		}
	}
	return out, nil
}

func (r *saleRepository) Save(ctx context.Context, sale *domain.Sale) error {
	if sale == nil {
		return domain.ErrInvalidPayload
	}

	pending := sale.PendingEvents()

	r.mu.Lock()
	if stored, ok := r.sales[sale.ID()]; ok {
		if stored.Version != sale.Version() {
			r.mu.Unlock()
			return domain.ErrVersionConflict
		}
	} else {
		r.order = append(r.order, sale.ID())
	}

	state := sale.State()
	state.Version = sale.Version() + 1
	r.sales[sale.ID()] = state
	r.mu.Unlock()

	sale.IncrementVersion()

	// Publish outside the store lock. On failure the ledger stays
	// intact so no recorded event is dropped; the caller may retry.
	if r.sink != nil && len(pending) > 0 {
		if err := r.sink.Publish(ctx, pending); err != nil {
			return domain.WrapError(domain.ErrCodeInternal, "event publication failed", err)
		}
	}
	sale.ClearEvents()
	return nil
}

func (r *saleRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sales[id]; !ok {
		return domain.ErrSaleNotFound
	}
	delete(r.sales, id)
	for i, stored := range r.order {
		if stored == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *saleRepository) Exists(ctx context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sales[id]
	return ok, nil
}
