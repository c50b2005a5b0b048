package memory

import (
	"context"
	"sync"

	"github.com/fastygo/salescore/domain"
	"github.com/fastygo/salescore/repository"
	"github.com/fastygo/salescore/specification"
)

type customerRepository struct {
	mu        sync.RWMutex
	customers map[string]domain.Customer
	order     []string
}

// NewCustomerRepository creates an in-memory customer repository.
func NewCustomerRepository() repository.CustomerRepository {
	return &customerRepository{customers: make(map[string]domain.Customer)}
}

func (r *customerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.customers[id]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	return &c, nil
}

func (r *customerRepository) GetAll(ctx context.Context) ([]domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Customer, 0, len(r.order))
	for _, id := range r.order {
		if c, ok := r.customers[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *customerRepository) Find(ctx context.Context, spec specification.Specification[domain.Customer]) ([]domain.Customer, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	pred := spec.Predicate()
	var out []domain.Customer
	for _, c := range all {
		if specification.EvalPredicate(pred, specification.CustomerFields, c) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *customerRepository) Save(ctx context.Context, customer *domain.Customer) error {
	if customer == nil || customer.ID == "" {
		return domain.ErrInvalidPayload
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.customers[customer.ID]; !ok {
		r.order = append(r.order, customer.ID)
	}
	r.customers[customer.ID] = *customer
	return nil
}
