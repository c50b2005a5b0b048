package memory

import (
	"context"
	"sync"

	"github.com/fastygo/salescore/domain"
	"github.com/fastygo/salescore/repository"
	"github.com/fastygo/salescore/specification"
)

type productRepository struct {
	mu       sync.RWMutex
	products map[string]domain.Product
	order    []string
}

// NewProductRepository creates an in-memory product repository.
func NewProductRepository() repository.ProductRepository {
	return &productRepository{products: make(map[string]domain.Product)}
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &p, nil
}

func (r *productRepository) GetByCode(ctx context.Context, code string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if p, ok := r.products[id]; ok && p.Code == code {
			return &p, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (r *productRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	_, err := r.GetByCode(ctx, code)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *productRepository) GetAll(ctx context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Product, 0, len(r.order))
	for _, id := range r.order {
		if p, ok := r.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *productRepository) Find(ctx context.Context, spec specification.Specification[domain.Product]) ([]domain.Product, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	pred := spec.Predicate()
	var out []domain.Product
	for _, p := range all {
		if specification.EvalPredicate(pred, specification.ProductFields, p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *productRepository) Save(ctx context.Context, product *domain.Product) error {
	if product == nil || product.ID == "" {
		return domain.ErrInvalidPayload
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		r.order = append(r.order, product.ID)
	}
	r.products[product.ID] = *product
	return nil
}

func (r *productRepository) UpdateStock(ctx context.Context, productID string, previous, next int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[productID]
	if !ok {
		return domain.ErrProductNotFound
	}
	if p.Stock != previous {
		return domain.ErrVersionConflict
	}
	p.Stock = next
	r.products[productID] = p
	return nil
}
