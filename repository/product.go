package repository

import (
	"context"

	"github.com/fastygo/salescore/domain"
	"github.com/fastygo/salescore/specification"
)

// ProductRepository exposes catalog lookups and the guarded stock write
// the inventory service builds on.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetByCode(ctx context.Context, code string) (*domain.Product, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	GetAll(ctx context.Context) ([]domain.Product, error)
	Find(ctx context.Context, spec specification.Specification[domain.Product]) ([]domain.Product, error)
	Save(ctx context.Context, product *domain.Product) error

	// UpdateStock writes the new stock level only when the stored level
	// still equals previous, failing with a conflict otherwise. The
	// compare-and-swap keeps concurrent adjustments linearizable.
	UpdateStock(ctx context.Context, productID string, previous, next int) error
}
