package repository

import (
	"context"

	"github.com/fastygo/salescore/domain"
	"github.com/fastygo/salescore/specification"
)

// CustomerRepository exposes the customer view the sale core consumes.
type CustomerRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	GetAll(ctx context.Context) ([]domain.Customer, error)
	Find(ctx context.Context, spec specification.Specification[domain.Customer]) ([]domain.Customer, error)
	Save(ctx context.Context, customer *domain.Customer) error
}
