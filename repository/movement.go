package repository

import (
	"context"

	"github.com/fastygo/salescore/domain"
)

// MovementRepository is the append-only stock movement log. Movements
// are never updated or deleted once appended.
type MovementRepository interface {
	Append(ctx context.Context, movement domain.Movement) error
	ListByProduct(ctx context.Context, productID string) ([]domain.Movement, error)
}

// IdempotencyRepository guards against duplicate sale requests.
// Acquire returns false when the key was already claimed; Release
// frees a claim whose request did not commit, so the same request id
// can be retried.
type IdempotencyRepository interface {
	Acquire(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}
