package memory

import (
	"context"
	"sync"

	"github.com/fastygo/salescore/domain"
	"github.com/fastygo/salescore/repository"
)

type movementLog struct {
	mu        sync.RWMutex
	byProduct map[string][]domain.Movement
}

// NewMovementLog creates an in-memory append-only movement log.
func NewMovementLog() repository.MovementRepository {
	return &movementLog{byProduct: make(map[string][]domain.Movement)}
}

func (l *movementLog) Append(ctx context.Context, movement domain.Movement) error {
	if movement.ProductID == "" {
		return domain.ErrInvalidPayload
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.byProduct[movement.ProductID] = append(l.byProduct[movement.ProductID], movement)
	return nil
}

func (l *movementLog) ListByProduct(ctx context.Context, productID string) ([]domain.Movement, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	stored := l.byProduct[productID]
	out := make([]domain.Movement, len(stored))
	copy(out, stored)
	return out, nil
}

type idempotencyStore struct {
	mu   sync.Mutex
	seen map[string]bool
}

// NewIdempotencyStore creates an in-memory duplicate-request guard.
func NewIdempotencyStore() repository.IdempotencyRepository {
	return &idempotencyStore{seen: make(map[string]bool)}
}

func (s *idempotencyStore) Acquire(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen[key] {
		return false, nil
	}
	s.seen[key] = true
	return true, nil
}

func (s *idempotencyStore) Release(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.seen, key)
	return nil
}
