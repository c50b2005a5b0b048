// Package inventory implements the stock reservation service. Every
// stock change goes through Adjust, which pairs the stock write with an
// append-only movement record under a per-product lock, so concurrent
// reservations against one product are linearizable without relying on
// callers to serialize access.
package inventory

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/fastygo/salescore/domain"
	"github.com/fastygo/salescore/repository"
)

type Service struct {
	products  repository.ProductRepository
	movements repository.MovementRepository
	logger    *zap.Logger

	locks sync.Map // product id -> *sync.Mutex
}

func New(products repository.ProductRepository, movements repository.MovementRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		products:  products,
		movements: movements,
		logger:    logger,
	}
}

// AdjustInput describes a requested stock change.
type AdjustInput struct {
	ProductID string
	Delta     int
	Kind      domain.MovementKind
	UnitCost  *domain.Money
	Reason    string
	Reference string
	ActorID   string
}

// Adjust applies a signed stock delta and records the movement that
// describes it as one unit. It fails with NotFound when the product
// does not exist.
func (s *Service) Adjust(ctx context.Context, in AdjustInput) (domain.Movement, error) {
	unlock := s.lock(in.ProductID)
	defer unlock()
	return s.adjustLocked(ctx, in)
}

// HasSufficient reports whether the product can back the requested
// quantity. Products that do not track inventory always qualify. This
// check is advisory; Reserve re-checks under the product lock before
// mutating.
func (s *Service) HasSufficient(ctx context.Context, productID string, quantity int) (bool, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return false, err
	}
	if !product.UsesInventory {
		return true, nil
	}
	return product.Stock >= quantity, nil
}

// Reserve decrements stock to back a sale. The sufficiency check runs
// again under the per-product lock, closing the race between the
// caller's fail-fast check and the mutation.
func (s *Service) Reserve(ctx context.Context, productID string, quantity int, saleReference, actorID string) (domain.Movement, error) {
	if quantity <= 0 {
		return domain.Movement{}, domain.NewError(domain.ErrCodeInvalid, "quantity must be positive")
	}

	unlock := s.lock(productID)
	defer unlock()

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return domain.Movement{}, err
	}
	if product.UsesInventory && product.Stock < quantity {
		return domain.Movement{}, domain.ErrInsufficientStock
	}

	return s.adjustLocked(ctx, AdjustInput{
		ProductID: productID,
		Delta:     -quantity,
		Kind:      domain.MovementSale,
		Reference: saleReference,
		ActorID:   actorID,
	})
}

// Restore returns previously reserved stock, recording an adjustment
// movement. Used to undo a cancelled or failed sale.
func (s *Service) Restore(ctx context.Context, productID string, quantity int, reason, reference, actorID string) (domain.Movement, error) {
	if quantity <= 0 {
		return domain.Movement{}, domain.NewError(domain.ErrCodeInvalid, "quantity must be positive")
	}

	unlock := s.lock(productID)
	defer unlock()

	return s.adjustLocked(ctx, AdjustInput{
		ProductID: productID,
		Delta:     quantity,
		Kind:      domain.MovementAdjustment,
		Reason:    reason,
		Reference: reference,
		ActorID:   actorID,
	})
}

// adjustLocked performs the read-modify-write. Callers hold the
// product lock.
func (s *Service) adjustLocked(ctx context.Context, in AdjustInput) (domain.Movement, error) {
	product, err := s.products.GetByID(ctx, in.ProductID)
	if err != nil {
		return domain.Movement{}, err
	}

	previous := product.Stock
	next := previous + in.Delta

	if err := s.products.UpdateStock(ctx, in.ProductID, previous, next); err != nil {
		return domain.Movement{}, err
	}

	movement := domain.NewMovement(in.ProductID, in.Kind, in.Delta, previous)
	movement.UnitCost = in.UnitCost
	movement.Reason = in.Reason
	movement.Reference = in.Reference
	movement.ActorID = in.ActorID

	if err := s.movements.Append(ctx, movement); err != nil {
		// Undo the stock write so a stock change never exists without
		// its movement record.
		if revertErr := s.products.UpdateStock(ctx, in.ProductID, next, previous); revertErr != nil {
			s.logger.Error("failed to revert stock after movement append failure",
				zap.String("product_id", in.ProductID),
				zap.Error(revertErr))
			return domain.Movement{}, domain.WrapError(domain.ErrCodeCompensation,
				"movement append failed and stock revert failed", err)
		}
		return domain.Movement{}, err
	}

	if product.UsesInventory && next <= product.MinimumStock {
		s.logger.Warn("product at or below minimum stock",
			zap.String("product_id", in.ProductID),
			zap.Int("stock", next),
			zap.Int("minimum", product.MinimumStock))
	}

	return movement, nil
}

func (s *Service) lock(productID string) func() {
	v, _ := s.locks.LoadOrStore(productID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
