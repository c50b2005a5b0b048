// Package sales implements the sale transaction orchestrator: validate
// everything first, then mutate. A sale that fails validation never
// touches stock; a failure after reservation has begun rolls back every
// prior reservation before the error is surfaced.
package sales

import (
	"context"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/fastygo/salescore/domain"
	"github.com/fastygo/salescore/repository"
	"github.com/fastygo/salescore/specification"
	"github.com/fastygo/salescore/usecase/inventory"
)

type UseCase struct {
	sales     repository.SaleRepository
	products  repository.ProductRepository
	customers repository.CustomerRepository
	inventory *inventory.Service
	requests  repository.IdempotencyRepository
	logger    *zap.Logger
}

func New(
	sales repository.SaleRepository,
	products repository.ProductRepository,
	customers repository.CustomerRepository,
	inventorySvc *inventory.Service,
	requests repository.IdempotencyRepository,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		sales:     sales,
		products:  products,
		customers: customers,
		inventory: inventorySvc,
		requests:  requests,
		logger:    logger,
	}
}

// ItemRequest is one requested line. UnitPrice overrides the product's
// sell price when set.
type ItemRequest struct {
	ProductID string
	Quantity  int
	UnitPrice *domain.Money
}

// CreateSaleRequest describes a full sale request.
type CreateSaleRequest struct {
	RequestID  string
	CustomerID string
	ActorID    string
	CreditSale bool
	Items      []ItemRequest
}

type resolvedItem struct {
	product domain.Product
	request ItemRequest
	price   domain.Money
}

// CreateSale runs the two-phase sale flow: resolve and validate every
// item, check credit, then build the aggregate, reserve stock per line
// and persist. Reservations already taken are restored in reverse order
// when a later step fails.
func (uc *UseCase) CreateSale(ctx context.Context, req CreateSaleRequest) (*domain.Sale, error) {
	if len(req.Items) == 0 {
		return nil, domain.ErrEmptySale
	}

	var claim string
	if req.RequestID != "" && uc.requests != nil {
		claim = "sale:" + req.RequestID
		ok, err := uc.requests.Acquire(ctx, claim)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrDuplicateRequest
		}
	}

	// Only a committed sale keeps its request claim. A failed attempt
	// releases it so the same request id can be retried.
	committed := false
	if claim != "" {
		defer func() {
			if committed {
				return
			}
			if err := uc.requests.Release(ctx, claim); err != nil {
				uc.logger.Warn("request claim release failed",
					zap.String("request_id", req.RequestID),
					zap.Error(err))
			}
		}()
	}

	var customer *domain.Customer
	if req.CustomerID != "" {
		found, err := uc.customers.GetByID(ctx, req.CustomerID)
		if err != nil {
			return nil, err
		}
		customer = found
	}

	resolved, err := uc.resolveItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}
	currency := resolved[0].price.Currency

	if req.CreditSale {
		if customer == nil {
			return nil, domain.NewError(domain.ErrCodeInvalid, "credit sale requires a customer")
		}
		total, err := prospectiveTotal(resolved, currency)
		if err != nil {
			return nil, err
		}
		affordable, err := customer.CanAfford(total)
		if err != nil {
			return nil, err
		}
		if !affordable {
			return nil, domain.ErrInsufficientCredit
		}
	}

	// Full validation pass before any mutation.
	for _, item := range resolved {
		if !item.product.Active {
			return nil, domain.ErrProductInactive
		}
		if item.product.UsesInventory {
			ok, err := uc.inventory.HasSufficient(ctx, item.product.ID, item.request.Quantity)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, domain.ErrInsufficientStock
			}
		}
	}

	sale := domain.NewSale(currency, req.CustomerID, req.CreditSale)
	for _, item := range resolved {
		if err := sale.AddItem(item.product.ID, item.product.Description, item.request.Quantity, item.price); err != nil {
			return nil, err
		}
	}

	tracked := make(map[string]bool, len(resolved))
	for _, item := range resolved {
		tracked[item.product.ID] = item.product.UsesInventory
	}

	// Mutation phase. Reserve merged line quantities; roll back in
	// reverse on any failure.
	var reserved []domain.SaleItem
	for _, line := range sale.Items() {
		if !tracked[line.ProductID] {
			continue
		}
		if _, err := uc.inventory.Reserve(ctx, line.ProductID, line.Quantity, sale.ID(), req.ActorID); err != nil {
			return nil, uc.compensate(ctx, sale.ID(), req.ActorID, reserved, err)
		}
		reserved = append(reserved, line)
	}

	if err := sale.Submit(); err != nil {
		return nil, uc.compensate(ctx, sale.ID(), req.ActorID, reserved, err)
	}

	if err := uc.sales.Save(ctx, sale); err != nil {
		// Save may have committed the row before publication failed.
		// Remove it so no submitted sale outlives its reservations.
		var undone []error
		if delErr := uc.sales.Delete(ctx, sale.ID()); delErr != nil && !domain.IsDomainError(delErr, domain.ErrCodeNotFound) {
			uc.logger.Error("sale removal after failed save failed",
				zap.String("sale_id", sale.ID()),
				zap.Error(delErr))
			undone = append(undone, delErr)
		}
		return nil, uc.compensate(ctx, sale.ID(), req.ActorID, reserved, err, undone...)
	}

	committed = true
	uc.logger.Info("sale committed",
		zap.String("sale_id", sale.ID()),
		zap.String("total", sale.Total().String()),
		zap.Int("items", len(sale.Items())))
	return sale, nil
}

// CancelSale restores inventory for every tracked line item and marks
// the sale cancelled. It returns false without error when the sale does
// not exist or is already cancelled.
func (uc *UseCase) CancelSale(ctx context.Context, saleID, actorID string) (bool, error) {
	sale, err := uc.sales.GetByID(ctx, saleID)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return false, nil
		}
		return false, err
	}
	if sale.Status() == domain.SaleStatusCancelled {
		return false, nil
	}

	for _, line := range sale.Items() {
		product, err := uc.products.GetByID(ctx, line.ProductID)
		if err != nil {
			return false, err
		}
		if !product.UsesInventory {
			continue
		}
		if _, err := uc.inventory.Restore(ctx, line.ProductID, line.Quantity, "sale cancelled", sale.ID(), actorID); err != nil {
			return false, err
		}
	}

	if err := sale.Cancel("cancelled by request"); err != nil {
		return false, err
	}
	if err := uc.sales.Save(ctx, sale); err != nil {
		return false, err
	}

	uc.logger.Info("sale cancelled", zap.String("sale_id", saleID))
	return true, nil
}

// SubmitSale moves a persisted draft sale to submitted. CreateSale
// submits as part of its flow; this covers drafts persisted through
// other paths.
func (uc *UseCase) SubmitSale(ctx context.Context, saleID string) (*domain.Sale, error) {
	sale, err := uc.sales.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if err := sale.Submit(); err != nil {
		return nil, err
	}
	if err := uc.sales.Save(ctx, sale); err != nil {
		return nil, err
	}
	uc.logger.Info("sale submitted", zap.String("sale_id", saleID))
	return sale, nil
}

// GetSale returns a single sale aggregate.
func (uc *UseCase) GetSale(ctx context.Context, id string) (*domain.Sale, error) {
	return uc.sales.GetByID(ctx, id)
}

// FindSales runs a specification-based query over the sale collection.
func (uc *UseCase) FindSales(ctx context.Context, spec specification.Specification[*domain.Sale]) ([]*domain.Sale, error) {
	return uc.sales.Find(ctx, spec)
}

func (uc *UseCase) resolveItems(ctx context.Context, items []ItemRequest) ([]resolvedItem, error) {
	resolved := make([]resolvedItem, 0, len(items))
	for _, req := range items {
		if req.Quantity <= 0 {
			return nil, domain.NewError(domain.ErrCodeInvalid, "quantity must be positive")
		}
		product, err := uc.products.GetByID(ctx, req.ProductID)
		if err != nil {
			return nil, err
		}
		price := product.SellPrice
		if req.UnitPrice != nil {
			price = *req.UnitPrice
		}
		resolved = append(resolved, resolvedItem{product: *product, request: req, price: price})
	}
	return resolved, nil
}

func prospectiveTotal(items []resolvedItem, currency string) (domain.Money, error) {
	total := domain.Zero(currency)
	for _, item := range items {
		sum, err := total.Add(item.price.Scale(item.request.Quantity))
		if err != nil {
			return domain.Money{}, err
		}
		total = sum
	}
	return total, nil
}

// compensate restores every reservation taken for the sale, newest
// first. Restore failures, along with any rollback failures already
// collected by the caller, are attached to the original error, never
// substituted for it.
func (uc *UseCase) compensate(ctx context.Context, saleID, actorID string, reserved []domain.SaleItem, cause error, rollbackErrs ...error) error {
	var compErr *multierror.Error
	for _, err := range rollbackErrs {
		compErr = multierror.Append(compErr, err)
	}
	for i := len(reserved) - 1; i >= 0; i-- {
		line := reserved[i]
		if _, err := uc.inventory.Restore(ctx, line.ProductID, line.Quantity, "sale rollback", saleID, actorID); err != nil {
			uc.logger.Error("reservation rollback failed",
				zap.String("sale_id", saleID),
				zap.String("product_id", line.ProductID),
				zap.Error(err))
			compErr = multierror.Append(compErr, err)
		}
	}

	if compErr != nil {
		return domain.WrapError(domain.ErrCodeCompensation,
			"sale failed and rollback is incomplete",
			multierror.Append(compErr, cause))
	}
	return cause
}
