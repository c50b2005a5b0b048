package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/salescore/api/transport"
	"github.com/fastygo/salescore/domain"
	"github.com/fastygo/salescore/pkg/httpcontext"
	"github.com/fastygo/salescore/repository"
	"github.com/fastygo/salescore/specification"
	"github.com/fastygo/salescore/usecase/inventory"
)

type InventoryHandler struct {
	baseHandler
	service   *inventory.Service
	products  repository.ProductRepository
	movements repository.MovementRepository
}

func NewInventoryHandler(
	service *inventory.Service,
	products repository.ProductRepository,
	movements repository.MovementRepository,
	adapter *httpcontext.Adapter,
	logger *zap.Logger,
) *InventoryHandler {
	return &InventoryHandler{
		baseHandler: newBaseHandler(adapter, logger),
		service:     service,
		products:    products,
		movements:   movements,
	}
}

// @Summary Adjust product stock
// @Tags inventory
// @Router /api/v1/products/{id}/adjust [post]
func (h *InventoryHandler) AdjustStock(ctx *fasthttp.RequestCtx) {
	productID, _ := ctx.UserValue("id").(string)
	if productID == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing product id", nil))
		return
	}

	var req transport.AdjustInventoryRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	kind, err := movementKind(req.Kind)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	var unitCost *domain.Money
	if req.UnitCost != "" {
		cost, err := domain.NewMoney(req.UnitCost, req.UnitCostCurrency)
		if err != nil {
			h.respondError(ctx, err)
			return
		}
		unitCost = &cost
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	movement, err := h.service.Adjust(stdCtx, inventory.AdjustInput{
		ProductID: productID,
		Delta:     req.Delta,
		Kind:      kind,
		UnitCost:  unitCost,
		Reason:    req.Reason,
		Reference: req.Reference,
		ActorID:   string(ctx.Request.Header.Peek("X-User-ID")),
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, movement)
}

// @Summary List product stock movements
// @Tags inventory
// @Router /api/v1/products/{id}/movements [get]
func (h *InventoryHandler) ListMovements(ctx *fasthttp.RequestCtx) {
	productID, _ := ctx.UserValue("id").(string)
	if productID == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing product id", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	movements, err := h.movements.ListByProduct(stdCtx, productID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, movements)
}

// @Summary Get product
// @Tags inventory
// @Router /api/v1/products/{id} [get]
func (h *InventoryHandler) GetProduct(ctx *fasthttp.RequestCtx) {
	productID, _ := ctx.UserValue("id").(string)
	if productID == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing product id", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	product, err := h.products.GetByID(stdCtx, productID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, product)
}

// @Summary List products
// @Tags inventory
// @Router /api/v1/products [get]
func (h *InventoryHandler) ListProducts(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var (
		products []domain.Product
		err      error
	)
	if spec := productQuerySpec(ctx); spec != nil {
		products, err = h.products.Find(stdCtx, spec)
	} else {
		products, err = h.products.GetAll(stdCtx)
	}
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	// Low stock compares two columns of the same row, which the
	// predicate language cannot express, so it filters here.
	if ctx.QueryArgs().Has("low_stock") {
		filtered := products[:0]
		for _, p := range products {
			if p.UsesInventory && p.BelowMinimum() {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}
	h.respondSuccess(ctx, http.StatusOK, products)
}

// productQuerySpec builds a product specification from query arguments,
// or nil when no filter applies.
func productQuerySpec(ctx *fasthttp.RequestCtx) specification.Specification[domain.Product] {
	var spec specification.Specification[domain.Product]

	and := func(next specification.Specification[domain.Product]) {
		if spec == nil {
			spec = next
		} else {
			spec = specification.And(spec, next)
		}
	}

	if ctx.QueryArgs().Has("active") {
		and(specification.ProductIsActive())
	}
	if code := string(ctx.QueryArgs().Peek("code")); code != "" {
		and(specification.ProductCodeIs(code))
	}
	return spec
}

func movementKind(raw string) (domain.MovementKind, error) {
	switch kind := domain.MovementKind(raw); kind {
	case domain.MovementPurchase, domain.MovementAdjustment, domain.MovementInitial:
		return kind, nil
	case domain.MovementSale:
		return "", domain.NewError(domain.ErrCodeInvalid, "sale movements are recorded by the sale flow")
	default:
		return "", domain.NewError(domain.ErrCodeInvalid, "unknown movement kind")
	}
}
