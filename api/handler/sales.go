package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/salescore/api/transport"
	"github.com/fastygo/salescore/domain"
	"github.com/fastygo/salescore/pkg/httpcontext"
	"github.com/fastygo/salescore/specification"
	salesUC "github.com/fastygo/salescore/usecase/sales"
)

type SalesHandler struct {
	baseHandler
	uc *salesUC.UseCase
}

func NewSalesHandler(uc *salesUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *SalesHandler {
	return &SalesHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Create sale
// @Tags sales
// @Router /api/v1/sales [post]
func (h *SalesHandler) CreateSale(ctx *fasthttp.RequestCtx) {
	var req transport.CreateSaleRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	items := make([]salesUC.ItemRequest, 0, len(req.Items))
	for _, item := range req.Items {
		out := salesUC.ItemRequest{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
		if item.UnitPrice != "" {
			price, err := domain.NewMoney(item.UnitPrice, item.Currency)
			if err != nil {
				h.respondError(ctx, err)
				return
			}
			out.UnitPrice = &price
		}
		items = append(items, out)
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	sale, err := h.uc.CreateSale(stdCtx, salesUC.CreateSaleRequest{
		RequestID:  req.RequestID,
		CustomerID: req.CustomerID,
		ActorID:    h.actorID(ctx),
		CreditSale: req.CreditSale,
		Items:      items,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, saleResponse(sale))
}

// @Summary Cancel sale
// @Tags sales
// @Router /api/v1/sales/{id}/cancel [post]
func (h *SalesHandler) CancelSale(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing sale id", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	cancelled, err := h.uc.CancelSale(stdCtx, id, h.actorID(ctx))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]bool{"cancelled": cancelled})
}

// @Summary Submit draft sale
// @Tags sales
// @Router /api/v1/sales/{id}/submit [post]
func (h *SalesHandler) SubmitSale(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing sale id", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	sale, err := h.uc.SubmitSale(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, saleResponse(sale))
}

// @Summary Get sale
// @Tags sales
// @Router /api/v1/sales/{id} [get]
func (h *SalesHandler) GetSale(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing sale id", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	sale, err := h.uc.GetSale(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, saleResponse(sale))
}

// @Summary List sales
// @Tags sales
// @Router /api/v1/sales [get]
func (h *SalesHandler) ListSales(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	spec := salesQuerySpec(ctx)
	sales, err := h.uc.FindSales(stdCtx, spec)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	out := make([]transport.SaleResponse, 0, len(sales))
	for _, sale := range sales {
		out = append(out, saleResponse(sale))
	}
	h.respondSuccess(ctx, http.StatusOK, out)
}

// salesQuerySpec builds the sale specification from query arguments.
// Without filters it matches every non-cancelled sale.
func salesQuerySpec(ctx *fasthttp.RequestCtx) specification.Specification[*domain.Sale] {
	var spec specification.Specification[*domain.Sale]

	if status := string(ctx.QueryArgs().Peek("status")); status != "" {
		spec = specification.SaleStatusIs(domain.SaleStatus(status))
	} else {
		spec = specification.Not(specification.SaleStatusIs(domain.SaleStatusCancelled))
	}
	if customerID := string(ctx.QueryArgs().Peek("customer_id")); customerID != "" {
		spec = specification.And(spec, specification.SaleForCustomer(customerID))
	}
	if ctx.QueryArgs().Has("credit") {
		spec = specification.And(spec, specification.SaleIsCredit())
	}
	return spec
}

func (h *SalesHandler) actorID(ctx *fasthttp.RequestCtx) string {
	return string(ctx.Request.Header.Peek("X-User-ID"))
}

func saleResponse(sale *domain.Sale) transport.SaleResponse {
	items := make([]transport.SaleItemResponse, 0, len(sale.Items()))
	for _, item := range sale.Items() {
		items = append(items, transport.SaleItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.String(),
			Subtotal:    item.Subtotal().String(),
		})
	}
	return transport.SaleResponse{
		ID:         sale.ID(),
		Status:     string(sale.Status()),
		Currency:   sale.Currency(),
		CustomerID: sale.CustomerID(),
		CreditSale: sale.CreditSale(),
		Total:      sale.Total().String(),
		Version:    sale.Version(),
		Items:      items,
	}
}
