package handler

import (
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/salescore/api/transport"
	"github.com/fastygo/salescore/domain"
	"github.com/fastygo/salescore/pkg/httpcontext"
	"github.com/fastygo/salescore/repository"
	"github.com/fastygo/salescore/specification"
)

type CustomersHandler struct {
	baseHandler
	customers repository.CustomerRepository
}

func NewCustomersHandler(customers repository.CustomerRepository, adapter *httpcontext.Adapter, logger *zap.Logger) *CustomersHandler {
	return &CustomersHandler{
		baseHandler: newBaseHandler(adapter, logger),
		customers:   customers,
	}
}

// @Summary Get customer
// @Tags customers
// @Router /api/v1/customers/{id} [get]
func (h *CustomersHandler) GetCustomer(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing customer id", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	customer, err := h.customers.GetByID(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, customer)
}

// @Summary List customers
// @Tags customers
// @Router /api/v1/customers [get]
func (h *CustomersHandler) ListCustomers(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	spec, err := customerQuerySpec(ctx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	var customers []domain.Customer
	if spec != nil {
		customers, err = h.customers.Find(stdCtx, spec)
	} else {
		customers, err = h.customers.GetAll(stdCtx)
	}
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, customers)
}

// customerQuerySpec builds a customer specification from query
// arguments, or nil when no filter applies.
func customerQuerySpec(ctx *fasthttp.RequestCtx) (specification.Specification[domain.Customer], error) {
	var spec specification.Specification[domain.Customer]

	and := func(next specification.Specification[domain.Customer]) {
		if spec == nil {
			spec = next
		} else {
			spec = specification.And(spec, next)
		}
	}

	if name := string(ctx.QueryArgs().Peek("name")); name != "" {
		and(specification.CustomerNamed(name))
	}
	if raw := string(ctx.QueryArgs().Peek("min_credit")); raw != "" {
		floor, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, domain.NewError(domain.ErrCodeInvalid, "min_credit is not a decimal")
		}
		and(specification.CustomerCreditAtLeast(floor))
	}
	return spec, nil
}
