package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/salescore/api/handler"
)

type Handlers struct {
	Sales     *apiHandler.SalesHandler
	Inventory *apiHandler.InventoryHandler
	Customers *apiHandler.CustomersHandler
	Health    *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Sales
	r.POST("/api/v1/sales", authMiddleware(handlers.Sales.CreateSale))
	r.GET("/api/v1/sales", authMiddleware(handlers.Sales.ListSales))
	r.GET("/api/v1/sales/{id}", authMiddleware(handlers.Sales.GetSale))
	r.POST("/api/v1/sales/{id}/submit", authMiddleware(handlers.Sales.SubmitSale))
	r.POST("/api/v1/sales/{id}/cancel", authMiddleware(handlers.Sales.CancelSale))

	// Catalog and inventory
	r.GET("/api/v1/products", authMiddleware(handlers.Inventory.ListProducts))
	r.GET("/api/v1/products/{id}", authMiddleware(handlers.Inventory.GetProduct))
	r.POST("/api/v1/products/{id}/adjust", authMiddleware(handlers.Inventory.AdjustStock))
	r.GET("/api/v1/products/{id}/movements", authMiddleware(handlers.Inventory.ListMovements))

	// Customers
	r.GET("/api/v1/customers", authMiddleware(handlers.Customers.ListCustomers))
	r.GET("/api/v1/customers/{id}", authMiddleware(handlers.Customers.GetCustomer))

	return r
}
