package router

import (
	"github.com/fasthttp/router"

	apiHandler "github.com/catalogd/backend/api/handler"
)

type Handlers struct {
	Product *apiHandler.ProductHandler
	Admin   *apiHandler.AdminHandler
	Health  *apiHandler.HealthHandler
}

func New(handlers Handlers) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Command side
	r.POST("/api/v1/suppliers", handlers.Product.CreateSupplier)
	r.POST("/api/v1/products", handlers.Product.CreateProduct)
	r.PUT("/api/v1/products/{id}/stock", handlers.Product.AdjustStock)
	r.PUT("/api/v1/products/{id}/price", handlers.Product.ChangePrice)
	r.POST("/api/v1/products/{id}/views", handlers.Product.RecordView)

	// Query side (reads only projection tables)
	r.GET("/api/v1/products", handlers.Product.ListProducts)
	r.GET("/api/v1/products/{id}", handlers.Product.GetProduct)
	r.GET("/api/v1/products/{id}/card", handlers.Product.GetProductCard)

	// Operator surface
	r.POST("/api/v1/admin/rebuild", handlers.Admin.Rebuild)

	return r
}
