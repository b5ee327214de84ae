package query

import (
	"context"

	"go.uber.org/zap"

	"github.com/catalogd/backend/repository"
)

// ProductCard is the public-facing summary, safe to expose to any user.
type ProductCard struct {
	ID      uint64  `json:"id"`
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
	InStock bool    `json:"in_stock"`
}

// Handler serves reads. It only ever touches tables written by the
// projection handlers, never the event log: reads converge to writes
// asynchronously, with observable lag.
type Handler struct {
	products repository.ProductReadModel
	logger   *zap.Logger
}

func New(products repository.ProductReadModel, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		products: products,
		logger:   logger,
	}
}

// GetProductDetail returns the admin view of one product.
func (h *Handler) GetProductDetail(ctx context.Context, productID uint64) (*repository.ProductDetail, error) {
	return h.products.GetDetail(ctx, productID)
}

// GetProductCard returns the public summary of one product.
func (h *Handler) GetProductCard(ctx context.Context, productID uint64) (*ProductCard, error) {
	detail, err := h.products.GetDetail(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &ProductCard{
		ID:      detail.ID,
		Name:    detail.Name,
		Price:   detail.Price,
		InStock: detail.Stock > 0,
	}, nil
}

// ListProducts returns summaries, optionally filtered by a name substring.
func (h *Handler) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]repository.ProductSummary, error) {
	return h.products.List(ctx, filter)
}

// SearchProducts is a name-substring search over the list view.
func (h *Handler) SearchProducts(ctx context.Context, term string, limit, offset int) ([]repository.ProductSummary, error) {
	return h.products.List(ctx, repository.ProductFilter{
		Search: term,
		Limit:  limit,
		Offset: offset,
	})
}
