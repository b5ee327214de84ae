package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/catalogd/backend/domain"
	"github.com/catalogd/backend/repository"
)

type productReadModel struct {
	mu      sync.RWMutex
	details map[uint64]repository.ProductDetail
}

// NewProductReadModel returns an in-memory implementation of
// ProductReadModel. Used in tests and when no database is configured.
func NewProductReadModel() repository.ProductReadModel {
	return &productReadModel{details: make(map[uint64]repository.ProductDetail)}
}

func (r *productReadModel) UpsertDetail(ctx context.Context, detail repository.ProductDetail) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.details[detail.ID] = detail
	return nil
}

func (r *productReadModel) SetStock(ctx context.Context, productID uint64, stock int, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	detail, ok := r.details[productID]
	if !ok {
		return nil
	}
	detail.Stock = stock
	detail.UpdatedAt = at
	r.details[productID] = detail
	return nil
}

func (r *productReadModel) SetPrice(ctx context.Context, productID uint64, price float64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	detail, ok := r.details[productID]
	if !ok {
		return nil
	}
	detail.Price = price
	detail.UpdatedAt = at
	r.details[productID] = detail
	return nil
}

func (r *productReadModel) IncrementViews(ctx context.Context, productID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	detail, ok := r.details[productID]
	if !ok {
		return nil
	}
	detail.ViewCount++
	r.details[productID] = detail
	return nil
}

func (r *productReadModel) GetDetail(ctx context.Context, productID uint64) (*repository.ProductDetail, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	detail, ok := r.details[productID]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &detail, nil
}

func (r *productReadModel) List(ctx context.Context, filter repository.ProductFilter) ([]repository.ProductSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var products []repository.ProductSummary
	for _, d := range r.details {
		if filter.Search != "" && !strings.Contains(strings.ToLower(d.Name), strings.ToLower(filter.Search)) {
			continue
		}
		products = append(products, repository.ProductSummary{
			ID:           d.ID,
			Name:         d.Name,
			Price:        d.Price,
			Stock:        d.Stock,
			SupplierName: d.SupplierName,
		})
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })

	if filter.Offset > 0 {
		if filter.Offset >= len(products) {
			return nil, nil
		}
		products = products[filter.Offset:]
	}
	if filter.Limit > 0 && len(products) > filter.Limit {
		products = products[:filter.Limit]
	}
	return products, nil
}

func (r *productReadModel) Reset(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.details = make(map[uint64]repository.ProductDetail)
	return nil
}
