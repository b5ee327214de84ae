package repository

import (
	"context"
	"time"
)

// ProductDetail is the denormalized admin view of one product. The supplier
// name is pre-joined by the projector from the creation event.
type ProductDetail struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Price        float64   `json:"price"`
	Stock        int       `json:"stock"`
	ViewCount    int       `json:"view_count"`
	SupplierName string    `json:"supplier_name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProductSummary is the list/search row.
type ProductSummary struct {
	ID           uint64  `json:"id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Stock        int     `json:"stock"`
	SupplierName string  `json:"supplier_name"`
}

type ProductFilter struct {
	Search string
	Limit  int
	Offset int
}

// ProductReadModel is the query-side store. It is written exclusively by the
// projection handlers on the bus worker and read by the query handler.
// Writes are idempotent: reapplying the same event leaves the row identical
// (the view counter relies on each observation event being unique instead).
type ProductReadModel interface {
	UpsertDetail(ctx context.Context, detail ProductDetail) error
	SetStock(ctx context.Context, productID uint64, stock int, at time.Time) error
	SetPrice(ctx context.Context, productID uint64, price float64, at time.Time) error
	IncrementViews(ctx context.Context, productID uint64) error
	GetDetail(ctx context.Context, productID uint64) (*ProductDetail, error)
	List(ctx context.Context, filter ProductFilter) ([]ProductSummary, error)
	// Reset clears every row. Used only by the administrative rebuild.
	Reset(ctx context.Context) error
}
