package repository

import (
	"context"

	"github.com/catalogd/backend/domain"
)

// SupplierDirectory holds supplier reference data. Product creation checks
// existence here and embeds the resolved name into the creation event.
type SupplierDirectory interface {
	Create(ctx context.Context, supplier *domain.Supplier) (*domain.Supplier, error)
	GetByID(ctx context.Context, id uint64) (*domain.Supplier, error)
}
