package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/catalogd/backend/domain"
	"github.com/catalogd/backend/repository"
)

type supplierDirectory struct {
	mu        sync.RWMutex
	nextID    uint64
	suppliers map[uint64]domain.Supplier
}

// NewSupplierDirectory returns an in-memory implementation of SupplierDirectory.
func NewSupplierDirectory() repository.SupplierDirectory {
	return &supplierDirectory{suppliers: make(map[uint64]domain.Supplier)}
}

func (r *supplierDirectory) Create(ctx context.Context, supplier *domain.Supplier) (*domain.Supplier, error) {
	if supplier == nil || strings.TrimSpace(supplier.Name) == "" {
		return nil, domain.ErrInvalidPayload
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	supplier.ID = r.nextID
	if supplier.CreatedAt.IsZero() {
		supplier.CreatedAt = time.Now().UTC()
	}
	r.suppliers[supplier.ID] = *supplier
	return supplier, nil
}

func (r *supplierDirectory) GetByID(ctx context.Context, id uint64) (*domain.Supplier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	supplier, ok := r.suppliers[id]
	if !ok {
		return nil, domain.ErrSupplierNotFound
	}
	return &supplier, nil
}
