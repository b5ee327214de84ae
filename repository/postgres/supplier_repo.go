package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/catalogd/backend/domain"
	"github.com/catalogd/backend/repository"
)

type supplierDirectory struct {
	pool *pgxpool.Pool
}

// NewSupplierDirectory returns a Postgres-backed implementation of SupplierDirectory.
func NewSupplierDirectory(pool *pgxpool.Pool) repository.SupplierDirectory {
	return &supplierDirectory{pool: pool}
}

func (r *supplierDirectory) Create(ctx context.Context, supplier *domain.Supplier) (*domain.Supplier, error) {
	if supplier == nil {
		return nil, domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO suppliers (name, email)
	VALUES ($1, $2)
	RETURNING id, created_at
	`
	if err := r.pool.QueryRow(ctx, query, supplier.Name, supplier.Email).Scan(
		&supplier.ID,
		&supplier.CreatedAt,
	); err != nil {
		return nil, storageErr("create supplier", err)
	}
	return supplier, nil
}

func (r *supplierDirectory) GetByID(ctx context.Context, id uint64) (*domain.Supplier, error) {
	const query = `
	SELECT id, name, email, created_at
	FROM suppliers
	WHERE id = $1
	`
	var supplier domain.Supplier
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&supplier.ID,
		&supplier.Name,
		&supplier.Email,
		&supplier.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSupplierNotFound
		}
		return nil, storageErr("get supplier", err)
	}
	return &supplier, nil
}
