package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/catalogd/backend/domain"
	"github.com/catalogd/backend/repository"
)

type productReadModel struct {
	pool *pgxpool.Pool
}

// NewProductReadModel returns a Postgres-backed implementation of ProductReadModel.
func NewProductReadModel(pool *pgxpool.Pool) repository.ProductReadModel {
	return &productReadModel{pool: pool}
}

func (r *productReadModel) UpsertDetail(ctx context.Context, detail repository.ProductDetail) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return storageErr("begin upsert", err)
	}
	defer tx.Rollback(ctx)

	const detailQuery = `
	INSERT INTO product_detail_view (id, name, description, price, stock, view_count, supplier_name, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (id) DO UPDATE SET
		name          = EXCLUDED.name,
		description   = EXCLUDED.description,
		price         = EXCLUDED.price,
		stock         = EXCLUDED.stock,
		view_count    = EXCLUDED.view_count,
		supplier_name = EXCLUDED.supplier_name,
		created_at    = EXCLUDED.created_at,
		updated_at    = EXCLUDED.updated_at
	`
	if _, err := tx.Exec(ctx, detailQuery,
		detail.ID,
		detail.Name,
		detail.Description,
		detail.Price,
		detail.Stock,
		detail.ViewCount,
		detail.SupplierName,
		detail.CreatedAt,
		detail.UpdatedAt,
	); err != nil {
		return storageErr("upsert product detail", err)
	}

	const listQuery = `
	INSERT INTO product_list_view (id, name, price, stock, supplier_name)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (id) DO UPDATE SET
		name          = EXCLUDED.name,
		price         = EXCLUDED.price,
		stock         = EXCLUDED.stock,
		supplier_name = EXCLUDED.supplier_name
	`
	if _, err := tx.Exec(ctx, listQuery,
		detail.ID,
		detail.Name,
		detail.Price,
		detail.Stock,
		detail.SupplierName,
	); err != nil {
		return storageErr("upsert product summary", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return storageErr("commit upsert", err)
	}
	return nil
}

func (r *productReadModel) SetStock(ctx context.Context, productID uint64, stock int, at time.Time) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return storageErr("begin stock update", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE product_detail_view SET stock = $2, updated_at = $3 WHERE id = $1`,
		productID, stock, at,
	); err != nil {
		return storageErr("update detail stock", err)
	}
	if _, err := tx.Exec(ctx,
		`UPDATE product_list_view SET stock = $2 WHERE id = $1`,
		productID, stock,
	); err != nil {
		return storageErr("update summary stock", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return storageErr("commit stock update", err)
	}
	return nil
}

func (r *productReadModel) SetPrice(ctx context.Context, productID uint64, price float64, at time.Time) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return storageErr("begin price update", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE product_detail_view SET price = $2, updated_at = $3 WHERE id = $1`,
		productID, price, at,
	); err != nil {
		return storageErr("update detail price", err)
	}
	if _, err := tx.Exec(ctx,
		`UPDATE product_list_view SET price = $2 WHERE id = $1`,
		productID, price,
	); err != nil {
		return storageErr("update summary price", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return storageErr("commit price update", err)
	}
	return nil
}

func (r *productReadModel) IncrementViews(ctx context.Context, productID uint64) error {
	if _, err := r.pool.Exec(ctx,
		`UPDATE product_detail_view SET view_count = view_count + 1 WHERE id = $1`,
		productID,
	); err != nil {
		return storageErr("increment view count", err)
	}
	return nil
}

func (r *productReadModel) GetDetail(ctx context.Context, productID uint64) (*repository.ProductDetail, error) {
	const query = `
	SELECT id, name, description, price, stock, view_count, supplier_name, created_at, updated_at
	FROM product_detail_view
	WHERE id = $1
	`
	var detail repository.ProductDetail
	var description *string
	if err := r.pool.QueryRow(ctx, query, productID).Scan(
		&detail.ID,
		&detail.Name,
		&description,
		&detail.Price,
		&detail.Stock,
		&detail.ViewCount,
		&detail.SupplierName,
		&detail.CreatedAt,
		&detail.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, storageErr("get product detail", err)
	}
	if description != nil {
		detail.Description = *description
	}
	return &detail, nil
}

func (r *productReadModel) List(ctx context.Context, filter repository.ProductFilter) ([]repository.ProductSummary, error) {
	const query = `
	SELECT id, name, price, stock, supplier_name
	FROM product_list_view
	WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
	ORDER BY id ASC
	LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, filter.Search, clampLimit(filter.Limit), filter.Offset)
	if err != nil {
		return nil, storageErr("list products", err)
	}
	defer rows.Close()

	var products []repository.ProductSummary
	for rows.Next() {
		var p repository.ProductSummary
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.SupplierName); err != nil {
			return nil, storageErr("scan product summary", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list products", err)
	}
	return products, nil
}

func (r *productReadModel) Reset(ctx context.Context) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return storageErr("begin reset", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM product_detail_view`); err != nil {
		return storageErr("reset detail view", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM product_list_view`); err != nil {
		return storageErr("reset list view", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return storageErr("commit reset", err)
	}
	return nil
}
