package postgres

import (
	"context"
	"database/sql"

	"printapi/internal/model"
	"printapi/internal/repository"
)

// ProductPostgres is a PostgreSQL implementation of repository.ProductRepository.
type ProductPostgres struct {
	db *sql.DB
}

// NewProductPostgres creates a new ProductPostgres repository.
func NewProductPostgres(db *sql.DB) *ProductPostgres {
	return &ProductPostgres{db: db}
}

var _ repository.ProductRepository = (*ProductPostgres)(nil)

const productColumns = `id, name, description, category, base_price, default_format, large_format, image_path, created_at`

// Create inserts a new catalog row and returns the stored record.
func (r *ProductPostgres) Create(ctx context.Context, p *model.Product) (*model.Product, error) {
	const q = `
		INSERT INTO products (id, name, description, category, base_price, default_format, large_format, image_path, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + productColumns
	row := r.db.QueryRowContext(ctx, q,
		p.ID, p.Name, p.Description, p.Category, p.BasePrice,
		nullString(string(p.DefaultFormat)), p.LargeFormat, p.ImagePath, p.CreatedAt,
	)
	return scanProduct(row)
}

// FindByID fetches a single product by its ID.
func (r *ProductPostgres) FindByID(ctx context.Context, id string) (*model.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return scanProduct(r.db.QueryRowContext(ctx, q, id))
}

// List returns products using LIMIT/OFFSET pagination and a total count.
func (r *ProductPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Product], error) {
	const qCount = `SELECT COUNT(*) FROM products`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + productColumns + `
		FROM products
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Product]{Items: items, Total: total}, nil
}

// Search matches products by name or category, case-insensitively.
func (r *ProductPostgres) Search(ctx context.Context, term string) ([]model.Product, error) {
	const q = `
		SELECT ` + productColumns + `
		FROM products
		WHERE name ILIKE '%' || $1 || '%' OR category ILIKE '%' || $1 || '%'
		ORDER BY name
	`
	rows, err := r.db.QueryContext(ctx, q, term)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// Update overwrites the mutable catalog fields of a product.
func (r *ProductPostgres) Update(ctx context.Context, p *model.Product) (*model.Product, error) {
	const q = `
		UPDATE products
		SET name = $2, description = $3, category = $4, base_price = $5,
			default_format = $6, large_format = $7, image_path = $8
		WHERE id = $1
		RETURNING ` + productColumns
	row := r.db.QueryRowContext(ctx, q,
		p.ID, p.Name, p.Description, p.Category, p.BasePrice,
		nullString(string(p.DefaultFormat)), p.LargeFormat, p.ImagePath,
	)
	return scanProduct(row)
}

// Delete removes a product by ID. Missing rows are not an error.
func (r *ProductPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM products WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

func scanProduct(row rowScanner) (*model.Product, error) {
	var p model.Product
	var defaultFormat sql.NullString
	if err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Category, &p.BasePrice,
		&defaultFormat, &p.LargeFormat, &p.ImagePath, &p.CreatedAt,
	); err != nil {
		return nil, err
	}
	p.DefaultFormat = model.SmallFormat(defaultFormat.String)
	return &p, nil
}
