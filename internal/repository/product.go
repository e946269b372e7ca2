package repository

import (
	"context"

	"printapi/internal/model"
)

// ProductRepository defines data access for the catalog.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) (*model.Product, error)
	FindByID(ctx context.Context, id string) (*model.Product, error)

	// List returns a page of products plus the total row count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Product], error)

	// Search matches products by name or category, case-insensitively.
	Search(ctx context.Context, term string) ([]model.Product, error)

	Update(ctx context.Context, p *model.Product) (*model.Product, error)
	Delete(ctx context.Context, id string) error
}
