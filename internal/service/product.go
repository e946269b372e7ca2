package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"printapi/internal/model"
	"printapi/internal/repository"
)

// ProductListResult is the service-level DTO for paginated catalog listings.
type ProductListResult struct {
	Items []model.Product `json:"data"`
	Total int             `json:"total"`
}

// ProductService defines the catalog use cases. Reads are public; writes are
// admin-only.
type ProductService interface {
	Create(ctx context.Context, actor model.Actor, p *model.Product) (*model.Product, error)
	Get(ctx context.Context, id string) (*model.Product, error)
	List(ctx context.Context, limit, offset int) (*ProductListResult, error)
	Search(ctx context.Context, term string) ([]model.Product, error)
	Update(ctx context.Context, actor model.Actor, p *model.Product) (*model.Product, error)
	Delete(ctx context.Context, actor model.Actor, id string) error
}

type productService struct {
	products repository.ProductRepository
}

// NewProductService constructs a ProductService.
func NewProductService(products repository.ProductRepository) ProductService {
	return &productService{products: products}
}

// Create adds a catalog entry. The catalog is public so unauthorized writes
// come back as ErrForbidden, not a masked not-found.
func (s *productService) Create(ctx context.Context, actor model.Actor, p *model.Product) (*model.Product, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now().UTC()
	return s.products.Create(ctx, p)
}

// Get returns a product by ID.
func (s *productService) Get(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// List returns paginated products without exposing repository types.
func (s *productService) List(ctx context.Context, limit, offset int) (*ProductListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	res, err := s.products.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &ProductListResult{Items: res.Items, Total: res.Total}, nil
}

// Search matches products by name or category.
func (s *productService) Search(ctx context.Context, term string) ([]model.Product, error) {
	if term == "" {
		return []model.Product{}, nil
	}
	return s.products.Search(ctx, term)
}

// Update overwrites a catalog entry.
func (s *productService) Update(ctx context.Context, actor model.Actor, p *model.Product) (*model.Product, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if p.ID == "" {
		return nil, ErrIDRequired
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	updated, err := s.products.Update(ctx, p)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes a catalog entry.
func (s *productService) Delete(ctx context.Context, actor model.Actor, id string) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	if id == "" {
		return ErrIDRequired
	}
	return s.products.Delete(ctx, id)
}
