package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/estoquehub/internal/model"
)

type ProductStore interface {
	FindAll(ctx context.Context, search string) ([]model.Product, error)
	FindByID(ctx context.Context, id string) (*model.Product, error)
	Create(ctx context.Context, p *model.Product) (*model.Product, error)
	Update(ctx context.Context, id string, req *model.UpdateProductRequest) (*model.Product, error)
	Delete(ctx context.Context, id string) error
	Summary(ctx context.Context) (*model.StockSummary, error)
	FindLowStock(ctx context.Context) ([]model.Product, error)
}

type ProductService struct {
	store ProductStore
}

// NewProductService creates a new product service
func NewProductService(store ProductStore) *ProductService {
	return &ProductService{store: store}
}

// List returns all products, filtered by search when set
func (s *ProductService) List(ctx context.Context, search string) ([]model.Product, error) {
	return s.store.FindAll(ctx, search)
}

// Get returns a product by ID
func (s *ProductService) Get(ctx context.Context, id string) (*model.Product, error) {
	return s.store.FindByID(ctx, id)
}

// Create checks the request before the insert; the store's UNIQUE and
// CHECK constraints still have the final word.
func (s *ProductService) Create(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.SKU = strings.TrimSpace(req.SKU)
	req.Category = strings.TrimSpace(req.Category)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	return s.store.Create(ctx, &model.Product{
		Name:        req.Name,
		SKU:         req.SKU,
		Quantity:    *req.Quantity,
		MinQuantity: *req.MinQuantity,
		Category:    req.Category,
	})
}

// Update applies the fields set in req
func (s *ProductService) Update(ctx context.Context, id string, req *model.UpdateProductRequest) (*model.Product, error) {
	trimPtr(req.Name)
	trimPtr(req.SKU)
	trimPtr(req.Category)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if req.Name == nil && req.SKU == nil && req.Quantity == nil && req.MinQuantity == nil && req.Category == nil {
		return nil, fmt.Errorf("%w: no fields to update", model.ErrValidation)
	}
	return s.store.Update(ctx, id, req)
}

// Delete removes a product
func (s *ProductService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// Summary returns the stock totals
func (s *ProductService) Summary(ctx context.Context) (*model.StockSummary, error) {
	return s.store.Summary(ctx)
}

// LowStock returns products at or below their minimum
func (s *ProductService) LowStock(ctx context.Context) ([]model.Product, error) {
	return s.store.FindLowStock(ctx)
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}
