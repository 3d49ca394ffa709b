package service

import (
	"context"
	"testing"

	"github.com/estoquehub/internal/model"
	"github.com/estoquehub/internal/service/servicetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func createReq(name, sku string, qty, minQty int) *model.CreateProductRequest {
	return &model.CreateProductRequest{Name: name, SKU: sku, Quantity: intPtr(qty), MinQuantity: intPtr(minQty)}
}

func TestProductService_StockStatus(t *testing.T) {
	svc := NewProductService(servicetest.NewProductStore())
	ctx := context.Background()

	_, err := svc.Create(ctx, createReq("Low item", "L1", 5, 10))
	require.NoError(t, err)
	_, err = svc.Create(ctx, createReq("Out item", "O1", 0, 10))
	require.NoError(t, err)
	_, err = svc.Create(ctx, createReq("Fine item", "F1", 10, 5))
	require.NoError(t, err)

	products, err := svc.List(ctx, "")
	require.NoError(t, err)
	status := map[string]model.StockStatus{}
	for _, p := range products {
		status[p.SKU] = p.Status
	}
	assert.Equal(t, model.StockStatusLow, status["L1"])
	assert.Equal(t, model.StockStatusOutOfStock, status["O1"])
	assert.Equal(t, model.StockStatusOK, status["F1"])
}

func TestProductService_Create_Validation(t *testing.T) {
	svc := NewProductService(servicetest.NewProductStore())
	ctx := context.Background()

	tests := []struct {
		name string
		req  *model.CreateProductRequest
		msg  string
	}{
		{"negative quantity", createReq("Widget", "W1", -1, 5), "quantity must not be less than 0"},
		{"negative min", createReq("Widget", "W1", 1, -5), "minQuantity must not be less than 0"},
		{"missing quantity", &model.CreateProductRequest{Name: "Widget", SKU: "W1", MinQuantity: intPtr(1)}, "quantity is required"},
		{"missing sku", createReq("Widget", "  ", 1, 1), "sku is required"},
		{"short name", createReq("Wi", "W1", 1, 1), "name must be at least 3 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.req)
			require.ErrorIs(t, err, model.ErrValidation)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestProductService_Create_DuplicateSKU(t *testing.T) {
	svc := NewProductService(servicetest.NewProductStore())
	ctx := context.Background()

	_, err := svc.Create(ctx, createReq("Widget", "W1", 1, 1))
	require.NoError(t, err)
	_, err = svc.Create(ctx, createReq("Widget two", "W1", 1, 1))
	assert.ErrorIs(t, err, model.ErrConflict)
}

func TestProductService_Update(t *testing.T) {
	svc := NewProductService(servicetest.NewProductStore())
	ctx := context.Background()
	p, err := svc.Create(ctx, createReq("Widget", "W1", 3, 5))
	require.NoError(t, err)
	require.Equal(t, model.StockStatusLow, p.Status)

	updated, err := svc.Update(ctx, p.ID, &model.UpdateProductRequest{Quantity: intPtr(20)})
	require.NoError(t, err)
	assert.Equal(t, 20, updated.Quantity)
	assert.Equal(t, "Widget", updated.Name)
	assert.Equal(t, model.StockStatusOK, updated.Status)

	_, err = svc.Update(ctx, p.ID, &model.UpdateProductRequest{Quantity: intPtr(-1)})
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = svc.Update(ctx, p.ID, &model.UpdateProductRequest{Name: strPtr("")})
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = svc.Update(ctx, p.ID, &model.UpdateProductRequest{})
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = svc.Update(ctx, "missing", &model.UpdateProductRequest{Quantity: intPtr(1)})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestProductService_Delete(t *testing.T) {
	svc := NewProductService(servicetest.NewProductStore())
	ctx := context.Background()
	p, err := svc.Create(ctx, createReq("Widget", "W1", 3, 5))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, p.ID))
	assert.ErrorIs(t, svc.Delete(ctx, p.ID), model.ErrNotFound)

	products, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestProductService_SummaryAndLowStock(t *testing.T) {
	svc := NewProductService(servicetest.NewProductStore())
	ctx := context.Background()
	for _, r := range []*model.CreateProductRequest{
		createReq("Bolt", "B1", 4, 5),
		createReq("Nut", "N1", 0, 2),
		createReq("Washer", "W1", 30, 5),
	} {
		_, err := svc.Create(ctx, r)
		require.NoError(t, err)
	}

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.StockSummary{TotalProducts: 3, TotalItems: 34, LowStock: 2, OutOfStock: 1}, *summary)

	low, err := svc.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "N1", low[0].SKU)
	assert.Equal(t, "B1", low[1].SKU)
}

func TestProductService_ListSearch(t *testing.T) {
	svc := NewProductService(servicetest.NewProductStore())
	ctx := context.Background()
	_, err := svc.Create(ctx, createReq("Widget", "W1", 1, 1))
	require.NoError(t, err)
	_, err = svc.Create(ctx, createReq("Gadget", "GX-9", 1, 1))
	require.NoError(t, err)

	byName, err := svc.List(ctx, "widg")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "W1", byName[0].SKU)

	bySKU, err := svc.List(ctx, "gx")
	require.NoError(t, err)
	require.Len(t, bySKU, 1)
	assert.Equal(t, "Gadget", bySKU[0].Name)
}
