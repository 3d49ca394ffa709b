package storage

import (
	"context"
	"strings"

	"github.com/estoquehub/internal/model"
	"github.com/google/uuid"
)

const productColumns = `id, name, sku, quantity, min_quantity, category, created_at, updated_at`

type ProductRepository struct {
	db *Database
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *Database) *ProductRepository {
	return &ProductRepository{db: db}
}

// FindAll lists products ordered by name. A non-empty search matches name
// or sku case-insensitively.
func (r *ProductRepository) FindAll(ctx context.Context, search string) ([]model.Product, error) {
	products := []model.Product{}
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE $1 = '' OR name ILIKE '%' || $1 || '%' OR sku ILIKE '%' || $1 || '%'
		ORDER BY name`
	if err := r.db.SelectContext(ctx, &products, query, escapeLike(search)); err != nil {
		return nil, translate("list products", err)
	}
	return classify(products), nil
}

// FindByID gets a product by ID
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, model.ErrNotFound
	}

	var product model.Product
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	if err := r.db.GetContext(ctx, &product, query, id); err != nil {
		return nil, translate("find product", err)
	}
	product.Classify()
	return &product, nil
}

// Create inserts a product
func (r *ProductRepository) Create(ctx context.Context, p *model.Product) (*model.Product, error) {
	var product model.Product
	query := `
		INSERT INTO products (name, sku, quantity, min_quantity, category)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + productColumns
	err := r.db.QueryRowxContext(ctx, query, p.Name, p.SKU, p.Quantity, p.MinQuantity, p.Category).
		StructScan(&product)
	if err != nil {
		return nil, translate("create product", err)
	}
	product.Classify()
	return &product, nil
}

// Update overwrites only the non-nil fields of req in a single statement.
func (r *ProductRepository) Update(ctx context.Context, id string, req *model.UpdateProductRequest) (*model.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, model.ErrNotFound
	}

	var product model.Product
	query := `
		UPDATE products SET
			name = COALESCE($2, name),
			sku = COALESCE($3, sku),
			quantity = COALESCE($4, quantity),
			min_quantity = COALESCE($5, min_quantity),
			category = COALESCE($6, category),
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING ` + productColumns
	err := r.db.QueryRowxContext(ctx, query, id, req.Name, req.SKU, req.Quantity, req.MinQuantity, req.Category).
		StructScan(&product)
	if err != nil {
		return nil, translate("update product", err)
	}
	product.Classify()
	return &product, nil
}

// Delete removes a product
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return model.ErrNotFound
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return translate("delete product", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return translate("delete product", err)
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}

// Summary aggregates stock totals
func (r *ProductRepository) Summary(ctx context.Context) (*model.StockSummary, error) {
	var summary model.StockSummary
	query := `
		SELECT
			COUNT(*) AS total_products,
			COALESCE(SUM(quantity), 0) AS total_items,
			COUNT(*) FILTER (WHERE quantity <= min_quantity) AS low_stock,
			COUNT(*) FILTER (WHERE quantity = 0) AS out_of_stock
		FROM products`
	if err := r.db.GetContext(ctx, &summary, query); err != nil {
		return nil, translate("summarize stock", err)
	}
	return &summary, nil
}

// FindLowStock returns products at or below their minimum
func (r *ProductRepository) FindLowStock(ctx context.Context) ([]model.Product, error) {
	products := []model.Product{}
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE quantity <= min_quantity
		ORDER BY quantity ASC, name`
	if err := r.db.SelectContext(ctx, &products, query); err != nil {
		return nil, translate("list low stock products", err)
	}
	return classify(products), nil
}

func classify(products []model.Product) []model.Product {
	for i := range products {
		products[i].Classify()
	}
	return products
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(strings.TrimSpace(s))
}
