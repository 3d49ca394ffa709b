package model

import "time"

type StockStatus string

const (
	StockStatusOK         StockStatus = "ok"
	StockStatusLow        StockStatus = "low_stock"
	StockStatusOutOfStock StockStatus = "out_of_stock"
)

// StockStatusOf classifies a quantity against its minimum threshold.
// Zero is always out of stock, even when the threshold is zero too.
func StockStatusOf(quantity, minQuantity int) StockStatus {
	switch {
	case quantity == 0:
		return StockStatusOutOfStock
	case quantity <= minQuantity:
		return StockStatusLow
	default:
		return StockStatusOK
	}
}

type Product struct {
	ID          string      `json:"id" db:"id"`
	Name        string      `json:"name" db:"name"`
	SKU         string      `json:"sku" db:"sku"`
	Quantity    int         `json:"quantity" db:"quantity"`
	MinQuantity int         `json:"minQuantity" db:"min_quantity"`
	Category    string      `json:"category" db:"category"`
	Status      StockStatus `json:"status" db:"-"`
	CreatedAt   time.Time   `json:"createdAt" db:"created_at"`
	LastUpdated time.Time   `json:"lastUpdated" db:"updated_at"`
}

// Classify fills the derived Status field.
func (p *Product) Classify() {
	p.Status = StockStatusOf(p.Quantity, p.MinQuantity)
}

// IsLowStock reports whether the product is at or below its threshold.
func (p *Product) IsLowStock() bool {
	return p.Quantity <= p.MinQuantity
}

// MaxQuantity is the largest value the INTEGER quantity columns hold.
const MaxQuantity = 2147483647

type CreateProductRequest struct {
	Name        string `json:"name" validate:"required,min=3,max=255"`
	SKU         string `json:"sku" validate:"required,max=100"`
	Quantity    *int   `json:"quantity" validate:"required,gte=0,lte=2147483647"`
	MinQuantity *int   `json:"minQuantity" validate:"required,gte=0,lte=2147483647"`
	Category    string `json:"category" validate:"max=100"`
}

type UpdateProductRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitnil,min=3,max=255"`
	SKU         *string `json:"sku,omitempty" validate:"omitnil,min=1,max=100"`
	Quantity    *int    `json:"quantity,omitempty" validate:"omitnil,gte=0,lte=2147483647"`
	MinQuantity *int    `json:"minQuantity,omitempty" validate:"omitnil,gte=0,lte=2147483647"`
	Category    *string `json:"category,omitempty" validate:"omitnil,max=100"`
}

type StockSummary struct {
	TotalProducts int `json:"totalProducts" db:"total_products"`
	TotalItems    int `json:"totalItems" db:"total_items"`
	LowStock      int `json:"lowStock" db:"low_stock"`
	OutOfStock    int `json:"outOfStock" db:"out_of_stock"`
}
