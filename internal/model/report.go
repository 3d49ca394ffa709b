package model

import "time"

const (
	TriggeredBySchedule = "schedule"
)

// StockReport is a persisted StockSummary snapshot.
type StockReport struct {
	ID            string    `json:"id" db:"id"`
	TotalProducts int       `json:"totalProducts" db:"total_products"`
	TotalItems    int       `json:"totalItems" db:"total_items"`
	LowStock      int       `json:"lowStock" db:"low_stock"`
	OutOfStock    int       `json:"outOfStock" db:"out_of_stock"`
	TriggeredBy   string    `json:"triggeredBy" db:"triggered_by"` // "schedule" or user id
	Notified      bool      `json:"notified" db:"notified"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}

// Summary returns the totals the report captured
func (r *StockReport) Summary() StockSummary {
	return StockSummary{
		TotalProducts: r.TotalProducts,
		TotalItems:    r.TotalItems,
		LowStock:      r.LowStock,
		OutOfStock:    r.OutOfStock,
	}
}
