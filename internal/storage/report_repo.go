package storage

import (
	"context"
	"time"

	"github.com/estoquehub/internal/model"
)

const reportColumns = `id, total_products, total_items, low_stock, out_of_stock, triggered_by, notified, created_at`

type ReportRepository struct {
	db *Database
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *Database) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create stores a snapshot of summary
func (r *ReportRepository) Create(ctx context.Context, summary *model.StockSummary, triggeredBy string) (*model.StockReport, error) {
	var report model.StockReport
	query := `
		INSERT INTO stock_reports (total_products, total_items, low_stock, out_of_stock, triggered_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + reportColumns
	err := r.db.QueryRowxContext(ctx, query,
		summary.TotalProducts, summary.TotalItems, summary.LowStock, summary.OutOfStock, triggeredBy).
		StructScan(&report)
	if err != nil {
		return nil, translate("create stock report", err)
	}
	return &report, nil
}

// MarkNotified flags a report whose alert was delivered
func (r *ReportRepository) MarkNotified(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE stock_reports SET notified = true WHERE id = $1`, id)
	return translate("mark stock report notified", err)
}

// FindRecent returns the newest reports first
func (r *ReportRepository) FindRecent(ctx context.Context, limit int) ([]model.StockReport, error) {
	reports := []model.StockReport{}
	query := `SELECT ` + reportColumns + ` FROM stock_reports ORDER BY created_at DESC LIMIT $1`
	if err := r.db.SelectContext(ctx, &reports, query, limit); err != nil {
		return nil, translate("find recent stock reports", err)
	}
	return reports, nil
}

// DeleteOld removes reports created before olderThan
func (r *ReportRepository) DeleteOld(ctx context.Context, olderThan time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM stock_reports WHERE created_at < $1`, olderThan)
	if err != nil {
		return 0, translate("prune stock reports", err)
	}
	return result.RowsAffected()
}
