package service

import (
	"context"
	"time"

	"github.com/estoquehub/internal/model"
	"github.com/rs/zerolog"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

type ReportStore interface {
	Create(ctx context.Context, summary *model.StockSummary, triggeredBy string) (*model.StockReport, error)
	MarkNotified(ctx context.Context, id string) error
	FindRecent(ctx context.Context, limit int) ([]model.StockReport, error)
	DeleteOld(ctx context.Context, olderThan time.Time) (int64, error)
}

// Notifier delivers a low-stock alert for a freshly taken snapshot.
type Notifier interface {
	NotifyLowStock(ctx context.Context, report *model.StockReport, products []model.Product) error
}

type ReportService struct {
	products  ProductStore
	reports   ReportStore
	notifier  Notifier
	retention time.Duration
	log       zerolog.Logger
}

// NewReportService wires the snapshot job. notifier may be nil; a
// non-positive retention disables pruning.
func NewReportService(products ProductStore, reports ReportStore, notifier Notifier, retention time.Duration, log zerolog.Logger) *ReportService {
	return &ReportService{
		products:  products,
		reports:   reports,
		notifier:  notifier,
		retention: retention,
		log:       log.With().Str("component", "reports").Logger(),
	}
}

// Snapshot persists the current stock summary. A failed notification is
// logged and leaves the report un-notified; it does not fail the snapshot.
func (s *ReportService) Snapshot(ctx context.Context, triggeredBy string) (*model.StockReport, error) {
	summary, err := s.products.Summary(ctx)
	if err != nil {
		return nil, err
	}

	report, err := s.reports.Create(ctx, summary, triggeredBy)
	if err != nil {
		return nil, err
	}

	if s.notifier == nil || report.LowStock == 0 {
		return report, nil
	}

	lowStock, err := s.products.FindLowStock(ctx)
	if err != nil {
		s.log.Warn().Err(err).Str("report_id", report.ID).Msg("failed to load low stock products")
		return report, nil
	}
	if err := s.notifier.NotifyLowStock(ctx, report, lowStock); err != nil {
		s.log.Warn().Err(err).Str("report_id", report.ID).Msg("low stock notification failed")
		return report, nil
	}
	if err := s.reports.MarkNotified(ctx, report.ID); err != nil {
		s.log.Warn().Err(err).Str("report_id", report.ID).Msg("failed to mark report notified")
		return report, nil
	}
	report.Notified = true
	return report, nil
}

// History returns the most recent snapshots. limit is clamped to
// [1, MaxHistoryLimit]; zero or negative means DefaultHistoryLimit.
func (s *ReportService) History(ctx context.Context, limit int) ([]model.StockReport, error) {
	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}
	return s.reports.FindRecent(ctx, limit)
}

// Prune deletes snapshots older than the retention window.
func (s *ReportService) Prune(ctx context.Context, now time.Time) (int64, error) {
	if s.retention <= 0 {
		return 0, nil
	}
	return s.reports.DeleteOld(ctx, now.Add(-s.retention))
}
