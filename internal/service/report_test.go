package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/estoquehub/internal/model"
	"github.com/estoquehub/internal/service/servicetest"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	calls    int
	products []model.Product
	err      error
}

func (n *recordingNotifier) NotifyLowStock(_ context.Context, _ *model.StockReport, products []model.Product) error {
	n.calls++
	n.products = products
	return n.err
}

func seedProducts(t *testing.T, store *servicetest.ProductStore, reqs ...*model.CreateProductRequest) {
	t.Helper()
	svc := NewProductService(store)
	for _, r := range reqs {
		_, err := svc.Create(context.Background(), r)
		require.NoError(t, err)
	}
}

func TestReportService_Snapshot_Notifies(t *testing.T) {
	products := servicetest.NewProductStore()
	seedProducts(t, products, createReq("Bolt", "B1", 1, 5), createReq("Washer", "W1", 50, 5))
	notifier := &recordingNotifier{}
	svc := NewReportService(products, servicetest.NewReportStore(), notifier, 0, zerolog.Nop())

	report, err := svc.Snapshot(context.Background(), model.TriggeredBySchedule)
	require.NoError(t, err)
	assert.Equal(t, model.TriggeredBySchedule, report.TriggeredBy)
	assert.Equal(t, 2, report.TotalProducts)
	assert.Equal(t, 1, report.LowStock)
	assert.True(t, report.Notified)
	assert.Equal(t, 1, notifier.calls)
	require.Len(t, notifier.products, 1)
	assert.Equal(t, "B1", notifier.products[0].SKU)

	history, err := svc.History(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].Notified)
}

func TestReportService_Snapshot_NoLowStockSkipsNotifier(t *testing.T) {
	products := servicetest.NewProductStore()
	seedProducts(t, products, createReq("Washer", "W1", 50, 5))
	notifier := &recordingNotifier{}
	svc := NewReportService(products, servicetest.NewReportStore(), notifier, 0, zerolog.Nop())

	report, err := svc.Snapshot(context.Background(), "user-1")
	require.NoError(t, err)
	assert.False(t, report.Notified)
	assert.Zero(t, notifier.calls)
}

func TestReportService_Snapshot_NotifierFailureKeepsReport(t *testing.T) {
	products := servicetest.NewProductStore()
	seedProducts(t, products, createReq("Bolt", "B1", 0, 5))
	svc := NewReportService(products, servicetest.NewReportStore(), &recordingNotifier{err: errors.New("webhook down")}, 0, zerolog.Nop())

	report, err := svc.Snapshot(context.Background(), model.TriggeredBySchedule)
	require.NoError(t, err)
	assert.False(t, report.Notified)
}

func TestReportService_Snapshot_StoreFailure(t *testing.T) {
	products := servicetest.NewProductStore()
	products.Err = model.ErrStore
	svc := NewReportService(products, servicetest.NewReportStore(), nil, 0, zerolog.Nop())

	_, err := svc.Snapshot(context.Background(), model.TriggeredBySchedule)
	assert.ErrorIs(t, err, model.ErrStore)
}

func TestReportService_HistoryLimit(t *testing.T) {
	reports := servicetest.NewReportStore()
	for i := 0; i < 120; i++ {
		reports.Add(model.StockReport{ID: time.Duration(i).String(), CreatedAt: time.Now()})
	}
	svc := NewReportService(servicetest.NewProductStore(), reports, nil, 0, zerolog.Nop())
	ctx := context.Background()

	tests := map[int]int{0: DefaultHistoryLimit, -3: DefaultHistoryLimit, 5: 5, 500: MaxHistoryLimit}
	for limit, want := range tests {
		got, err := svc.History(ctx, limit)
		require.NoError(t, err)
		assert.Len(t, got, want, "limit %d", limit)
	}
}

func TestReportService_Prune(t *testing.T) {
	reports := servicetest.NewReportStore()
	now := time.Now()
	reports.Add(model.StockReport{ID: "old", CreatedAt: now.Add(-40 * 24 * time.Hour)})
	reports.Add(model.StockReport{ID: "new", CreatedAt: now.Add(-time.Hour)})

	svc := NewReportService(servicetest.NewProductStore(), reports, nil, 30*24*time.Hour, zerolog.Nop())
	n, err := svc.Prune(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	disabled := NewReportService(servicetest.NewProductStore(), reports, nil, 0, zerolog.Nop())
	n, err = disabled.Prune(context.Background(), now)
	require.NoError(t, err)
	assert.Zero(t, n)
}
