package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/estoquehub/internal/client"
	"github.com/estoquehub/internal/model"
)

const noLowStockMessage = "no products with low stock"

// Reports is the stock overview page.
type Reports struct {
	api      API
	session  *client.Session
	summary  model.StockSummary
	lowStock []model.Product
}

// NewReports creates a new reports page
func NewReports(api API, session *client.Session) *Reports {
	return &Reports{api: api, session: session}
}

// Load fetches the summary and the low-stock products
func (r *Reports) Load(ctx context.Context) error {
	summary, err := r.api.Summary(ctx, r.session)
	if err != nil {
		return fmt.Errorf("failed to load summary: %w", err)
	}
	lowStock, err := r.api.LowStock(ctx, r.session)
	if err != nil {
		return fmt.Errorf("failed to load low stock products: %w", err)
	}
	r.summary = *summary
	r.lowStock = lowStock
	return nil
}

func (r *Reports) Render(w io.Writer) {
	renderCards(w, r.summary)
	renderProducts(w, r.lowStock, false, noLowStockMessage)
}

func renderHistory(w io.Writer, reports []model.StockReport) {
	if len(reports) == 0 {
		return
	}
	fmt.Fprintln(w, "\nRecent snapshots")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TAKEN\tPRODUCTS\tITEMS\tLOW\tOUT\tBY")
	for _, rep := range reports {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%s\n",
			rep.CreatedAt.Local().Format("2006-01-02 15:04"),
			rep.TotalProducts, rep.TotalItems, rep.LowStock, rep.OutOfStock, rep.TriggeredBy)
	}
	tw.Flush()
}

// RunReports renders the report page. snapshot first records a new report
// on the server; history > 0 appends that many recent snapshots.
func (a *App) RunReports(ctx context.Context, snapshot bool, history int) error {
	session, err := a.RequireSession()
	if err != nil {
		return err
	}

	if snapshot {
		rep, err := a.api.RunReport(ctx, session)
		if err != nil {
			return err
		}
		a.printf("snapshot recorded (%d low stock)\n\n", rep.LowStock)
	}

	page := NewReports(a.api, session)
	if err := page.Load(ctx); err != nil {
		return err
	}
	page.Render(a.out)

	if history > 0 {
		reports, err := a.api.History(ctx, session, history)
		if err != nil {
			return err
		}
		renderHistory(a.out, reports)
	}
	return nil
}
