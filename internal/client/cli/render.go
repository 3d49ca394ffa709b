package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/estoquehub/internal/model"
)

func badge(status model.StockStatus) string {
	switch status {
	case model.StockStatusOutOfStock:
		return "OUT OF STOCK"
	case model.StockStatusLow:
		return "LOW STOCK"
	default:
		return "OK"
	}
}

func renderCards(w io.Writer, s model.StockSummary) {
	fmt.Fprintf(w, "Products: %d   Items: %d   Low stock: %d\n\n", s.TotalProducts, s.TotalItems, s.LowStock)
}

// renderProducts writes a product table, or empty when there is nothing to show.
func renderProducts(w io.Writer, products []model.Product, withID bool, empty string) {
	if len(products) == 0 {
		fmt.Fprintln(w, empty)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if withID {
		fmt.Fprint(tw, "ID\t")
	}
	fmt.Fprintln(tw, "NAME\tSKU\tQTY\tMIN\tSTATUS")
	for i := range products {
		p := &products[i]
		if p.Status == "" {
			p.Classify()
		}
		if withID {
			fmt.Fprintf(tw, "%s\t", p.ID)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", p.Name, p.SKU, p.Quantity, p.MinQuantity, badge(p.Status))
	}
	tw.Flush()
}
