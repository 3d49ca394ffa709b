package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/estoquehub/internal/client"
	"github.com/estoquehub/internal/model"
)

const DefaultExportFile = "estoquehub_export.json"

// State is the dashboard page state.
type State int

const (
	StateLoading State = iota
	StateRendered
	StateFiltered
	StateEditing
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateRendered:
		return "rendered"
	case StateFiltered:
		return "filtered"
	case StateEditing:
		return "editing"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Dashboard holds the products loaded for one session.
type Dashboard struct {
	api      API
	session  *client.Session
	products []model.Product
	visible  []model.Product
	state    State
}

// NewDashboard creates a new dashboard page
func NewDashboard(api API, session *client.Session) *Dashboard {
	return &Dashboard{api: api, session: session, state: StateLoading}
}

func (d *Dashboard) State() State { return d.state }

func (d *Dashboard) Products() []model.Product { return d.visible }

// Load fetches every product and resets the filter
func (d *Dashboard) Load(ctx context.Context) error {
	d.state = StateLoading
	products, err := d.api.ListProducts(ctx, d.session, "")
	if err != nil {
		d.state = StateFailed
		return fmt.Errorf("failed to load products: %w", err)
	}
	d.products = products
	d.visible = products
	d.state = StateRendered
	return nil
}

// Filter narrows the visible rows to products whose name or sku contains
// term, case-insensitively. An empty term shows everything again.
func (d *Dashboard) Filter(term string) []model.Product {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		d.visible = d.products
		d.state = StateRendered
		return d.visible
	}

	filtered := make([]model.Product, 0, len(d.products))
	for _, p := range d.products {
		if strings.Contains(strings.ToLower(p.Name), term) || strings.Contains(strings.ToLower(p.SKU), term) {
			filtered = append(filtered, p)
		}
	}
	d.visible = filtered
	d.state = StateFiltered
	return filtered
}

// Summary computes the cards from the loaded products, not the filtered view.
func (d *Dashboard) Summary() model.StockSummary {
	s := model.StockSummary{TotalProducts: len(d.products)}
	for _, p := range d.products {
		s.TotalItems += p.Quantity
		if p.IsLowStock() {
			s.LowStock++
		}
		if p.Quantity == 0 {
			s.OutOfStock++
		}
	}
	return s
}

func (d *Dashboard) Render(w io.Writer) {
	renderCards(w, d.Summary())
	renderProducts(w, d.visible, true, "no products found")
}

// Add validates form, creates the product and reloads
func (d *Dashboard) Add(ctx context.Context, form ProductForm) (*model.Product, error) {
	if err := ValidateProduct(form, d.products, ""); err != nil {
		return nil, err
	}
	qty, minQty := form.Quantity, form.MinQuantity
	created, err := d.api.CreateProduct(ctx, d.session, &model.CreateProductRequest{
		Name:        strings.TrimSpace(form.Name),
		SKU:         strings.TrimSpace(form.SKU),
		Quantity:    &qty,
		MinQuantity: &minQty,
		Category:    strings.TrimSpace(form.Category),
	})
	if err != nil {
		return nil, err
	}
	return created, d.Load(ctx)
}

// Edit pre-fills a form from the product as the server has it now, lets
// apply change it and submits the result. The dashboard returns to rendered
// either way.
func (d *Dashboard) Edit(ctx context.Context, id string, apply func(*ProductForm) error) (*model.Product, error) {
	current, err := d.api.GetProduct(ctx, d.session, id)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return nil, fmt.Errorf("product %s not found", id)
		}
		return nil, err
	}

	d.state = StateEditing
	defer func() {
		if d.state == StateEditing {
			d.state = StateRendered
		}
	}()

	form := FormFromProduct(current)
	if err := apply(&form); err != nil {
		return nil, err
	}
	if err := ValidateProduct(form, d.products, id); err != nil {
		return nil, err
	}

	name, sku, category := strings.TrimSpace(form.Name), strings.TrimSpace(form.SKU), strings.TrimSpace(form.Category)
	qty, minQty := form.Quantity, form.MinQuantity
	updated, err := d.api.UpdateProduct(ctx, d.session, id, &model.UpdateProductRequest{
		Name:        &name,
		SKU:         &sku,
		Quantity:    &qty,
		MinQuantity: &minQty,
		Category:    &category,
	})
	if err != nil {
		return nil, err
	}
	return updated, d.Load(ctx)
}

// Delete removes a product and reloads
func (d *Dashboard) Delete(ctx context.Context, id string) error {
	if err := d.api.DeleteProduct(ctx, d.session, id); err != nil {
		return err
	}
	return d.Load(ctx)
}

// Export writes the server's export document to path.
func (d *Dashboard) Export(ctx context.Context, path string) error {
	if path == "" {
		path = DefaultExportFile
	}
	data, err := d.api.Export(ctx, d.session)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

func (a *App) dashboard(ctx context.Context) (*Dashboard, error) {
	session, err := a.RequireSession()
	if err != nil {
		return nil, err
	}
	d := NewDashboard(a.api, session)
	if err := d.Load(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

// RunDashboard renders the dashboard, filtered by search
func (a *App) RunDashboard(ctx context.Context, search string) error {
	d, err := a.dashboard(ctx)
	if err != nil {
		return err
	}
	d.Filter(search)
	d.Render(a.out)
	return nil
}

// RunAdd prompts for a new product
func (a *App) RunAdd(ctx context.Context) error {
	d, err := a.dashboard(ctx)
	if err != nil {
		return err
	}

	var form ProductForm
	if form.Name, err = GetSimpleText(a.in, "Name", a.out); err != nil {
		return err
	}
	if form.SKU, err = GetSimpleText(a.in, "SKU", a.out); err != nil {
		return err
	}
	if form.Quantity, err = a.quantity("Quantity", ""); err != nil {
		return err
	}
	if form.MinQuantity, err = a.quantity("Minimum quantity", ""); err != nil {
		return err
	}
	if form.Category, err = GetSimpleText(a.in, "Category", a.out); err != nil {
		return err
	}

	created, err := d.Add(ctx, form)
	if err != nil {
		return err
	}
	a.printf("product created: %s (%s)\n", created.Name, created.ID)
	return nil
}

// RunEdit prompts for changes to product id
func (a *App) RunEdit(ctx context.Context, id string) error {
	d, err := a.dashboard(ctx)
	if err != nil {
		return err
	}

	updated, err := d.Edit(ctx, id, func(f *ProductForm) error {
		var err error
		if f.Name, err = GetWithDefault(a.in, "Name", f.Name, a.out); err != nil {
			return err
		}
		if f.SKU, err = GetWithDefault(a.in, "SKU", f.SKU, a.out); err != nil {
			return err
		}
		if f.Quantity, err = a.quantity("Quantity", fmt.Sprint(f.Quantity)); err != nil {
			return err
		}
		if f.MinQuantity, err = a.quantity("Minimum quantity", fmt.Sprint(f.MinQuantity)); err != nil {
			return err
		}
		f.Category, err = GetWithDefault(a.in, "Category", f.Category, a.out)
		return err
	})
	if err != nil {
		return err
	}
	a.printf("product updated: %s\n", updated.Name)
	return nil
}

func (a *App) RunDelete(ctx context.Context, id string) error {
	session, err := a.RequireSession()
	if err != nil {
		return err
	}
	if err := NewDashboard(a.api, session).Delete(ctx, id); err != nil {
		return err
	}
	a.printf("product removed\n")
	return nil
}

func (a *App) RunExport(ctx context.Context, path string) error {
	session, err := a.RequireSession()
	if err != nil {
		return err
	}
	if path == "" {
		path = DefaultExportFile
	}
	if err := NewDashboard(a.api, session).Export(ctx, path); err != nil {
		return err
	}
	a.printf("products exported to %s\n", path)
	return nil
}

// quantity prompts for a whole number; current is kept on an empty answer.
func (a *App) quantity(prompt, current string) (int, error) {
	var (
		text string
		err  error
	)
	if current == "" {
		text, err = GetSimpleText(a.in, prompt, a.out)
	} else {
		text, err = GetWithDefault(a.in, prompt, current, a.out)
	}
	if err != nil {
		return 0, err
	}
	return parseQuantity(strings.ToLower(prompt), text)
}
