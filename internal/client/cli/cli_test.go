package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/estoquehub/internal/client"
	"github.com/estoquehub/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	products []model.Product
	user     *model.User
	err      error

	loginReq  *model.LoginRequest
	created   *model.CreateProductRequest
	updated   *model.UpdateProductRequest
	updatedID string
	deleted   string
	calls     int
}

func (f *fakeAPI) Register(_ context.Context, req *model.RegisterRequest) (*model.LoginResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &model.LoginResponse{Token: "tok", User: &model.User{Name: req.Name, Email: req.Email}}, nil
}

func (f *fakeAPI) Login(_ context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	f.loginReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &model.LoginResponse{Token: "tok", User: &model.User{Name: "Ana", Email: req.Email}}, nil
}

func (f *fakeAPI) Profile(context.Context, *client.Session) (*model.User, error) {
	return f.user, f.err
}

func (f *fakeAPI) ListProducts(context.Context, *client.Session, string) ([]model.Product, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]model.Product(nil), f.products...), nil
}

func (f *fakeAPI) GetProduct(_ context.Context, _ *client.Session, id string) (*model.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, &client.APIError{Status: http.StatusNotFound, Code: "not_found", Message: "not found"}
}

func (f *fakeAPI) CreateProduct(_ context.Context, _ *client.Session, req *model.CreateProductRequest) (*model.Product, error) {
	f.created = req
	if f.err != nil {
		return nil, f.err
	}
	p := model.Product{ID: "new", Name: req.Name, SKU: req.SKU, Quantity: *req.Quantity, MinQuantity: *req.MinQuantity}
	f.products = append(f.products, p)
	return &p, nil
}

func (f *fakeAPI) UpdateProduct(_ context.Context, _ *client.Session, id string, req *model.UpdateProductRequest) (*model.Product, error) {
	f.updatedID, f.updated = id, req
	if f.err != nil {
		return nil, f.err
	}
	return &model.Product{ID: id, Name: *req.Name, SKU: *req.SKU}, nil
}

func (f *fakeAPI) DeleteProduct(_ context.Context, _ *client.Session, id string) error {
	f.deleted = id
	return f.err
}

func (f *fakeAPI) Summary(context.Context, *client.Session) (*model.StockSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &model.StockSummary{TotalProducts: len(f.products)}, nil
}

func (f *fakeAPI) LowStock(context.Context, *client.Session) ([]model.Product, error) {
	var low []model.Product
	for _, p := range f.products {
		if p.IsLowStock() {
			low = append(low, p)
		}
	}
	return low, f.err
}

func (f *fakeAPI) Export(context.Context, *client.Session) ([]byte, error) {
	return []byte(`[{"sku":"A-1"}]`), f.err
}

func (f *fakeAPI) History(context.Context, *client.Session, int) ([]model.StockReport, error) {
	return []model.StockReport{{TotalProducts: 2, TriggeredBy: model.TriggeredBySchedule}}, f.err
}

func (f *fakeAPI) RunReport(context.Context, *client.Session) (*model.StockReport, error) {
	return &model.StockReport{LowStock: 1}, f.err
}

type memSessions struct {
	session *client.Session
}

func (m *memSessions) Load() (*client.Session, error) {
	if m.session == nil {
		return nil, client.ErrNoSession
	}
	return m.session, nil
}

func (m *memSessions) Save(s *client.Session) error {
	m.session = s
	return nil
}

func (m *memSessions) Clear() error {
	m.session = nil
	return nil
}

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newApp(api API, sessions *memSessions, input string) (*App, *bytes.Buffer) {
	out := &bytes.Buffer{}
	app := NewApp(api, sessions, strings.NewReader(input), out)
	app.now = func() time.Time { return fixedNow }
	return app, out
}

func loggedIn() *memSessions {
	return &memSessions{session: &client.Session{Token: "tok", Email: "ana@example.com", Name: "Ana", LoginTime: fixedNow.Add(-time.Hour)}}
}

func sampleProducts() []model.Product {
	return []model.Product{
		{ID: "1", Name: "Café", SKU: "CAF-1", Quantity: 10, MinQuantity: 2},
		{ID: "2", Name: "Açúcar", SKU: "ACU-1", Quantity: 2, MinQuantity: 5},
		{ID: "3", Name: "Leite", SKU: "LEI-1", Quantity: 0, MinQuantity: 1},
	}
}

func TestValidateLogin(t *testing.T) {
	tests := []struct {
		name, email, password, want string
	}{
		{"ok", "ana@example.com", "x", ""},
		{"missing email", "", "x", "email is required"},
		{"bad email", "ana@example", "x", "invalid email"},
		{"missing password", "ana@example.com", "", "password is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLogin(tt.email, tt.password)
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.want)
		})
	}
}

func TestValidateRegister(t *testing.T) {
	assert.NoError(t, ValidateRegister("Ana", "ana@example.com", "secret"))

	err := ValidateRegister("Al", "nope", "12345")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{
		"name must be at least 3 characters",
		"invalid email",
		"password must be at least 6 characters",
	}, verr.Problems)
}

func TestValidateProduct(t *testing.T) {
	loaded := sampleProducts()

	assert.NoError(t, ValidateProduct(ProductForm{Name: "Arroz", SKU: "ARR-1"}, loaded, ""))

	err := ValidateProduct(ProductForm{Name: "Ar", SKU: "", Quantity: -1, MinQuantity: -1}, loaded, "")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Problems, 4)

	t.Run("duplicate sku", func(t *testing.T) {
		err := ValidateProduct(ProductForm{Name: "Café 2", SKU: "CAF-1"}, loaded, "")
		assert.EqualError(t, err, "a product with this sku already exists")
	})

	t.Run("own sku while editing", func(t *testing.T) {
		assert.NoError(t, ValidateProduct(ProductForm{Name: "Café", SKU: "CAF-1"}, loaded, "1"))
	})

	t.Run("another product's sku while editing", func(t *testing.T) {
		assert.Error(t, ValidateProduct(ProductForm{Name: "Café", SKU: "ACU-1"}, loaded, "1"))
	})
}

func TestAuthController_Login(t *testing.T) {
	api := &fakeAPI{}
	sessions := &memSessions{}
	app, _ := newApp(api, sessions, "")

	session, err := NewAuthController(app).Login(context.Background(), " ana@example.com ", "secret")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", api.loginReq.Email)
	assert.Equal(t, "tok", session.Token)
	assert.Equal(t, fixedNow, session.LoginTime)
	assert.Same(t, session, sessions.session)
}

func TestAuthController_LoginValidationSkipsServer(t *testing.T) {
	api := &fakeAPI{}
	app, _ := newApp(api, &memSessions{}, "")

	_, err := NewAuthController(app).Login(context.Background(), "bad", "")
	require.Error(t, err)
	assert.Nil(t, api.loginReq)
}

func TestAuthController_LoginServerError(t *testing.T) {
	sessions := &memSessions{}
	api := &fakeAPI{err: &client.APIError{Status: http.StatusUnauthorized, Code: "invalid_credentials", Message: "invalid email or password"}}
	app, _ := newApp(api, sessions, "")

	_, err := NewAuthController(app).Login(context.Background(), "ana@example.com", "wrong")
	require.Error(t, err)
	assert.Nil(t, sessions.session)
	assert.Equal(t, "error: invalid email or password", ErrorLine(err))
}

func TestRunLogin_PromptsAndSaves(t *testing.T) {
	sessions := &memSessions{}
	app, out := newApp(&fakeAPI{}, sessions, "ana@example.com\nsecret\n")

	require.NoError(t, app.RunLogin(context.Background()))
	require.NotNil(t, sessions.session)
	assert.Contains(t, out.String(), "welcome Ana")
}

func TestRunLogin_ExistingSessionShortCircuits(t *testing.T) {
	api := &fakeAPI{}
	app, out := newApp(api, loggedIn(), "")

	require.NoError(t, app.RunLogin(context.Background()))
	assert.Nil(t, api.loginReq)
	assert.Contains(t, out.String(), "already logged in as ana@example.com")
}

func TestRunRegister(t *testing.T) {
	sessions := &memSessions{}
	app, out := newApp(&fakeAPI{}, sessions, "Ana Maria\nana@example.com\nsecret1\n")

	require.NoError(t, app.RunRegister(context.Background()))
	assert.Equal(t, "Ana Maria", sessions.session.Name)
	assert.Contains(t, out.String(), "account created")
}

func TestRequireSession(t *testing.T) {
	app, _ := newApp(&fakeAPI{}, &memSessions{}, "")
	_, err := app.RequireSession()
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	expired := &memSessions{session: &client.Session{Token: "tok", LoginTime: fixedNow.Add(-9 * time.Hour)}}
	app, _ = newApp(&fakeAPI{}, expired, "")
	_, err = app.RequireSession()
	assert.ErrorIs(t, err, ErrNotLoggedIn)
	assert.Nil(t, expired.session, "expired session is cleared")
}

func TestProtectedCommandsRequireSession(t *testing.T) {
	ctx := context.Background()
	app, _ := newApp(&fakeAPI{}, &memSessions{}, "")

	assert.ErrorIs(t, app.RunDashboard(ctx, ""), ErrNotLoggedIn)
	assert.ErrorIs(t, app.RunReports(ctx, false, 0), ErrNotLoggedIn)
	assert.ErrorIs(t, app.RunDelete(ctx, "1"), ErrNotLoggedIn)
	assert.ErrorIs(t, app.RunExport(ctx, ""), ErrNotLoggedIn)
	assert.ErrorIs(t, app.RunWhoAmI(ctx), ErrNotLoggedIn)
}

func TestDashboard_LoadFilterRender(t *testing.T) {
	d := NewDashboard(&fakeAPI{products: sampleProducts()}, loggedIn().session)
	assert.Equal(t, StateLoading, d.State())

	require.NoError(t, d.Load(context.Background()))
	assert.Equal(t, StateRendered, d.State())
	assert.Equal(t, model.StockSummary{TotalProducts: 3, TotalItems: 12, LowStock: 2, OutOfStock: 1}, d.Summary())

	got := d.Filter("caf")
	require.Len(t, got, 1)
	assert.Equal(t, StateFiltered, d.State())

	got = d.Filter("lei-1")
	require.Len(t, got, 1)
	assert.Equal(t, "Leite", got[0].Name)

	var buf bytes.Buffer
	d.Render(&buf)
	assert.Contains(t, buf.String(), "Products: 3   Items: 12   Low stock: 2")
	assert.Contains(t, buf.String(), "OUT OF STOCK")
	assert.NotContains(t, buf.String(), "Café")

	d.Filter("")
	assert.Equal(t, StateRendered, d.State())
	assert.Len(t, d.Products(), 3)

	d.Filter("zzz")
	buf.Reset()
	d.Render(&buf)
	assert.Contains(t, buf.String(), "no products found")
}

func TestDashboard_LoadFailure(t *testing.T) {
	d := NewDashboard(&fakeAPI{err: errors.New("connection refused")}, loggedIn().session)
	require.Error(t, d.Load(context.Background()))
	assert.Equal(t, StateFailed, d.State())
}

func TestDashboard_EditPrefillsAndSubmits(t *testing.T) {
	api := &fakeAPI{products: sampleProducts()}
	d := NewDashboard(api, loggedIn().session)
	require.NoError(t, d.Load(context.Background()))

	_, err := d.Edit(context.Background(), "2", func(f *ProductForm) error {
		assert.Equal(t, "Açúcar", f.Name)
		assert.Equal(t, 2, f.Quantity)
		assert.Equal(t, StateEditing, d.State())
		f.Quantity = 20
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, "2", api.updatedID)
	assert.Equal(t, "ACU-1", *api.updated.SKU)
	assert.Equal(t, 20, *api.updated.Quantity)
	assert.Equal(t, 5, *api.updated.MinQuantity)
	assert.Equal(t, StateRendered, d.State())
}

func TestDashboard_EditUsesCurrentServerValues(t *testing.T) {
	api := &fakeAPI{products: sampleProducts()}
	d := NewDashboard(api, loggedIn().session)
	require.NoError(t, d.Load(context.Background()))

	// Someone else restocked after the list was loaded.
	api.products[1].Quantity = 40

	_, err := d.Edit(context.Background(), "2", func(f *ProductForm) error {
		assert.Equal(t, 40, f.Quantity)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 40, *api.updated.Quantity)
}

func TestDashboard_EditRejectsDuplicateSku(t *testing.T) {
	api := &fakeAPI{products: sampleProducts()}
	d := NewDashboard(api, loggedIn().session)
	require.NoError(t, d.Load(context.Background()))

	_, err := d.Edit(context.Background(), "2", func(f *ProductForm) error {
		f.SKU = "CAF-1"
		return nil
	})
	require.Error(t, err)
	assert.Nil(t, api.updated)
	assert.Equal(t, StateRendered, d.State())
}

func TestDashboard_EditUnknownProduct(t *testing.T) {
	d := NewDashboard(&fakeAPI{products: sampleProducts()}, loggedIn().session)
	require.NoError(t, d.Load(context.Background()))

	_, err := d.Edit(context.Background(), "missing", func(*ProductForm) error { return nil })
	assert.EqualError(t, err, "product missing not found")
}

func TestDashboard_AddAndDelete(t *testing.T) {
	api := &fakeAPI{products: sampleProducts()}
	d := NewDashboard(api, loggedIn().session)
	ctx := context.Background()
	require.NoError(t, d.Load(ctx))

	created, err := d.Add(ctx, ProductForm{Name: " Arroz ", SKU: "ARR-1", Quantity: 4, MinQuantity: 1})
	require.NoError(t, err)
	assert.Equal(t, "Arroz", api.created.Name)
	assert.Equal(t, "new", created.ID)
	assert.Len(t, d.Products(), 4)

	require.NoError(t, d.Delete(ctx, "1"))
	assert.Equal(t, "1", api.deleted)
}

func TestRunAdd_Prompts(t *testing.T) {
	api := &fakeAPI{products: sampleProducts()}
	app, out := newApp(api, loggedIn(), "Feijão\nFEI-1\n7\n2\nGrãos\n")

	require.NoError(t, app.RunAdd(context.Background()))
	assert.Equal(t, "FEI-1", api.created.SKU)
	assert.Equal(t, 7, *api.created.Quantity)
	assert.Equal(t, "Grãos", api.created.Category)
	assert.Contains(t, out.String(), "product created: Feijão")
}

func TestRunAdd_BadQuantity(t *testing.T) {
	api := &fakeAPI{products: sampleProducts()}
	app, _ := newApp(api, loggedIn(), "Feijão\nFEI-1\nseven\n")

	assert.EqualError(t, app.RunAdd(context.Background()), "quantity must be a whole number")
	assert.Nil(t, api.created)
}

func TestRunEdit_EmptyAnswersKeepValues(t *testing.T) {
	api := &fakeAPI{products: sampleProducts()}
	app, _ := newApp(api, loggedIn(), "\n\n15\n\n\n")

	require.NoError(t, app.RunEdit(context.Background(), "1"))
	assert.Equal(t, "Café", *api.updated.Name)
	assert.Equal(t, "CAF-1", *api.updated.SKU)
	assert.Equal(t, 15, *api.updated.Quantity)
	assert.Equal(t, 2, *api.updated.MinQuantity)
}

func TestRunExport_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	app, out := newApp(&fakeAPI{}, loggedIn(), "")

	require.NoError(t, app.RunExport(context.Background(), path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"sku":"A-1"}]`, string(data))
	assert.Contains(t, out.String(), path)
}

func TestRunReports(t *testing.T) {
	app, out := newApp(&fakeAPI{products: sampleProducts()}, loggedIn(), "")

	require.NoError(t, app.RunReports(context.Background(), true, 5))
	s := out.String()
	assert.Contains(t, s, "snapshot recorded (1 low stock)")
	assert.Contains(t, s, "Açúcar")
	assert.Contains(t, s, "LOW STOCK")
	assert.NotContains(t, s, "CAF-1")
	assert.Contains(t, s, "Recent snapshots")
}

func TestReports_EmptyLowStock(t *testing.T) {
	page := NewReports(&fakeAPI{products: []model.Product{{Name: "Café", SKU: "C", Quantity: 10, MinQuantity: 1}}}, loggedIn().session)
	require.NoError(t, page.Load(context.Background()))

	var buf bytes.Buffer
	page.Render(&buf)
	assert.Contains(t, buf.String(), noLowStockMessage)
}

func TestRunWhoAmI(t *testing.T) {
	app, out := newApp(&fakeAPI{user: &model.User{Name: "Ana", Email: "ana@example.com"}}, loggedIn(), "")

	require.NoError(t, app.RunWhoAmI(context.Background()))
	assert.Contains(t, out.String(), "Ana <ana@example.com>")
}

func TestRunLogout(t *testing.T) {
	sessions := loggedIn()
	app, _ := newApp(&fakeAPI{}, sessions, "")

	require.NoError(t, app.RunLogout())
	assert.Nil(t, sessions.session)
}

func TestErrorLine_RejectedToken(t *testing.T) {
	err := &client.APIError{Status: http.StatusUnauthorized, Code: "unauthorized", Message: "invalid or expired token"}
	assert.Contains(t, ErrorLine(err), "estoquehub login")
}

func TestFail_RejectedTokenClearsSession(t *testing.T) {
	sessions := loggedIn()
	app, _ := newApp(&fakeAPI{}, sessions, "")

	line := app.Fail(&client.APIError{Status: http.StatusUnauthorized, Code: "unauthorized", Message: "invalid or expired token"})
	assert.Contains(t, line, "estoquehub login")
	assert.Nil(t, sessions.session)
}

func TestFail_OtherErrorsKeepSession(t *testing.T) {
	sessions := loggedIn()
	app, _ := newApp(&fakeAPI{}, sessions, "")

	assert.Equal(t, "error: boom", app.Fail(errors.New("boom")))
	assert.NotNil(t, sessions.session)

	app.Fail(&client.APIError{Status: http.StatusUnauthorized, Code: "invalid_credentials", Message: "invalid credentials"})
	assert.NotNil(t, sessions.session)
}

func TestRunDashboard_RejectedTokenClearsSession(t *testing.T) {
	sessions := loggedIn()
	api := &fakeAPI{err: &client.APIError{Status: http.StatusUnauthorized, Code: "unauthorized"}}
	app, _ := newApp(api, sessions, "")

	err := app.RunDashboard(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, app.Fail(err), "estoquehub login")
	assert.Nil(t, sessions.session)

	_, err = app.RequireSession()
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}
