// Package servicetest provides in-memory stores that honour the same
// constraints as the PostgreSQL repositories, for service and handler tests.
package servicetest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/estoquehub/internal/model"
	"github.com/google/uuid"
)

type UserStore struct {
	mu    sync.Mutex
	users map[string]*model.User
}

// NewUserStore creates a new in-memory user store
func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]*model.User)}
}

func (s *UserStore) Create(_ context.Context, name, email, passwordHash string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return nil, fmt.Errorf("%w: email already registered", model.ErrConflict)
		}
	}
	now := time.Now()
	u := &model.User{ID: uuid.NewString(), Name: name, Email: email, Password: passwordHash, CreatedAt: now, UpdatedAt: now}
	s.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (s *UserStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, model.ErrNotFound
}

func (s *UserStore) FindByID(_ context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *UserStore) EnsureUser(ctx context.Context, name, email, passwordHash string) (*model.User, error) {
	u, err := s.Create(ctx, name, email, passwordHash)
	if errors.Is(err, model.ErrConflict) {
		return s.FindByEmail(ctx, email)
	}
	return u, err
}

// Len reports the number of stored users.
func (s *UserStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

type ProductStore struct {
	mu       sync.Mutex
	products map[string]*model.Product
	// Err, when set, is returned by every call.
	Err error
}

// NewProductStore creates a new in-memory product store
func NewProductStore() *ProductStore {
	return &ProductStore{products: make(map[string]*model.Product)}
}

func (s *ProductStore) FindAll(_ context.Context, search string) ([]model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	term := strings.ToLower(strings.TrimSpace(search))
	out := []model.Product{}
	for _, p := range s.products {
		if term == "" || strings.Contains(strings.ToLower(p.Name), term) || strings.Contains(strings.ToLower(p.SKU), term) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *ProductStore) FindByID(_ context.Context, id string) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	p, ok := s.products[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *ProductStore) Create(_ context.Context, p *model.Product) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if err := s.check("", p.SKU, p.Quantity, p.MinQuantity); err != nil {
		return nil, err
	}
	now := time.Now()
	stored := *p
	stored.ID = uuid.NewString()
	stored.CreatedAt, stored.LastUpdated = now, now
	stored.Classify()
	s.products[stored.ID] = &stored
	cp := stored
	return &cp, nil
}

func (s *ProductStore) Update(_ context.Context, id string, req *model.UpdateProductRequest) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	p, ok := s.products[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	next := *p
	if req.Name != nil {
		next.Name = *req.Name
	}
	if req.SKU != nil {
		next.SKU = *req.SKU
	}
	if req.Quantity != nil {
		next.Quantity = *req.Quantity
	}
	if req.MinQuantity != nil {
		next.MinQuantity = *req.MinQuantity
	}
	if req.Category != nil {
		next.Category = *req.Category
	}
	if err := s.check(id, next.SKU, next.Quantity, next.MinQuantity); err != nil {
		return nil, err
	}
	next.LastUpdated = time.Now()
	next.Classify()
	s.products[id] = &next
	cp := next
	return &cp, nil
}

func (s *ProductStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.products[id]; !ok {
		return model.ErrNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *ProductStore) Summary(_ context.Context) (*model.StockSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var sum model.StockSummary
	for _, p := range s.products {
		sum.TotalProducts++
		sum.TotalItems += p.Quantity
		if p.IsLowStock() {
			sum.LowStock++
		}
		if p.Quantity == 0 {
			sum.OutOfStock++
		}
	}
	return &sum, nil
}

func (s *ProductStore) FindLowStock(ctx context.Context) ([]model.Product, error) {
	all, err := s.FindAll(ctx, "")
	if err != nil {
		return nil, err
	}
	out := []model.Product{}
	for _, p := range all {
		if p.IsLowStock() {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Quantity < out[j].Quantity })
	return out, nil
}

// check mirrors the products table constraints.
func (s *ProductStore) check(id, sku string, quantity, minQuantity int) error {
	if quantity < 0 {
		return fmt.Errorf("%w: quantity must not be negative", model.ErrValidation)
	}
	if minQuantity < 0 {
		return fmt.Errorf("%w: minQuantity must not be negative", model.ErrValidation)
	}
	if quantity > model.MaxQuantity || minQuantity > model.MaxQuantity {
		return fmt.Errorf("%w: value out of range", model.ErrValidation)
	}
	for _, p := range s.products {
		if p.ID != id && p.SKU == sku {
			return fmt.Errorf("%w: sku already exists", model.ErrConflict)
		}
	}
	return nil
}

type ReportStore struct {
	mu      sync.Mutex
	reports []model.StockReport
}

// NewReportStore creates a new in-memory report store
func NewReportStore() *ReportStore {
	return &ReportStore{}
}

func (s *ReportStore) Create(_ context.Context, summary *model.StockSummary, triggeredBy string) (*model.StockReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := model.StockReport{
		ID:            uuid.NewString(),
		TotalProducts: summary.TotalProducts,
		TotalItems:    summary.TotalItems,
		LowStock:      summary.LowStock,
		OutOfStock:    summary.OutOfStock,
		TriggeredBy:   triggeredBy,
		CreatedAt:     time.Now(),
	}
	s.reports = append(s.reports, r)
	return &r, nil
}

func (s *ReportStore) MarkNotified(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.reports {
		if s.reports[i].ID == id {
			s.reports[i].Notified = true
			return nil
		}
	}
	return model.ErrNotFound
}

func (s *ReportStore) FindRecent(_ context.Context, limit int) ([]model.StockReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.StockReport{}
	for i := len(s.reports) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.reports[i])
	}
	return out, nil
}

func (s *ReportStore) DeleteOld(_ context.Context, olderThan time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.reports[:0]
	var n int64
	for _, r := range s.reports {
		if r.CreatedAt.Before(olderThan) {
			n++
			continue
		}
		kept = append(kept, r)
	}
	s.reports = kept
	return n, nil
}

// Add appends a report as-is, for seeding history in tests.
func (s *ReportStore) Add(r model.StockReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, r)
}
