// Package client is the HTTP SDK and session storage used by the
// estoquehub terminal client.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/estoquehub/internal/model"
)

const DefaultTimeout = 15 * time.Second

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return e.Message
}

type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// New creates a new API client for baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register creates an account and returns its token
func (c *Client) Register(ctx context.Context, req *model.RegisterRequest) (*model.LoginResponse, error) {
	var out model.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for a token
func (c *Client) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	var out model.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Profile returns the signed-in user
func (c *Client) Profile(ctx context.Context, s *Session) (*model.User, error) {
	var out model.User
	if err := c.do(ctx, http.MethodGet, "/auth/profile", s, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListProducts returns every product, or those whose name or sku matches search.
func (c *Client) ListProducts(ctx context.Context, s *Session, search string) ([]model.Product, error) {
	path := "/products"
	if search != "" {
		path += "?search=" + url.QueryEscape(search)
	}
	var out []model.Product
	if err := c.do(ctx, http.MethodGet, path, s, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProduct fetches one product
func (c *Client) GetProduct(ctx context.Context, s *Session, id string) (*model.Product, error) {
	var out model.Product
	if err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(id), s, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateProduct creates a product
func (c *Client) CreateProduct(ctx context.Context, s *Session, req *model.CreateProductRequest) (*model.Product, error) {
	var out model.Product
	if err := c.do(ctx, http.MethodPost, "/products", s, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProduct changes a product
func (c *Client) UpdateProduct(ctx context.Context, s *Session, id string, req *model.UpdateProductRequest) (*model.Product, error) {
	var out model.Product
	if err := c.do(ctx, http.MethodPut, "/products/"+url.PathEscape(id), s, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteProduct removes a product
func (c *Client) DeleteProduct(ctx context.Context, s *Session, id string) error {
	return c.do(ctx, http.MethodDelete, "/products/"+url.PathEscape(id), s, nil, nil)
}

// Summary returns the stock totals
func (c *Client) Summary(ctx context.Context, s *Session) (*model.StockSummary, error) {
	var out model.StockSummary
	if err := c.do(ctx, http.MethodGet, "/reports/summary", s, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LowStock returns products at or below their minimum
func (c *Client) LowStock(ctx context.Context, s *Session) ([]model.Product, error) {
	var out []model.Product
	if err := c.do(ctx, http.MethodGet, "/reports/low-stock", s, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Export returns the raw export document as served.
func (c *Client) Export(ctx context.Context, s *Session) ([]byte, error) {
	resp, err := c.send(ctx, http.MethodGet, "/products/export", s, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

// History lists recent stock reports; limit <= 0 uses the server default.
func (c *Client) History(ctx context.Context, s *Session, limit int) ([]model.StockReport, error) {
	path := "/reports/history"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var out []model.StockReport
	if err := c.do(ctx, http.MethodGet, path, s, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RunReport records a stock report now
func (c *Client) RunReport(ctx context.Context, s *Session) (*model.StockReport, error) {
	var out model.StockReport
	if err := c.do(ctx, http.MethodPost, "/reports/run", s, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, s *Session, in, out interface{}) error {
	resp, err := c.send(ctx, method, path, s, in)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// send performs the request and turns non-2xx responses into *APIError.
// On success the caller owns resp.Body.
func (c *Client) send(ctx context.Context, method, path string, s *Session, in interface{}) (*http.Response, error) {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s != nil {
		req.Header.Set("Authorization", s.AuthHeader())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		apiErr := &APIError{Status: resp.StatusCode}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		_ = json.Unmarshal(data, apiErr)
		return nil, apiErr
	}
	return resp, nil
}
