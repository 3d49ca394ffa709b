package api

import (
	"net/http"

	"github.com/estoquehub/internal/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
)

type RouterConfig struct {
	Log            zerolog.Logger
	AllowedOrigins []string
	IsDevelopment  bool
	// AuthRateLimit wraps the public /auth routes; nil disables.
	AuthRateLimit func(http.Handler) http.Handler
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(h *Handler, auth *middleware.AuthMiddleware, cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	// Swagger documentation
	mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /health", h.Health)

	// Public routes
	limit := cfg.AuthRateLimit
	if limit == nil {
		limit = func(next http.Handler) http.Handler { return next }
	}
	mux.Handle("POST /auth/register", limit(http.HandlerFunc(h.Register)))
	mux.Handle("POST /auth/login", limit(http.HandlerFunc(h.Login)))

	protected := func(fn http.HandlerFunc) http.Handler {
		return auth.Authenticate(fn)
	}

	mux.Handle("GET /auth/profile", protected(h.GetProfile))

	mux.Handle("GET /products", protected(h.ListProducts))
	mux.Handle("POST /products", protected(h.CreateProduct))
	mux.Handle("GET /products/export", protected(h.ExportProducts))
	mux.Handle("GET /products/{id}", protected(h.GetProduct))
	mux.Handle("PUT /products/{id}", protected(h.UpdateProduct))
	mux.Handle("DELETE /products/{id}", protected(h.DeleteProduct))

	mux.Handle("GET /reports/summary", protected(h.GetSummary))
	mux.Handle("GET /reports/low-stock", protected(h.GetLowStock))
	mux.Handle("GET /reports/history", protected(h.GetReportHistory))
	mux.Handle("POST /reports/run", protected(h.RunReport))

	// Apply global middleware; the last wrap runs first. Metrics sits
	// directly on the mux to read the matched pattern.
	handler := middleware.Metrics(mux)
	handler = middleware.CORS(cfg.AllowedOrigins)(handler)
	handler = middleware.Secure(cfg.IsDevelopment)(handler)
	handler = middleware.Logger(cfg.Log)(handler)
	handler = middleware.Recoverer(cfg.Log)(handler)
	handler = middleware.RequestID(handler)

	return handler
}
