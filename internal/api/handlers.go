package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/estoquehub/internal/middleware"
	"github.com/estoquehub/internal/model"
	"github.com/estoquehub/internal/service"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

// Error codes returned in the "code" field of error bodies.
const (
	ErrCodeInvalidRequest     = "invalid_request"
	ErrCodeUnauthorized       = "unauthorized"
	ErrCodeInvalidCredentials = "invalid_credentials"
	ErrCodeConflict           = "conflict"
	ErrCodeNotFound           = "not_found"
	ErrCodeInternal           = "internal_error"
)

// Pinger reports database reachability for the health check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ReportSchedule exposes when the next stock report is due.
type ReportSchedule interface {
	NextRun() *time.Time
}

// Handler contains all API handlers
type Handler struct {
	auth     *service.AuthService
	products *service.ProductService
	reports  *service.ReportService
	db       Pinger
	schedule ReportSchedule
	log      zerolog.Logger
}

// NewHandler creates a new handler. schedule may be nil.
func NewHandler(
	auth *service.AuthService,
	products *service.ProductService,
	reports *service.ReportService,
	db Pinger,
	schedule ReportSchedule,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		auth:     auth,
		products: products,
		reports:  reports,
		db:       db,
		schedule: schedule,
		log:      log,
	}
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// writeServiceError maps the model error taxonomy onto HTTP. Details of
// unexpected errors are logged, never returned.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, ErrCodeInvalidCredentials, "invalid credentials")
	case errors.Is(err, model.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "unauthorized")
	case errors.Is(err, model.ErrValidation):
		respondError(w, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
	case errors.Is(err, model.ErrConflict):
		respondError(w, http.StatusConflict, ErrCodeConflict, err.Error())
	case errors.Is(err, model.ErrNotFound):
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "not found")
	default:
		h.log.Error().
			Err(err).
			Str("request_id", middleware.GetRequestID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "internal server error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")
		return false
	}
	return true
}

// Auth handlers

// Register godoc
// @Summary Register a new user
// @Description Create a user account and return a bearer token valid for 8 hours
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body model.RegisterRequest true "Registration details"
// @Success 201 {object} model.LoginResponse
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 409 {object} ErrorResponse "Email already registered"
// @Failure 429 {object} ErrorResponse "Too many requests"
// @Failure 500 {object} ErrorResponse "Server error"
// @Router /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.auth.Register(r.Context(), &req)
	middleware.RecordAuthAttempt("register", err == nil)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, resp)
}

// Login godoc
// @Summary User login
// @Description Authenticate user and return JWT token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Login credentials"
// @Success 200 {object} model.LoginResponse
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 401 {object} ErrorResponse "Invalid credentials"
// @Failure 429 {object} ErrorResponse "Too many requests"
// @Failure 500 {object} ErrorResponse "Server error"
// @Router /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.auth.Login(r.Context(), &req)
	middleware.RecordAuthAttempt("login", err == nil)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// GetProfile godoc
// @Summary Get user profile
// @Description Get the authenticated user's profile
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "User not found"
// @Router /auth/profile [get]
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "unauthorized")
		return
	}

	user, err := h.auth.Profile(r.Context(), claims.UserID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

type HealthResponse struct {
	Status     string `json:"status"`
	Database   string `json:"database"`
	Time       string `json:"time"`
	NextReport string `json:"nextReport,omitempty"`
}

// Health godoc
// @Summary Health check
// @Description Report service and database status and when the next stock report runs
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{Status: "ok", Database: "up", Time: time.Now().UTC().Format(time.RFC3339)}
	status := http.StatusOK
	if err := h.db.Ping(ctx); err != nil {
		h.log.Warn().Err(err).Msg("health check: database unreachable")
		resp.Status, resp.Database = "degraded", "down"
		status = http.StatusServiceUnavailable
	}
	if h.schedule != nil {
		if next := h.schedule.NextRun(); next != nil {
			resp.NextReport = next.UTC().Format(time.RFC3339)
		}
	}

	respondJSON(w, status, resp)
}
