package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/estoquehub/internal/api"
	"github.com/estoquehub/internal/config"
	"github.com/estoquehub/internal/logging"
	"github.com/estoquehub/internal/middleware"
	"github.com/estoquehub/internal/notifier"
	"github.com/estoquehub/internal/scheduler"
	"github.com/estoquehub/internal/service"
	"github.com/estoquehub/internal/storage"

	_ "github.com/estoquehub/docs" // swagger docs
)

// @title EstoqueHub API
// @version 1.0
// @description Inventory management API: bearer-token authentication, product CRUD with stock status, stock reports.

// @contact.name API Support
// @contact.email support@example.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:10000
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter your JWT token with the `Bearer ` prefix, e.g. "Bearer eyJhbGci..."

func main() {
	cfg := config.Load()
	log := logging.New(cfg.Log.Level, cfg.Log.Pretty)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Str("env", cfg.Env).Msg("invalid configuration")
	}

	log.Info().Msg("connecting to database")
	db, err := storage.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	log.Info().Msg("running migrations")
	if err := db.RunMigrations(); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	userRepo := storage.NewUserRepository(db)
	productRepo := storage.NewProductRepository(db)
	reportRepo := storage.NewReportRepository(db)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT)

	// A nil *Webhook stored in the interface would not compare equal to nil.
	var alerts service.Notifier
	if cfg.Report.WebhookURL != "" {
		alerts = notifier.NewWebhook(cfg.Report.WebhookURL)
	}

	authService := service.NewAuthService(userRepo, authMiddleware)
	productService := service.NewProductService(productRepo)
	retention := time.Duration(cfg.Report.RetentionDays) * 24 * time.Hour
	reportService := service.NewReportService(productRepo, reportRepo, alerts, retention, log)

	ctx := context.Background()
	if cfg.Seed.Enabled() {
		user, err := authService.Seed(ctx, cfg.Seed.Name, cfg.Seed.Email, cfg.Seed.Password)
		if err != nil {
			log.Warn().Err(err).Msg("failed to seed user")
		} else {
			log.Info().Str("email", user.Email).Msg("seed user ready")
		}
	}

	sched := scheduler.NewScheduler(reportService, cfg.Report.Schedule, log)
	if err := sched.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}

	authLimit, err := middleware.NewIPRateLimiter(cfg.RateLimit.Auth)
	if err != nil {
		log.Fatal().Err(err).Str("rate", cfg.RateLimit.Auth).Msg("invalid auth rate limit")
	}

	handler := api.NewHandler(authService, productService, reportService, db, sched, log)
	router := api.NewRouter(handler, authMiddleware, api.RouterConfig{
		Log:            log,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		IsDevelopment:  cfg.IsDevelopment(),
		AuthRateLimit:  authLimit,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Str("env", cfg.Env).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	log.Info().Msg("server stopped")
}
