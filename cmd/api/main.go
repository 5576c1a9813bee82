// Copyright (c) 2026 Pet Clinic Backend contributors. All rights reserved.

// Command api is the entry point for the Pet Clinic HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dramacsoport/petclinic-backend/internal/api"
	"github.com/dramacsoport/petclinic-backend/internal/clinic/pet"
	"github.com/dramacsoport/petclinic-backend/internal/notify"
	"github.com/dramacsoport/petclinic-backend/internal/platform/config"
	"github.com/dramacsoport/petclinic-backend/internal/platform/constants"
	"github.com/dramacsoport/petclinic-backend/internal/platform/migration"
	pgstore "github.com/dramacsoport/petclinic-backend/internal/platform/postgres"
	redisstore "github.com/dramacsoport/petclinic-backend/internal/platform/redis"
	"github.com/dramacsoport/petclinic-backend/internal/platform/sec"
	"github.com/dramacsoport/petclinic-backend/internal/users/account"
	"github.com/dramacsoport/petclinic-backend/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "petclinic"))
	slog.SetDefault(log)

	log.Info("[PetClinic] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "petclinic"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// Long-lived context for background middleware workers. Cancelled once
	// the server has shut down.
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Token Service ──────────────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTSecret, constants.AuthIssuer, cfg.JWTTTL)
	must(log, err, "initialize jwt service")

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	var mailer auth.Mailer
	if cfg.MailEnabled() {
		mailer = notify.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.ClinicEmail)
	} else {
		log.Warn("smtp_not_configured_mail_logged_only")
		mailer = notify.NewLogMailer(log)
	}

	accountRepository := auth.NewAccountRepository(pool)
	loginLimiter := auth.NewLoginLimiter(rdb)
	petRepository := pet.NewPostgresRepository(pool)

	authService := auth.NewService(accountRepository, loginLimiter, jwtSvc, mailer, log)
	authHandler := auth.NewHandler(authService)

	profileRepository := account.NewAccountRepository(pool)
	accountService := account.NewService(profileRepository, petRepository, log)
	accountHandler := account.NewHandler(accountService)

	petService := pet.NewService(petRepository, accountRepository, log)
	petHandler := pet.NewHandler(petService)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
		Account:   accountHandler,
		Pet:       petHandler,
	}

	server := api.NewServer(appCtx, cfg, log, jwtSvc, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
