package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/cache"
	"github.com/BruksfildServices01/barber-booking/internal/config"
	dbpkg "github.com/BruksfildServices01/barber-booking/internal/db"
	"github.com/BruksfildServices01/barber-booking/internal/identity"
	"github.com/BruksfildServices01/barber-booking/internal/logger"
	"github.com/BruksfildServices01/barber-booking/internal/notification"
	"github.com/BruksfildServices01/barber-booking/internal/observability/tracing"
	"github.com/BruksfildServices01/barber-booking/internal/routes"
	"github.com/BruksfildServices01/barber-booking/internal/storage"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
	"github.com/BruksfildServices01/barber-booking/internal/usecase/account"
	"github.com/BruksfildServices01/barber-booking/internal/validators"
)

const serviceName = "barber-booking"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	ctx := context.Background()

	shutdownTracing, err := tracing.Init(ctx, zl, cfg.OTLPEndpoint, serviceName, cfg.Env)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			zl.Warn("tracing shutdown failed", zap.Error(err))
		}
	}()

	if !timezone.IsValid(cfg.Timezone) {
		zl.Warn("invalid TIMEZONE, using default", zap.String("timezone", cfg.Timezone))
		cfg.Timezone = timezone.DefaultTimezone
	}

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		return err
	}
	if err := identity.Migrate(db); err != nil {
		return err
	}

	// ======================================================
	// CACHE
	// ======================================================
	var c cache.Cache = cache.NewMemory()
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rc.Close()
		c = rc
		zl.Info("using redis cache")
	}

	// ======================================================
	// COLLABORATORS
	// ======================================================
	idp := identity.NewLocalProvider(
		db,
		cfg.JWTSecret,
		time.Duration(cfg.JWTExpirationMinutes)*time.Minute,
		c,
		time.Minute,
	)

	var store storage.ObjectStore
	if cfg.S3.Enabled() {
		store = storage.NewS3(cfg.S3)
	} else {
		zl.Info("photo storage disabled: S3 not configured")
	}

	auditLogs := audit.New(db)
	dispatcher := audit.NewDispatcher(auditLogs, zl)
	// Handlers cut off by a shutdown timeout may still dispatch; the closed
	// dispatcher drops those events.
	defer dispatcher.Close()

	if cfg.SeedAdmin() {
		created, err := account.New(db, idp, dispatcher, nil).EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			return err
		}
		zl.Info("admin account ensured", zap.String("email", cfg.AdminEmail), zap.Bool("created", created))
	}

	notifier := notification.NewBookingNotifier(
		notification.NewGateway(cfg.SMTP, zl),
		zl,
		cfg.FrontendHost,
		cfg.NotifyTimeout,
	)

	if err := validators.Register(); err != nil {
		return err
	}

	// ======================================================
	// HTTP
	// ======================================================
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, routes.Dependencies{
		DB:        db,
		Config:    cfg,
		Log:       zl,
		Identity:  idp,
		Cache:     c,
		Store:     store,
		Audit:     dispatcher,
		AuditLogs: auditLogs,
		Notifier:  notifier,
		Clock:     timezone.NewClock(cfg.Timezone),
	})

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           otelhttp.NewHandler(r, serviceName),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zl.Info("server starting", zap.String("addr", cfg.Addr()), zap.String("env", cfg.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		zl.Info("shutdown signal received", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	zl.Info("server stopped")
	return nil
}
