package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/webtheme-backend/api/routes"
	"github.com/angelmondragon/webtheme-backend/internal/editor"
	"github.com/angelmondragon/webtheme-backend/internal/theme"
	"github.com/angelmondragon/webtheme-backend/pkg/config"
	"github.com/angelmondragon/webtheme-backend/pkg/db"
	"github.com/angelmondragon/webtheme-backend/pkg/instance"
	"github.com/angelmondragon/webtheme-backend/pkg/logger"
	"github.com/angelmondragon/webtheme-backend/pkg/metrics"
	"github.com/angelmondragon/webtheme-backend/pkg/migrate"
	"github.com/angelmondragon/webtheme-backend/pkg/redis"
	"github.com/angelmondragon/webtheme-backend/pkg/themeapi"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	gateway, err := themeapi.NewClient(cfg.Backend.BaseURL,
		themeapi.WithPolicy(themeapi.Policy{
			MaxAttempts: cfg.Backend.RetryMaxAttempts,
			BaseDelay:   cfg.Backend.RetryBaseDelay,
			Multiplier:  cfg.Backend.RetryMultiplier,
			Retryable:   themeapi.RetryOnRateLimit,
		}),
		themeapi.WithTimeout(cfg.Backend.Timeout),
		themeapi.WithMetrics(metrics.NewGatewayMetrics(registry)),
		themeapi.WithLogger(logg),
	)
	if err != nil {
		logg.Error(ctx, "failed to create settings gateway", err)
		os.Exit(1)
	}

	store, err := editor.NewStore(redisClient, cfg.Editor)
	if err != nil {
		logg.Error(ctx, "failed to create draft store", err)
		os.Exit(1)
	}

	editorService, err := editor.NewService(editor.ServiceParams{
		Gateway: gateway,
		Store:   store,
		Repo:    editor.NewRepository(dbClient.DB()),
		Tx:      dbClient,
		Memo:    theme.NewMemo(cfg.Editor.MemoSize),
		Metrics: metrics.NewEditorMetrics(registry),
		Logger:  logg,
		Config:  cfg.Editor,
	})
	if err != nil {
		logg.Error(ctx, "failed to create editor service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})
	logg.Info(logCtx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, dbClient, redisClient, registry, editorService),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(logCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(logCtx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(logCtx, "graceful shutdown failed", err)
		}
	}
}
