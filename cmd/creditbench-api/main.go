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

	"github.com/creditbench/creditbench/internal/api"
	"github.com/creditbench/creditbench/internal/auth"
	"github.com/creditbench/creditbench/internal/config"
	"github.com/creditbench/creditbench/internal/llm"
	"github.com/creditbench/creditbench/internal/observability"
	"github.com/creditbench/creditbench/internal/qa"
	"github.com/creditbench/creditbench/internal/schema"
	"github.com/creditbench/creditbench/internal/store"
	duckdbstore "github.com/creditbench/creditbench/internal/store/duckdb"
	pgstore "github.com/creditbench/creditbench/internal/store/postgres"
)

func main() {
	cfg, err := config.LoadFromEnv("creditbench-api")
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg, os.Stdout)

	var querier store.Querier
	var companies store.CompanyDirectory
	var healthCheck api.ReadinessCheck
	switch cfg.Dataset.Backend {
	case config.DatasetBackendPostgres:
		db, err := pgstore.Open(context.Background(), pgstore.DBConfig{
			DSN:             cfg.Dataset.DSN,
			MaxOpenConns:    cfg.Dataset.MaxOpenConns,
			MaxIdleConns:    cfg.Dataset.MaxIdleConns,
			ConnMaxIdleTime: cfg.Dataset.ConnMaxIdleTime,
			ConnMaxLifetime: cfg.Dataset.ConnMaxLifetime,
		})
		if err != nil {
			logger.Error("failed to open dataset db", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() { _ = db.Close() }()
		pg := pgstore.NewStore(db)
		querier, companies, healthCheck = pg, pg, pg.HealthCheck
	case config.DatasetBackendDuckDB:
		duck, err := duckdbstore.Open(cfg.Dataset.DuckDBPath)
		if err != nil {
			logger.Error("failed to open duckdb snapshot", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() { _ = duck.Close() }()
		querier, companies, healthCheck = duck, duck, duck.HealthCheck
	default:
		logger.Error("unknown dataset backend", slog.String("backend", cfg.Dataset.Backend))
		os.Exit(1)
	}

	var completer llm.Completer
	if cfg.QA.APIKey != "" {
		completer, err = llm.New(llm.Config{
			Provider:  cfg.QA.Provider,
			BaseURL:   cfg.QA.BaseURL,
			APIKey:    cfg.QA.APIKey,
			Model:     cfg.QA.Model,
			MaxTokens: cfg.QA.MaxTokens,
			Timeout:   cfg.QA.Timeout,
		})
		if err != nil {
			logger.Error("failed to initialize language model client", slog.Any("error", err))
			os.Exit(1)
		}
	} else {
		logger.Warn("no language model api key configured; ask endpoints will be unavailable")
	}

	qaService, err := qa.NewService(qa.Options{
		Store:         querier,
		Completer:     completer,
		Companies:     companies,
		Logger:        logger,
		DefaultLimit:  cfg.QA.DefaultLimit,
		MaxFormatRows: cfg.QA.MaxFormatRows,
		MaxTokens:     cfg.QA.MaxTokens,
		QueryTimeout:  cfg.QA.QueryTimeout,
	})
	if err != nil {
		logger.Error("failed to initialize qa service", slog.Any("error", err))
		os.Exit(1)
	}

	deps := api.Dependencies{
		Logger: logger,
		QA:     qaService,
		Schema: schema.Default(),
		Readiness: api.CombineReadinessChecks(
			healthCheck,
			api.CheckDatasetConfig(cfg),
		),
		DependencyTimeout: time.Second,
	}
	if cfg.Auth.Required {
		validator, err := auth.NewStaticAPIKeyValidator(cfg.Auth.StaticKeys)
		if err != nil {
			logger.Error("failed to parse static auth keys", slog.Any("error", err))
			os.Exit(1)
		}
		deps.AuthMiddleware = auth.Middleware(logger, validator)
	}

	handler := api.NewHandler(cfg, deps)
	server := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting api server", slog.String("addr", cfg.HTTP.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down api server")
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
		_ = server.Close()
		os.Exit(1)
	}
}
