package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github-app-ingestor/internal/api"
	"github-app-ingestor/internal/auth"
	"github-app-ingestor/internal/config"
	"github-app-ingestor/internal/database"
	"github-app-ingestor/internal/github"
	"github-app-ingestor/internal/ingestion"
	"github-app-ingestor/internal/reaper"
	"github-app-ingestor/internal/reconciler"
	"github-app-ingestor/internal/syncer"
)

const (
	readHeaderTimeout = 10 * time.Second
	// shutdownSlack is added to the ingestion timeout so in-flight ingestions can record their outcome.
	shutdownSlack = 30 * time.Second
)

func newServeCommand(logger *slog.Logger, logLevel *slog.LevelVar) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service and the stale ingestion reaper",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), logger, logLevel)
		},
	}
}

func runServe(ctx context.Context, logger *slog.Logger, logLevel *slog.LevelVar) error {
	// 1. Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	setLogLevel(cfg.LogLevel, logLevel)
	logger.Info("Configuration loaded successfully")

	// 2. Initialize database connection and run migrations
	dbpool, err := pgxpool.New(ctx, cfg.DBURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer dbpool.Close()
	logger.Info("Database connection established")

	if err := migrateUp(cfg.MigrationsPath, cfg.DBURL); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}
	logger.Info("Database migrations applied successfully")

	// 3. Initialize application components
	store := database.NewStore(dbpool)

	var lister syncer.RepositoryLister
	if cfg.AppConfigured() {
		keyPEM, err := os.ReadFile(cfg.GithubAppPrivateKeyPath)
		if err != nil {
			return fmt.Errorf("failed to read GitHub App private key: %w", err)
		}
		ghClient, err := github.NewClient(cfg.GithubAppID, keyPEM, cfg.GithubAPIURL, logger)
		if err != nil {
			return fmt.Errorf("failed to create GitHub client: %w", err)
		}
		lister = ghClient
	} else {
		logger.Warn("GitHub App credentials not configured, installation resync is disabled")
	}

	appReconciler := reconciler.New(store, logger)
	appSyncer := syncer.NewSyncer(store, lister, logger)
	orchestrator := ingestion.NewOrchestrator(
		store,
		ingestion.NewHTTPService(cfg.IngestionServiceURL, logger),
		cfg.IngestionTimeout,
		cfg.GithubWebURL,
		logger,
	)
	appReaper := reaper.NewReaper(store, logger, cfg.ReaperInterval, cfg.IngestionTimeout, cfg.ReaperGrace, cfg.DeliveryRetention)

	router := api.NewRouter(api.Dependencies{
		DB:            store,
		Reconciler:    appReconciler,
		Syncer:        appSyncer,
		Ingestor:      orchestrator,
		Sessions:      auth.NewVerifier(cfg.SessionSecret),
		WebhookSecret: cfg.GithubWebhookSecret,
		LoginURL:      cfg.LoginURL,
		DashboardURL:  cfg.DashboardURL,
	}, logger)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// 4. Run the server and the reaper until shutdown
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		appReaper.Start(gCtx)
		return nil
	})
	g.Go(func() error {
		logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutdown signal received, draining requests")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.IngestionTimeout+shutdownSlack)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Service stopped")
	return nil
}
