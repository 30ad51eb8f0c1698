// internal/api/handler.go
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github-app-ingestor/internal/auth"
	"github-app-ingestor/internal/database"
	"github-app-ingestor/internal/ingestion"
	"github-app-ingestor/internal/model"
	"github-app-ingestor/internal/syncer"
)

// requestTimeout bounds every route except the ingestion trigger, which waits on the
// ingestion service and is bounded by the ingestion timeout instead.
const requestTimeout = 60 * time.Second

// InstallationReconciler merges setup callbacks and webhook deliveries into installation records.
type InstallationReconciler interface {
	ReconcileFromCallback(ctx context.Context, userID string, externalID int64) (model.Installation, error)
	ReconcileFromWebhook(ctx context.Context, externalID int64, accountLogin, accountType, targetType string) (model.Installation, error)
	Uninstall(ctx context.Context, externalID int64) (bool, error)
}

// RepositorySynchronizer keeps an installation's stored repositories in line with GitHub.
type RepositorySynchronizer interface {
	AddRepositories(ctx context.Context, externalID int64, repos []model.RepositoryRef) (syncer.Result, error)
	RemoveRepositories(ctx context.Context, externalID int64, fullNames []string) (syncer.Result, error)
	Resync(ctx context.Context, externalID int64) (syncer.Result, error)
}

// IngestionRunner runs one ingestion for a repository owner.
type IngestionRunner interface {
	Ingest(ctx context.Context, userID string, repoID uuid.UUID) (ingestion.Outcome, error)
}

// Dependencies are the components the API routes call into.
type Dependencies struct {
	DB            database.Querier
	Reconciler    InstallationReconciler
	Syncer        RepositorySynchronizer
	Ingestor      IngestionRunner
	Sessions      *auth.Verifier
	WebhookSecret string
	LoginURL      string
	DashboardURL  string
}

// Handler is the container for API dependencies.
type Handler struct {
	db            database.Querier
	reconciler    InstallationReconciler
	syncer        RepositorySynchronizer
	ingestor      IngestionRunner
	sessions      *auth.Verifier
	webhookSecret []byte
	loginURL      string
	dashboardURL  string
	logger        *slog.Logger
}

// NewRouter creates and configures a new chi router with all API routes.
func NewRouter(deps Dependencies, logger *slog.Logger) http.Handler {
	h := &Handler{
		db:            deps.DB,
		reconciler:    deps.Reconciler,
		syncer:        deps.Syncer,
		ingestor:      deps.Ingestor,
		sessions:      deps.Sessions,
		webhookSecret: []byte(deps.WebhookSecret),
		loginURL:      deps.LoginURL,
		dashboardURL:  deps.DashboardURL,
		logger:        logger,
	}

	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger) // Chi's default logger
	r.Use(middleware.Recoverer)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))
		r.Get("/health", h.healthCheck)
		r.Get("/github/setup", h.setupCallback)
		r.Post("/webhooks/github", h.githubWebhook)
	})

	// API Routes
	r.Route("/v1", func(r chi.Router) {
		r.Use(h.sessions.RequireUser)
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(requestTimeout))
			r.Get("/installations", h.listInstallations)
			r.Post("/installations/{id}/resync", h.resyncInstallation)
			r.Get("/repositories/{id}", h.getRepository)
		})
		r.Post("/repositories/{id}/ingest", h.triggerIngestion)
	})

	return r
}

// healthCheck is a simple health endpoint.
func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
