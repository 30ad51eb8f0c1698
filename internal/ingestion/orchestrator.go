// internal/ingestion/orchestrator.go
package ingestion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github-app-ingestor/internal/database"
	custom_errors "github-app-ingestor/internal/errors"
	"github-app-ingestor/internal/model"
)

// outcomeWriteTimeout bounds the store write that records an ingestion result.
const outcomeWriteTimeout = 30 * time.Second

// Outcome is the final state of one ingestion request.
type Outcome struct {
	Repository model.Repository
	Result     json.RawMessage
}

// Orchestrator drives a repository through not_started/completed/failed -> processing ->
// completed/failed, calling the ingestion service in between.
type Orchestrator struct {
	store         database.Store
	service       Service
	timeout       time.Duration
	sourceBaseURL string
	logger        *slog.Logger
}

// NewOrchestrator creates an Orchestrator. timeout bounds each service call and
// sourceBaseURL is the web root clone URLs are built from (e.g. https://github.com).
func NewOrchestrator(store database.Store, service Service, timeout time.Duration, sourceBaseURL string, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		store:         store,
		service:       service,
		timeout:       timeout,
		sourceBaseURL: strings.TrimSuffix(sourceBaseURL, "/"),
		logger:        logger,
	}
}

// Timeout returns the bound applied to each service call.
func (o *Orchestrator) Timeout() time.Duration {
	return o.timeout
}

// Ingest runs one ingestion of the repository for its owner and waits for the outcome.
// It returns ErrRepositoryNotFound if userID does not own the repository and
// ErrIngestionInProgress if another ingestion is in flight. A service failure or timeout
// is recorded on the repository and returned as *ErrIngestionFailed along with the
// failed repository.
func (o *Orchestrator) Ingest(ctx context.Context, userID string, repoID uuid.UUID) (Outcome, error) {
	logger := o.logger.With("repo_id", repoID)

	row, err := o.store.GetRepositoryForOwner(ctx, database.GetRepositoryForOwnerParams{ID: repoID, OwnerUserID: userID})
	if errors.Is(err, pgx.ErrNoRows) {
		return Outcome{}, custom_errors.ErrRepositoryNotFound
	} else if err != nil {
		return Outcome{}, err
	}
	logger = logger.With("repo", row.Repository.FullName, "installation_id", row.ExternalInstallationID)

	started, err := o.store.StartRepositoryIngestion(ctx, repoID)
	if errors.Is(err, pgx.ErrNoRows) {
		logger.Info("Ingestion rejected, another one is in flight")
		return Outcome{}, custom_errors.ErrIngestionInProgress
	} else if err != nil {
		return Outcome{}, err
	}
	logger.Info("Ingestion started", "previous_status", row.Repository.IngestionStatus)

	// The call outlives the caller's cancellation; only the timeout ends it.
	detached := context.WithoutCancel(ctx)
	result, callErr := o.callService(detached, Request{
		RepositoryID:   started.ID,
		FullName:       started.FullName,
		CloneURL:       o.sourceBaseURL + "/" + started.FullName + ".git",
		InstallationID: row.ExternalInstallationID,
	})

	writeCtx, cancel := context.WithTimeout(detached, outcomeWriteTimeout)
	defer cancel()

	if callErr == nil {
		completed, err := o.store.CompleteRepositoryIngestion(writeCtx, repoID)
		if err != nil {
			return Outcome{}, o.outcomeWriteError(logger, repoID, err)
		}
		logger.Info("Ingestion completed")
		return Outcome{Repository: completed.ToModel(), Result: result}, nil
	}

	message := callErr.Error()
	var failed *custom_errors.ErrIngestionFailed
	if errors.As(callErr, &failed) {
		message = failed.Message
	}
	logger.Warn("Ingestion failed", "error", message)

	failedRow, err := o.store.FailRepositoryIngestion(writeCtx, database.FailRepositoryIngestionParams{
		ID:             repoID,
		IngestionError: message,
	})
	if err != nil {
		return Outcome{}, o.outcomeWriteError(logger, repoID, err)
	}
	return Outcome{Repository: failedRow.ToModel()}, &custom_errors.ErrIngestionFailed{Message: message}
}

// callService invokes the service under the timeout. Timeouts and panics come back as
// *ErrIngestionFailed so every path ends in a recorded outcome.
func (o *Orchestrator) callService(ctx context.Context, req Request) (result json.RawMessage, err error) {
	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &custom_errors.ErrIngestionFailed{Message: fmt.Sprintf("ingestion client panicked: %v", r)}
		}
	}()

	result, err = o.service.Ingest(callCtx, req)
	if err != nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return nil, &custom_errors.ErrIngestionFailed{Message: fmt.Sprintf("ingestion timed out after %s", o.timeout)}
	}
	return result, err
}

func (o *Orchestrator) outcomeWriteError(logger *slog.Logger, repoID uuid.UUID, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		logger.Warn("Repository left processing before the outcome was recorded")
		return fmt.Errorf("recording ingestion outcome: repository %s is no longer processing", repoID)
	}
	logger.Error("Failed to record ingestion outcome", "error", err)
	return fmt.Errorf("recording ingestion outcome: %w", err)
}
