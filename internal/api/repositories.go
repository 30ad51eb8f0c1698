package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github-app-ingestor/internal/auth"
	"github-app-ingestor/internal/database"
	custom_errors "github-app-ingestor/internal/errors"
	"github-app-ingestor/internal/model"
)

type ingestResponse struct {
	Status     string            `json:"status"`
	Repository *model.Repository `json:"repository,omitempty"`
	Result     json.RawMessage   `json:"result,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// getRepository returns one of the caller's repositories with its ingestion state.
// GET /v1/repositories/{id}
func (h *Handler) getRepository(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserFromContext(r.Context())
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Repository not found")
		return
	}

	row, err := h.db.GetRepositoryForOwner(r.Context(), database.GetRepositoryForOwnerParams{ID: id, OwnerUserID: userID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondWithError(w, http.StatusNotFound, "Repository not found")
			return
		}
		h.logger.Error("Failed to get repository", "error", err, "repo_id", id)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, row.Repository.ToModel())
}

// triggerIngestion runs an ingestion of the repository and waits for its outcome.
// POST /v1/repositories/{id}/ingest
func (h *Handler) triggerIngestion(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserFromContext(r.Context())
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Repository not found")
		return
	}

	outcome, err := h.ingestor.Ingest(r.Context(), userID, id)

	var failed *custom_errors.ErrIngestionFailed
	switch {
	case err == nil:
		respondWithJSON(w, http.StatusOK, ingestResponse{
			Status:     string(outcome.Repository.IngestionStatus),
			Repository: &outcome.Repository,
			Result:     outcome.Result,
		})
	case errors.As(err, &failed):
		respondWithJSON(w, http.StatusBadGateway, ingestResponse{
			Status:     string(model.IngestionFailed),
			Repository: &outcome.Repository,
			Error:      failed.Message,
		})
	case errors.Is(err, custom_errors.ErrIngestionInProgress):
		respondWithError(w, http.StatusConflict, "Ingestion already in progress")
	case errors.Is(err, custom_errors.ErrRepositoryNotFound):
		respondWithError(w, http.StatusNotFound, "Repository not found")
	default:
		h.logger.Error("Failed to run ingestion", "error", err, "repo_id", id)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
