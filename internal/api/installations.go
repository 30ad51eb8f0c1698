package api

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github-app-ingestor/internal/auth"
	"github-app-ingestor/internal/database"
	custom_errors "github-app-ingestor/internal/errors"
	"github-app-ingestor/internal/model"
)

// setupCallback links the installation GitHub redirected the user back with to their account.
// GET /github/setup?installation_id=&setup_action=
func (h *Handler) setupCallback(w http.ResponseWriter, r *http.Request) {
	userID, err := h.sessions.UserFromRequest(r)
	if err != nil {
		redirectWithQuery(w, r, h.loginURL, url.Values{"next": {r.URL.RequestURI()}})
		return
	}

	query := r.URL.Query()
	externalID, err := parseInstallationID(query.Get("installation_id"))
	if err != nil {
		h.logger.Warn("Setup callback without a usable installation id", "error", err, "user_id", userID)
		redirectWithQuery(w, r, h.dashboardURL, url.Values{"error": {"missing_installation"}})
		return
	}
	setupAction := query.Get("setup_action")

	if _, err := h.reconciler.ReconcileFromCallback(r.Context(), userID, externalID); err != nil {
		h.logger.Error("Failed to reconcile installation from setup callback", "error", err, "installation_id", externalID, "user_id", userID)
		redirectWithQuery(w, r, h.dashboardURL, url.Values{"error": {"installation_failed"}})
		return
	}

	h.logger.Info("Installation linked from setup callback", "installation_id", externalID, "user_id", userID, "setup_action", setupAction)
	redirectWithQuery(w, r, h.dashboardURL, url.Values{
		"installation_id": {strconv.FormatInt(externalID, 10)},
		"setup_action":    {setupAction},
	})
}

// listInstallations returns the caller's installations, their repositories and status counts.
// GET /v1/installations
func (h *Handler) listInstallations(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserFromContext(r.Context())
	owner := database.Text(userID)

	installs, err := h.db.ListInstallationsByOwner(r.Context(), owner)
	if err != nil {
		h.logger.Error("Failed to list installations", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	repos, err := h.db.ListRepositoriesByOwner(r.Context(), owner)
	if err != nil {
		h.logger.Error("Failed to list repositories", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	models := make([]model.Installation, len(installs))
	for i, inst := range installs {
		models[i] = inst.ToModel()
	}
	respondWithJSON(w, http.StatusOK, model.BuildUserListing(models, database.RepositoriesToModel(repos)))
}

// resyncInstallation re-reads the installation's repository selection from GitHub.
// POST /v1/installations/{id}/resync
func (h *Handler) resyncInstallation(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserFromContext(r.Context())
	externalID, err := parseInstallationID(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	inst, err := h.db.GetInstallationByExternalID(r.Context(), externalID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondWithError(w, http.StatusNotFound, "Installation not found")
			return
		}
		h.logger.Error("Failed to get installation", "error", err, "installation_id", externalID)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !inst.OwnerUserID.Valid || inst.OwnerUserID.String != userID {
		respondWithError(w, http.StatusNotFound, "Installation not found")
		return
	}

	result, err := h.syncer.Resync(r.Context(), externalID)
	if err != nil {
		if errors.Is(err, custom_errors.ErrAppNotConfigured) {
			respondWithError(w, http.StatusServiceUnavailable, "GitHub App credentials are not configured")
			return
		}
		h.logger.Error("Failed to resync installation", "error", err, "installation_id", externalID)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

func parseInstallationID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, &custom_errors.ErrInvalidInstallationID{Value: raw}
	}
	return id, nil
}
