package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/go-github/v62/github"

	"github-app-ingestor/internal/database"
	custom_errors "github-app-ingestor/internal/errors"
	ghclient "github-app-ingestor/internal/github"
)

// maxWebhookBodySize caps webhook payloads. GitHub documents ~25 MB as the largest delivery.
const maxWebhookBodySize = 32 * 1024 * 1024

// githubWebhook verifies and applies one webhook delivery.
// POST /webhooks/github
func (h *Handler) githubWebhook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBodySize)

	// Signature check first; nothing about the payload is trusted before it.
	payload, err := github.ValidatePayload(r, h.webhookSecret)
	if err != nil {
		h.logger.Warn("Webhook verification failed", "error", err, "remote_addr", r.RemoteAddr)
		respondWithError(w, http.StatusUnauthorized, "Invalid webhook signature")
		return
	}

	eventType := github.WebHookType(r)
	deliveryID := github.DeliveryID(r)
	if eventType == "" {
		h.logger.Warn("Webhook without X-GitHub-Event header", "delivery_id", deliveryID)
		respondWithError(w, http.StatusBadRequest, "Missing X-GitHub-Event header")
		return
	}
	logger := h.logger.With("event_type", eventType, "delivery_id", deliveryID)

	if deliveryID != "" {
		seen, err := h.db.WebhookDeliveryExists(r.Context(), deliveryID)
		if err != nil {
			logger.Error("Failed to check webhook delivery", "error", err)
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		if seen {
			logger.Debug("Duplicate webhook delivery, ignoring")
			respondWithJSON(w, http.StatusOK, map[string]string{"status": "duplicate"})
			return
		}
	}

	logger.Info("Webhook received")

	status, err := h.dispatchWebhook(r.Context(), logger, eventType, payload)
	if err != nil {
		var invalidID *custom_errors.ErrInvalidInstallationID
		var invalidRepo *custom_errors.ErrInvalidRepoFormat
		var malformed *custom_errors.ErrMalformedPayload
		if errors.As(err, &invalidID) || errors.As(err, &invalidRepo) || errors.As(err, &malformed) {
			// Redelivering the same payload cannot succeed.
			logger.Warn("Rejected malformed webhook payload", "error", err)
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		logger.Error("Failed to process webhook", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if deliveryID != "" {
		if _, err := h.db.RecordWebhookDelivery(r.Context(), database.RecordWebhookDeliveryParams{
			DeliveryID: deliveryID,
			Event:      eventType,
		}); err != nil {
			// Processing is idempotent, so a lost record only costs a redundant replay.
			logger.Warn("Failed to record webhook delivery", "error", err)
		}
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": status})
}

// dispatchWebhook applies a verified payload and returns the status reported to GitHub.
func (h *Handler) dispatchWebhook(ctx context.Context, logger *slog.Logger, eventType string, payload []byte) (string, error) {
	switch eventType {
	case "installation", "installation_repositories", "ping":
	default:
		logger.Debug("Unhandled webhook event type, ignoring")
		return "ignored", nil
	}

	event, err := github.ParseWebHook(eventType, payload)
	if err != nil {
		return "", &custom_errors.ErrMalformedPayload{Event: eventType, Err: err}
	}

	switch e := event.(type) {
	case *github.InstallationEvent:
		return h.handleInstallationEvent(ctx, logger, e)
	case *github.InstallationRepositoriesEvent:
		return h.handleInstallationRepositoriesEvent(ctx, logger, e)
	default:
		return "ok", nil
	}
}

func (h *Handler) handleInstallationEvent(ctx context.Context, logger *slog.Logger, e *github.InstallationEvent) (string, error) {
	inst := e.GetInstallation()
	externalID := inst.GetID()
	logger = logger.With("installation_id", externalID, "action", e.GetAction())

	switch e.GetAction() {
	case "created":
		if err := h.reconcileMetadata(ctx, inst); err != nil {
			return "", err
		}
		// Additive: an earlier installation_repositories event may already have stored repositories.
		result, err := h.syncer.AddRepositories(ctx, externalID, ghclient.ToRepositoryRefs(e.Repositories))
		if err != nil {
			return "", err
		}
		logger.Info("Installation created", "added", result.Added)
	case "deleted":
		removed, err := h.reconciler.Uninstall(ctx, externalID)
		if err != nil {
			return "", err
		}
		logger.Info("Installation deleted", "was_stored", removed)
	case "suspend", "unsuspend", "new_permissions_accepted":
		if err := h.reconcileMetadata(ctx, inst); err != nil {
			return "", err
		}
		logger.Info("Installation updated")
	default:
		logger.Debug("Unhandled installation action, ignoring")
		return "ignored", nil
	}
	return "ok", nil
}

func (h *Handler) handleInstallationRepositoriesEvent(ctx context.Context, logger *slog.Logger, e *github.InstallationRepositoriesEvent) (string, error) {
	inst := e.GetInstallation()
	externalID := inst.GetID()
	logger = logger.With("installation_id", externalID, "action", e.GetAction())

	switch e.GetAction() {
	case "added":
		if err := h.reconcileMetadata(ctx, inst); err != nil {
			return "", err
		}
		result, err := h.syncer.AddRepositories(ctx, externalID, ghclient.ToRepositoryRefs(e.RepositoriesAdded))
		if err != nil {
			return "", err
		}
		logger.Info("Repositories added", "added", result.Added)
	case "removed":
		refs := ghclient.ToRepositoryRefs(e.RepositoriesRemoved)
		names := make([]string, len(refs))
		for i, ref := range refs {
			names[i] = ref.FullName
		}
		result, err := h.syncer.RemoveRepositories(ctx, externalID, names)
		if err != nil {
			return "", err
		}
		logger.Info("Repositories removed", "removed", result.Removed)
	default:
		logger.Debug("Unhandled installation_repositories action, ignoring")
		return "ignored", nil
	}
	return "ok", nil
}

func (h *Handler) reconcileMetadata(ctx context.Context, inst *github.Installation) error {
	account := inst.GetAccount()
	_, err := h.reconciler.ReconcileFromWebhook(ctx, inst.GetID(), account.GetLogin(), account.GetType(), inst.GetTargetType())
	return err
}
