// internal/reconciler/reconciler.go
package reconciler

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github-app-ingestor/internal/database"
	custom_errors "github-app-ingestor/internal/errors"
	"github-app-ingestor/internal/model"
)

// Reconciler merges the setup callback and webhook signals for an installation
// into a single stored row.
type Reconciler struct {
	store  database.Store
	logger *slog.Logger
	newID  func() uuid.UUID
}

// New creates a Reconciler.
func New(store database.Store, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		store:  store,
		logger: logger,
		newID:  uuid.New,
	}
}

// ReconcileFromCallback links the installation to userID. Metadata is left untouched.
func (r *Reconciler) ReconcileFromCallback(ctx context.Context, userID string, externalID int64) (model.Installation, error) {
	if strings.TrimSpace(userID) == "" {
		return model.Installation{}, custom_errors.ErrUnauthenticated
	}
	return r.reconcile(ctx, externalID, model.CallbackPatch(userID), "callback")
}

// ReconcileFromWebhook records installation metadata. The owner is left untouched.
func (r *Reconciler) ReconcileFromWebhook(ctx context.Context, externalID int64, accountLogin, accountType, targetType string) (model.Installation, error) {
	return r.reconcile(ctx, externalID, model.WebhookPatch(accountLogin, accountType, targetType), "webhook")
}

// Uninstall deletes the installation and, by cascade, its repositories.
// It reports whether a row existed.
func (r *Reconciler) Uninstall(ctx context.Context, externalID int64) (bool, error) {
	if externalID <= 0 {
		return false, &custom_errors.ErrInvalidInstallationID{Value: strconv.FormatInt(externalID, 10)}
	}
	n, err := r.store.DeleteInstallationByExternalID(ctx, externalID)
	if err != nil {
		return false, err
	}
	r.logger.Info("Installation removed", "installation_id", externalID, "existed", n > 0)
	return n > 0, nil
}

func (r *Reconciler) reconcile(ctx context.Context, externalID int64, patch model.InstallationPatch, source string) (model.Installation, error) {
	if externalID <= 0 {
		return model.Installation{}, &custom_errors.ErrInvalidInstallationID{Value: strconv.FormatInt(externalID, 10)}
	}
	logger := r.logger.With("installation_id", externalID, "source", source)

	var result model.Installation
	err := r.store.ExecTx(ctx, func(q database.Querier) error {
		inst, err := r.applyPatch(ctx, q, externalID, patch)
		if err != nil {
			return err
		}
		result = inst
		return nil
	})
	if err != nil {
		logger.Error("Failed to reconcile installation", "error", err)
		return model.Installation{}, err
	}

	logger.Info("Installation reconciled", "id", result.ID, "owner_linked", result.OwnerUserID != nil, "account", result.AccountLogin)
	return result, nil
}

// applyPatch is the read-modify-write for one signal. It must run inside a transaction.
func (r *Reconciler) applyPatch(ctx context.Context, q database.Querier, externalID int64, patch model.InstallationPatch) (model.Installation, error) {
	current, created, err := EnsureInstallation(ctx, q, r.newID(), externalID)
	if err != nil {
		return model.Installation{}, err
	}
	if created {
		r.logger.Debug("Installation placeholder created", "installation_id", externalID)
	}

	merged := model.MergeInstallation(current.ToModel(), patch)
	updated, err := q.UpdateInstallation(ctx, database.UpdateInstallationParams{
		ID:           current.ID,
		OwnerUserID:  database.TextFromPtr(merged.OwnerUserID),
		AccountLogin: merged.AccountLogin,
		AccountType:  merged.AccountType,
		TargetType:   merged.TargetType,
	})
	if err != nil {
		return model.Installation{}, err
	}
	return updated.ToModel(), nil
}

// EnsureInstallation makes sure a row exists for externalID and returns it locked for
// the rest of the transaction. A missing row is inserted as a pending placeholder using id;
// a concurrent insert of the same key resolves to the winner's row. created reports
// whether this call inserted the row.
func EnsureInstallation(ctx context.Context, q database.Querier, id uuid.UUID, externalID int64) (inst database.Installation, created bool, err error) {
	n, err := q.InsertInstallationIfAbsent(ctx, database.InsertInstallationIfAbsentParams{
		ID:                     id,
		ExternalInstallationID: externalID,
	})
	if err != nil {
		return database.Installation{}, false, err
	}
	inst, err = q.GetInstallationByExternalIDForUpdate(ctx, externalID)
	if err != nil {
		return database.Installation{}, false, err
	}
	return inst, n > 0, nil
}
