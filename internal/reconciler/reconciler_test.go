// internal/reconciler/reconciler_test.go
package reconciler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github-app-ingestor/internal/database"
	"github-app-ingestor/internal/database/dbmock"
	custom_errors "github-app-ingestor/internal/errors"
	"github-app-ingestor/internal/model"
)

func newTestReconciler(store database.Store) *Reconciler {
	r := New(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	fixed := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	r.newID = func() uuid.UUID { return fixed }
	return r
}

func pendingRow(id uuid.UUID, externalID int64) database.Installation {
	return database.Installation{
		ID:                     id,
		ExternalInstallationID: externalID,
		AccountLogin:           model.PendingValue,
		AccountType:            model.PendingValue,
		TargetType:             model.PendingValue,
	}
}

func TestReconciler_ReconcileFromCallback(t *testing.T) {
	ctx := context.Background()
	rowID := uuid.MustParse("11111111-1111-1111-1111-111111111111")

	t.Run("creates a placeholder and links the owner", func(t *testing.T) {
		store := new(dbmock.Store)
		r := newTestReconciler(store)

		store.On("InsertInstallationIfAbsent", ctx, database.InsertInstallationIfAbsentParams{ID: rowID, ExternalInstallationID: 42}).Return(int64(1), nil).Once()
		store.On("GetInstallationByExternalIDForUpdate", ctx, int64(42)).Return(pendingRow(rowID, 42), nil).Once()
		store.On("UpdateInstallation", ctx, database.UpdateInstallationParams{
			ID:           rowID,
			OwnerUserID:  database.Text("u1"),
			AccountLogin: model.PendingValue,
			AccountType:  model.PendingValue,
			TargetType:   model.PendingValue,
		}).Return(database.Installation{ID: rowID, ExternalInstallationID: 42, OwnerUserID: database.Text("u1"), AccountLogin: model.PendingValue}, nil).Once()

		inst, err := r.ReconcileFromCallback(ctx, "u1", 42)

		require.NoError(t, err)
		require.NotNil(t, inst.OwnerUserID)
		assert.Equal(t, "u1", *inst.OwnerUserID)
		store.AssertExpectations(t)
	})

	t.Run("keeps metadata a webhook already supplied", func(t *testing.T) {
		store := new(dbmock.Store)
		r := newTestReconciler(store)

		existing := database.Installation{
			ID:                     rowID,
			ExternalInstallationID: 42,
			AccountLogin:           "acme",
			AccountType:            "Organization",
			TargetType:             "Organization",
		}
		store.On("InsertInstallationIfAbsent", ctx, mock.Anything).Return(int64(0), nil).Once()
		store.On("GetInstallationByExternalIDForUpdate", ctx, int64(42)).Return(existing, nil).Once()
		store.On("UpdateInstallation", ctx, database.UpdateInstallationParams{
			ID:           rowID,
			OwnerUserID:  database.Text("u1"),
			AccountLogin: "acme",
			AccountType:  "Organization",
			TargetType:   "Organization",
		}).Return(existing, nil).Once()

		_, err := r.ReconcileFromCallback(ctx, "u1", 42)

		require.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run("rejects an empty user without touching the store", func(t *testing.T) {
		store := new(dbmock.Store)
		r := newTestReconciler(store)

		_, err := r.ReconcileFromCallback(ctx, " ", 42)

		assert.ErrorIs(t, err, custom_errors.ErrUnauthenticated)
		store.AssertNotCalled(t, "InsertInstallationIfAbsent")
	})

	t.Run("rejects a non-positive installation id", func(t *testing.T) {
		store := new(dbmock.Store)
		r := newTestReconciler(store)

		_, err := r.ReconcileFromCallback(ctx, "u1", 0)

		var invalid *custom_errors.ErrInvalidInstallationID
		assert.ErrorAs(t, err, &invalid)
		store.AssertNotCalled(t, "InsertInstallationIfAbsent")
	})
}

func TestReconciler_ReconcileFromWebhook(t *testing.T) {
	ctx := context.Background()
	rowID := uuid.MustParse("11111111-1111-1111-1111-111111111111")

	t.Run("keeps the owner linked by a callback", func(t *testing.T) {
		store := new(dbmock.Store)
		r := newTestReconciler(store)

		existing := pendingRow(rowID, 42)
		existing.OwnerUserID = database.Text("u1")
		store.On("InsertInstallationIfAbsent", ctx, mock.Anything).Return(int64(0), nil).Once()
		store.On("GetInstallationByExternalIDForUpdate", ctx, int64(42)).Return(existing, nil).Once()
		store.On("UpdateInstallation", ctx, database.UpdateInstallationParams{
			ID:           rowID,
			OwnerUserID:  database.Text("u1"),
			AccountLogin: "acme",
			AccountType:  "User",
			TargetType:   "User",
		}).Return(existing, nil).Once()

		_, err := r.ReconcileFromWebhook(ctx, 42, "acme", "User", "User")

		require.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run("propagates storage errors without updating", func(t *testing.T) {
		store := new(dbmock.Store)
		r := newTestReconciler(store)
		dbErr := errors.New("connection reset")

		store.On("InsertInstallationIfAbsent", ctx, mock.Anything).Return(int64(0), dbErr).Once()

		_, err := r.ReconcileFromWebhook(ctx, 42, "acme", "User", "User")

		assert.Equal(t, dbErr, err)
		store.AssertNotCalled(t, "GetInstallationByExternalIDForUpdate")
		store.AssertNotCalled(t, "UpdateInstallation")
	})
}

func TestReconciler_Uninstall(t *testing.T) {
	ctx := context.Background()
	store := new(dbmock.Store)
	r := newTestReconciler(store)

	store.On("DeleteInstallationByExternalID", ctx, int64(42)).Return(int64(1), nil).Once()
	store.On("DeleteInstallationByExternalID", ctx, int64(43)).Return(int64(0), nil).Once()

	existed, err := r.Uninstall(ctx, 42)
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = r.Uninstall(ctx, 43)
	require.NoError(t, err)
	assert.False(t, existed)

	store.AssertExpectations(t)
}
