// Package dbmock provides a testify mock of database.Store.
package dbmock

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/mock"

	"github-app-ingestor/internal/database"
)

// Store is a mock of the database.Store interface. ExecTx runs the callback
// against the mock itself, so expectations set on query methods apply inside transactions.
type Store struct {
	mock.Mock
}

var _ database.Store = (*Store)(nil)

func (m *Store) ExecTx(ctx context.Context, fn func(database.Querier) error) error {
	return fn(m)
}

func (m *Store) CompleteRepositoryIngestion(ctx context.Context, id uuid.UUID) (database.Repository, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(database.Repository), args.Error(1)
}

func (m *Store) DeleteInstallationByExternalID(ctx context.Context, externalInstallationID int64) (int64, error) {
	args := m.Called(ctx, externalInstallationID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *Store) DeleteRepositoriesByFullNames(ctx context.Context, arg database.DeleteRepositoriesByFullNamesParams) (int64, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(int64), args.Error(1)
}

func (m *Store) DeleteWebhookDeliveriesOlderThan(ctx context.Context, retentionSeconds float64) (int64, error) {
	args := m.Called(ctx, retentionSeconds)
	return args.Get(0).(int64), args.Error(1)
}

func (m *Store) FailRepositoryIngestion(ctx context.Context, arg database.FailRepositoryIngestionParams) (database.Repository, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(database.Repository), args.Error(1)
}

func (m *Store) FailStaleRepositoryIngestions(ctx context.Context, arg database.FailStaleRepositoryIngestionsParams) ([]uuid.UUID, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *Store) GetInstallationByExternalID(ctx context.Context, externalInstallationID int64) (database.Installation, error) {
	args := m.Called(ctx, externalInstallationID)
	return args.Get(0).(database.Installation), args.Error(1)
}

func (m *Store) GetInstallationByExternalIDForUpdate(ctx context.Context, externalInstallationID int64) (database.Installation, error) {
	args := m.Called(ctx, externalInstallationID)
	return args.Get(0).(database.Installation), args.Error(1)
}

func (m *Store) GetRepositoryForOwner(ctx context.Context, arg database.GetRepositoryForOwnerParams) (database.GetRepositoryForOwnerRow, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(database.GetRepositoryForOwnerRow), args.Error(1)
}

func (m *Store) InsertInstallationIfAbsent(ctx context.Context, arg database.InsertInstallationIfAbsentParams) (int64, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(int64), args.Error(1)
}

func (m *Store) InsertRepositoryIfAbsent(ctx context.Context, arg database.InsertRepositoryIfAbsentParams) (int64, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(int64), args.Error(1)
}

func (m *Store) ListInstallationsByOwner(ctx context.Context, ownerUserID pgtype.Text) ([]database.Installation, error) {
	args := m.Called(ctx, ownerUserID)
	return args.Get(0).([]database.Installation), args.Error(1)
}

func (m *Store) ListRepositoriesByInstallation(ctx context.Context, installationID uuid.UUID) ([]database.Repository, error) {
	args := m.Called(ctx, installationID)
	return args.Get(0).([]database.Repository), args.Error(1)
}

func (m *Store) ListRepositoriesByOwner(ctx context.Context, ownerUserID pgtype.Text) ([]database.Repository, error) {
	args := m.Called(ctx, ownerUserID)
	return args.Get(0).([]database.Repository), args.Error(1)
}

func (m *Store) RecordWebhookDelivery(ctx context.Context, arg database.RecordWebhookDeliveryParams) (int64, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(int64), args.Error(1)
}

func (m *Store) StartRepositoryIngestion(ctx context.Context, id uuid.UUID) (database.Repository, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(database.Repository), args.Error(1)
}

func (m *Store) UpdateInstallation(ctx context.Context, arg database.UpdateInstallationParams) (database.Installation, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(database.Installation), args.Error(1)
}

func (m *Store) WebhookDeliveryExists(ctx context.Context, deliveryID string) (bool, error) {
	args := m.Called(ctx, deliveryID)
	return args.Get(0).(bool), args.Error(1)
}
