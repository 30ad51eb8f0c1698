// internal/syncer/syncer.go
package syncer

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github-app-ingestor/internal/database"
	custom_errors "github-app-ingestor/internal/errors"
	"github-app-ingestor/internal/model"
	"github-app-ingestor/internal/reconciler"
)

// RepositoryLister fetches the repositories an installation currently grants access to.
type RepositoryLister interface {
	ListInstallationRepositories(ctx context.Context, installationID int64) ([]model.RepositoryRef, error)
}

// Result reports how a synchronization changed the stored set.
type Result struct {
	Added   int `json:"added"`
	Removed int `json:"removed"`
}

// Syncer keeps the stored repositories of an installation equal to the set GitHub reports.
// It only adds and removes rows; ingestion fields are never touched.
type Syncer struct {
	store  database.Store
	lister RepositoryLister
	logger *slog.Logger
	newID  func() uuid.UUID
}

// NewSyncer creates a new Syncer instance. lister may be nil, in which case Resync is unavailable.
func NewSyncer(store database.Store, lister RepositoryLister, logger *slog.Logger) *Syncer {
	return &Syncer{
		store:  store,
		lister: lister,
		logger: logger,
		newID:  uuid.New,
	}
}

// AddRepositories stores each repository not already present under the installation.
func (s *Syncer) AddRepositories(ctx context.Context, externalID int64, repos []model.RepositoryRef) (Result, error) {
	refs, err := normalizeRefs(repos)
	if err != nil {
		return Result{}, err
	}
	return s.inInstallationTx(ctx, externalID, "add", func(q database.Querier, installationID uuid.UUID) (Result, error) {
		added, err := s.insertRepositories(ctx, q, installationID, refs)
		return Result{Added: added}, err
	})
}

// RemoveRepositories deletes the named repositories. Names that are not stored are ignored.
func (s *Syncer) RemoveRepositories(ctx context.Context, externalID int64, fullNames []string) (Result, error) {
	names := uniqueNames(fullNames)
	return s.inInstallationTx(ctx, externalID, "remove", func(q database.Querier, installationID uuid.UUID) (Result, error) {
		removed, err := deleteRepositories(ctx, q, installationID, names)
		return Result{Removed: removed}, err
	})
}

// ReplaceAll makes the stored set equal to repos. Repositories present in both keep their rows.
func (s *Syncer) ReplaceAll(ctx context.Context, externalID int64, repos []model.RepositoryRef) (Result, error) {
	refs, err := normalizeRefs(repos)
	if err != nil {
		return Result{}, err
	}
	return s.inInstallationTx(ctx, externalID, "replace", func(q database.Querier, installationID uuid.UUID) (Result, error) {
		return s.replaceAll(ctx, q, installationID, refs)
	})
}

// Resync fetches the installation's repositories from GitHub and replaces the stored set with them.
func (s *Syncer) Resync(ctx context.Context, externalID int64) (Result, error) {
	if s.lister == nil {
		return Result{}, custom_errors.ErrAppNotConfigured
	}
	// Fetched before the transaction so no row lock is held across the API call.
	repos, err := s.lister.ListInstallationRepositories(ctx, externalID)
	if err != nil {
		return Result{}, err
	}
	return s.ReplaceAll(ctx, externalID, repos)
}

// inInstallationTx runs fn in a transaction holding the installation row lock, creating a
// placeholder installation first if no signal has reached it yet.
func (s *Syncer) inInstallationTx(ctx context.Context, externalID int64, op string, fn func(database.Querier, uuid.UUID) (Result, error)) (Result, error) {
	if externalID <= 0 {
		return Result{}, &custom_errors.ErrInvalidInstallationID{Value: strconv.FormatInt(externalID, 10)}
	}
	logger := s.logger.With("installation_id", externalID, "op", op)

	var result Result
	err := s.store.ExecTx(ctx, func(q database.Querier) error {
		inst, created, err := reconciler.EnsureInstallation(ctx, q, s.newID(), externalID)
		if err != nil {
			return err
		}
		if created {
			logger.Info("Repository event arrived before installation, created placeholder")
		}
		result, err = fn(q, inst.ID)
		return err
	})
	if err != nil {
		logger.Error("Failed to synchronize repositories", "error", err)
		return Result{}, err
	}

	logger.Info("Repositories synchronized", "added", result.Added, "removed", result.Removed)
	return result, nil
}

// replaceAll handles the full-set synchronization for one installation.
func (s *Syncer) replaceAll(ctx context.Context, q database.Querier, installationID uuid.UUID, refs []model.RepositoryRef) (Result, error) {
	current, err := q.ListRepositoriesByInstallation(ctx, installationID)
	if err != nil {
		return Result{}, err
	}

	toAdd, toRemove := diffRepositories(current, refs)

	removed, err := deleteRepositories(ctx, q, installationID, toRemove)
	if err != nil {
		return Result{}, err
	}
	added, err := s.insertRepositories(ctx, q, installationID, toAdd)
	if err != nil {
		return Result{}, err
	}
	return Result{Added: added, Removed: removed}, nil
}

func (s *Syncer) insertRepositories(ctx context.Context, q database.Querier, installationID uuid.UUID, refs []model.RepositoryRef) (int, error) {
	added := 0
	for _, ref := range refs {
		n, err := q.InsertRepositoryIfAbsent(ctx, database.InsertRepositoryIfAbsentParams{
			ID:             s.newID(),
			InstallationID: installationID,
			GithubRepoID:   ref.GithubRepoID,
			FullName:       ref.FullName,
			Name:           ref.Name,
			Private:        ref.Private,
		})
		if err != nil {
			return added, err
		}
		added += int(n)
	}
	return added, nil
}

func deleteRepositories(ctx context.Context, q database.Querier, installationID uuid.UUID, fullNames []string) (int, error) {
	if len(fullNames) == 0 {
		return 0, nil
	}
	n, err := q.DeleteRepositoriesByFullNames(ctx, database.DeleteRepositoriesByFullNamesParams{
		InstallationID: installationID,
		FullNames:      fullNames,
	})
	return int(n), err
}

// diffRepositories returns the refs missing from current and the stored names absent from desired.
func diffRepositories(current []database.Repository, desired []model.RepositoryRef) (toAdd []model.RepositoryRef, toRemove []string) {
	stored := make(map[string]struct{}, len(current))
	for _, r := range current {
		stored[r.FullName] = struct{}{}
	}
	wanted := make(map[string]struct{}, len(desired))
	for _, ref := range desired {
		wanted[ref.FullName] = struct{}{}
		if _, ok := stored[ref.FullName]; !ok {
			toAdd = append(toAdd, ref)
		}
	}
	for _, r := range current {
		if _, ok := wanted[r.FullName]; !ok {
			toRemove = append(toRemove, r.FullName)
		}
	}
	sort.Strings(toRemove)
	return toAdd, toRemove
}

// normalizeRefs validates full names, fills in missing short names and drops duplicates.
func normalizeRefs(repos []model.RepositoryRef) ([]model.RepositoryRef, error) {
	seen := make(map[string]struct{}, len(repos))
	out := make([]model.RepositoryRef, 0, len(repos))
	for _, ref := range repos {
		parts := strings.Split(ref.FullName, "/")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, &custom_errors.ErrInvalidRepoFormat{Repo: ref.FullName}
		}
		if _, dup := seen[ref.FullName]; dup {
			continue
		}
		seen[ref.FullName] = struct{}{}
		if ref.Name == "" {
			ref.Name = parts[1]
		}
		out = append(out, ref)
	}
	return out, nil
}

func uniqueNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
