// internal/database/convert.go
package database

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github-app-ingestor/internal/model"
)

// ToModel converts a stored installation to the domain type.
func (i Installation) ToModel() model.Installation {
	return model.Installation{
		ID:                     i.ID,
		ExternalInstallationID: i.ExternalInstallationID,
		OwnerUserID:            textPtr(i.OwnerUserID),
		AccountLogin:           i.AccountLogin,
		AccountType:            i.AccountType,
		TargetType:             i.TargetType,
		InstalledAt:            i.InstalledAt,
		UpdatedAt:              i.UpdatedAt,
	}
}

// ToModel converts a stored repository to the domain type.
func (r Repository) ToModel() model.Repository {
	return model.Repository{
		ID:                   r.ID,
		InstallationID:       r.InstallationID,
		GithubRepoID:         r.GithubRepoID,
		FullName:             r.FullName,
		Name:                 r.Name,
		Private:              r.Private,
		IngestionStatus:      model.IngestionStatus(r.IngestionStatus),
		IngestionStartedAt:   timePtr(r.IngestionStartedAt),
		IngestionCompletedAt: timePtr(r.IngestionCompletedAt),
		IngestionError:       textPtr(r.IngestionError),
		LastSyncedAt:         timePtr(r.LastSyncedAt),
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
}

// RepositoriesToModel converts a slice of stored repositories.
func RepositoriesToModel(rows []Repository) []model.Repository {
	out := make([]model.Repository, len(rows))
	for i, r := range rows {
		out[i] = r.ToModel()
	}
	return out
}

// Text wraps s as a non-null text value.
func Text(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: true}
}

// TextFromPtr converts an optional string to a nullable text value.
func TextFromPtr(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return Text(*s)
}

func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}

func timePtr(t pgtype.Timestamptz) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
