// internal/model/models.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// PendingValue marks installation metadata that no webhook has supplied yet.
const PendingValue = "pending"

// IngestionStatus is the state of a repository's ingestion job.
type IngestionStatus string

const (
	IngestionNotStarted IngestionStatus = "not_started"
	IngestionProcessing IngestionStatus = "processing"
	IngestionCompleted  IngestionStatus = "completed"
	IngestionFailed     IngestionStatus = "failed"
)

// Valid reports whether s is one of the known ingestion states.
func (s IngestionStatus) Valid() bool {
	switch s {
	case IngestionNotStarted, IngestionProcessing, IngestionCompleted, IngestionFailed:
		return true
	}
	return false
}

// Installation is a GitHub App installation linked to an internal user.
type Installation struct {
	ID                     uuid.UUID `json:"id"`
	ExternalInstallationID int64     `json:"external_installation_id"`
	OwnerUserID            *string   `json:"owner_user_id"`
	AccountLogin           string    `json:"account_login"`
	AccountType            string    `json:"account_type"`
	TargetType             string    `json:"target_type"`
	InstalledAt            time.Time `json:"installed_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// Repository is a repository selected for an installation, with its ingestion state.
type Repository struct {
	ID                   uuid.UUID       `json:"id"`
	InstallationID       uuid.UUID       `json:"installation_id"`
	GithubRepoID         int64           `json:"github_repo_id"`
	FullName             string          `json:"full_name"`
	Name                 string          `json:"name"`
	Private              bool            `json:"private"`
	IngestionStatus      IngestionStatus `json:"ingestion_status"`
	IngestionStartedAt   *time.Time      `json:"ingestion_started_at"`
	IngestionCompletedAt *time.Time      `json:"ingestion_completed_at"`
	IngestionError       *string         `json:"ingestion_error"`
	LastSyncedAt         *time.Time      `json:"last_synced_at"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// RepositoryRef identifies a repository as GitHub reports it in webhooks and API listings.
type RepositoryRef struct {
	GithubRepoID int64
	FullName     string
	Name         string
	Private      bool
}

// StatusSummary counts repositories by ingestion status.
type StatusSummary struct {
	Total      int `json:"total"`
	NotStarted int `json:"not_started"`
	Processing int `json:"processing"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
}

// Add counts one repository in the given status.
func (s *StatusSummary) Add(status IngestionStatus) {
	s.Total++
	switch status {
	case IngestionNotStarted:
		s.NotStarted++
	case IngestionProcessing:
		s.Processing++
	case IngestionCompleted:
		s.Completed++
	case IngestionFailed:
		s.Failed++
	}
}

// Summarize counts repos by ingestion status.
func Summarize(repos []Repository) StatusSummary {
	var s StatusSummary
	for _, r := range repos {
		s.Add(r.IngestionStatus)
	}
	return s
}

// InstallationListing is one installation together with its repositories.
type InstallationListing struct {
	Installation
	Repositories []Repository `json:"repositories"`
	Summary      StatusSummary `json:"summary"`
}

// UserListing is everything a user owns.
type UserListing struct {
	Installations []InstallationListing `json:"installations"`
	Summary       StatusSummary         `json:"summary"`
}
