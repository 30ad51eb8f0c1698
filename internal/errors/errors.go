// internal/errors/errors.go
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated is returned when a request carries no valid session.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrInstallationNotFound is returned when an installation is not stored or not owned by the caller.
	ErrInstallationNotFound = errors.New("installation not found")

	// ErrRepositoryNotFound is returned when a repository is not stored or not owned by the caller.
	ErrRepositoryNotFound = errors.New("repository not found")

	// ErrIngestionInProgress is returned when a repository already has an ingestion in flight.
	ErrIngestionInProgress = errors.New("ingestion already in progress")

	// ErrAppNotConfigured is returned when an operation needs GitHub App credentials that were not supplied.
	ErrAppNotConfigured = errors.New("github app credentials are not configured")
)

// ErrInvalidInstallationID is returned when an installation id is missing or not a positive integer.
type ErrInvalidInstallationID struct {
	Value string
}

func (e *ErrInvalidInstallationID) Error() string {
	return fmt.Sprintf("invalid installation id: %q", e.Value)
}

// ErrIngestionFailed is returned when the external ingestion service reports a failure or times out.
// Message is stored verbatim as the repository's ingestion error.
type ErrIngestionFailed struct {
	Message string
}

func (e *ErrIngestionFailed) Error() string {
	return "ingestion failed: " + e.Message
}

// ErrInvalidRepoFormat is returned when a repository full name is not in 'owner/name' format.
type ErrInvalidRepoFormat struct {
	Repo string
}

func (e *ErrInvalidRepoFormat) Error() string {
	return fmt.Sprintf("invalid repository format: %q, expected 'owner/name'", e.Repo)
}

// ErrMalformedPayload is returned when a verified webhook body cannot be decoded.
type ErrMalformedPayload struct {
	Event string
	Err   error
}

func (e *ErrMalformedPayload) Error() string {
	return fmt.Sprintf("malformed %s payload: %v", e.Event, e.Err)
}

func (e *ErrMalformedPayload) Unwrap() error {
	return e.Err
}
