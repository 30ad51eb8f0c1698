// internal/ingestion/service.go
package ingestion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	custom_errors "github-app-ingestor/internal/errors"
)

const (
	maxResultBodySize = 32 * 1024 * 1024
	maxErrorBodySize  = 64 * 1024
)

// Request is what the ingestion service receives for one repository.
type Request struct {
	RepositoryID   uuid.UUID `json:"repository_id"`
	FullName       string    `json:"full_name"`
	CloneURL       string    `json:"clone_url"`
	InstallationID int64     `json:"installation_id"`
}

// Service runs an ingestion to completion and returns its opaque result.
// A failure reported by the service is returned as *errors.ErrIngestionFailed.
type Service interface {
	Ingest(ctx context.Context, req Request) (json.RawMessage, error)
}

// HTTPService calls the ingestion service over HTTP. The deadline comes from ctx.
type HTTPService struct {
	endpoint      string
	httpClient    *http.Client
	maxResultSize int64
	logger        *slog.Logger
}

// NewHTTPService creates a client for the service rooted at baseURL.
func NewHTTPService(baseURL string, logger *slog.Logger) *HTTPService {
	return &HTTPService{
		endpoint:      strings.TrimSuffix(baseURL, "/") + "/ingest",
		httpClient:    &http.Client{},
		maxResultSize: maxResultBodySize,
		logger:        logger,
	}
}

// Ingest implements Service.
func (s *HTTPService) Ingest(ctx context.Context, req Request) (json.RawMessage, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	s.logger.Debug("Calling ingestion service", "repo", req.FullName, "endpoint", s.endpoint)
	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return nil, &custom_errors.ErrIngestionFailed{Message: serviceErrorMessage(resp.StatusCode, body)}
	}

	// One byte past the limit tells an oversized result apart from one that fits exactly.
	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxResultSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading ingestion result: %w", err)
	}
	if int64(len(body)) > s.maxResultSize {
		return nil, &custom_errors.ErrIngestionFailed{
			Message: fmt.Sprintf("ingestion result exceeds limit of %d bytes", s.maxResultSize),
		}
	}
	return resultPayload(body)
}

// serviceErrorMessage extracts the human-readable message from a failure response.
func serviceErrorMessage(status int, body []byte) string {
	var parsed struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &parsed) == nil {
		if parsed.Error != "" {
			return parsed.Error
		}
		if parsed.Message != "" {
			return parsed.Message
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return fmt.Sprintf("ingestion service returned %d: %s", status, text)
	}
	return fmt.Sprintf("ingestion service returned %d %s", status, http.StatusText(status))
}

func resultPayload(body []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return json.RawMessage("null"), nil
	}
	if json.Valid(trimmed) {
		return json.RawMessage(trimmed), nil
	}
	// Non-JSON results are passed through as a JSON string.
	quoted, err := json.Marshal(string(trimmed))
	if err != nil {
		return nil, err
	}
	return quoted, nil
}
