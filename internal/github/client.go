// internal/github/client.go
package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	"github-app-ingestor/internal/model"
)

const (
	// maxRetries is the number of attempts made for a single API call.
	maxRetries = 3
	// maxRateLimitWait caps how long a call waits for a rate limit reset.
	maxRateLimitWait = 2 * time.Minute
)

// Client is a wrapper around the go-github client authenticated as a GitHub App.
type Client struct {
	app        *github.Client
	baseURL    *url.URL
	logger     *slog.Logger
	retryDelay time.Duration
}

// NewClient creates a Client that authenticates as the App identified by appID.
// baseURL overrides the API root (e.g. for GitHub Enterprise) when non-empty.
func NewClient(appID int64, privateKeyPEM []byte, baseURL string, logger *slog.Logger) (*Client, error) {
	key, err := ParsePrivateKey(privateKeyPEM)
	if err != nil {
		return nil, err
	}

	c := &Client{
		logger:     logger,
		retryDelay: time.Second,
	}
	if baseURL != "" {
		u, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("github: invalid api url %q: %w", baseURL, err)
		}
		c.baseURL = u
	}

	jwtSource := oauth2.ReuseTokenSource(nil, &appJWTSource{appID: appID, key: key, now: time.Now})
	c.app = c.newGitHubClient(jwtSource)
	return c, nil
}

// ListInstallationRepositories fetches every repository the installation grants access to.
// It handles API pagination transparently.
func (c *Client) ListInstallationRepositories(ctx context.Context, installationID int64) ([]model.RepositoryRef, error) {
	gh := c.installationClient(installationID)

	var all []model.RepositoryRef
	opts := &github.ListOptions{PerPage: 100}
	for {
		c.logger.Debug("Fetching installation repositories page", "installation_id", installationID, "page", opts.Page)

		var page *github.ListRepositories
		var resp *github.Response
		err := c.withRetry(ctx, "list installation repositories", func() error {
			var err error
			page, resp, err = gh.Apps.ListRepos(ctx, opts)
			return err
		})
		if err != nil {
			return nil, err
		}

		for _, repo := range page.Repositories {
			all = append(all, ToRepositoryRef(repo))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

// installationClient returns a client that authenticates as the given installation.
func (c *Client) installationClient(installationID int64) *github.Client {
	ts := oauth2.ReuseTokenSource(nil, &installationTokenSource{client: c, installationID: installationID})
	return c.newGitHubClient(ts)
}

func (c *Client) newGitHubClient(ts oauth2.TokenSource) *github.Client {
	gh := github.NewClient(oauth2.NewClient(context.Background(), ts))
	if c.baseURL != nil {
		gh.BaseURL = c.baseURL
	}
	return gh
}

// withRetry runs fn up to maxRetries times, backing off on server errors and
// waiting out rate limits. Other errors are returned immediately.
func (c *Client) withRetry(ctx context.Context, op string, fn func() error) error {
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}

		wait, retryable := c.backoff(err, attempt)
		if !retryable || attempt >= maxRetries {
			return err
		}

		c.logger.Warn("GitHub API call failed, retrying", "op", op, "attempt", attempt, "wait", wait.String(), "error", err)
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (c *Client) backoff(err error, attempt int) (time.Duration, bool) {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return capWait(time.Until(rateErr.Rate.Reset.Time)), true
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		if abuseErr.RetryAfter != nil {
			return capWait(*abuseErr.RetryAfter), true
		}
		return c.retryDelay, true
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil && respErr.Response.StatusCode >= http.StatusInternalServerError {
		return c.retryDelay * time.Duration(1<<(attempt-1)), true
	}

	return 0, false
}

func capWait(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	if d > maxRateLimitWait {
		return maxRateLimitWait
	}
	return d
}

// ToRepositoryRef translates a github.Repository object to our internal model.RepositoryRef.
func ToRepositoryRef(r *github.Repository) model.RepositoryRef {
	return model.RepositoryRef{
		GithubRepoID: r.GetID(),
		FullName:     r.GetFullName(),
		Name:         r.GetName(),
		Private:      r.GetPrivate(),
	}
}

// ToRepositoryRefs translates a slice of github.Repository objects.
func ToRepositoryRefs(repos []*github.Repository) []model.RepositoryRef {
	refs := make([]model.RepositoryRef, 0, len(repos))
	for _, r := range repos {
		if r == nil {
			continue
		}
		refs = append(refs, ToRepositoryRef(r))
	}
	return refs
}
