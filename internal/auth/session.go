// Package auth verifies the HS256 session tokens issued by the login flow.
package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	custom_errors "github-app-ingestor/internal/errors"
)

// CookieName is the cookie carrying the session token.
const CookieName = "session"

var tokenHeader = base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))

type claims struct {
	Subject   string `json:"sub"`
	ExpiresAt int64  `json:"exp"`
}

type contextKey struct{}

// Verifier checks session tokens against a shared secret.
type Verifier struct {
	secret []byte
	now    func() time.Time
}

// NewVerifier creates a Verifier for tokens signed with secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret), now: time.Now}
}

// Sign issues a token for userID valid for ttl.
func Sign(secret, userID string, ttl time.Duration) (string, error) {
	payload, err := json.Marshal(claims{Subject: userID, ExpiresAt: time.Now().Add(ttl).Unix()})
	if err != nil {
		return "", err
	}
	signingInput := tokenHeader + "." + base64.RawURLEncoding.EncodeToString(payload)
	return signingInput + "." + base64.RawURLEncoding.EncodeToString(mac(secret, signingInput)), nil
}

// Verify returns the user id a token was issued for.
func (v *Verifier) Verify(token string) (string, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return "", errors.New("invalid token format")
	}

	headerBytes, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return "", errors.New("invalid token header")
	}
	var header struct {
		Alg string `json:"alg"`
	}
	if err := json.Unmarshal(headerBytes, &header); err != nil || header.Alg != "HS256" {
		return "", errors.New("unsupported token algorithm")
	}

	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return "", errors.New("invalid token signature")
	}
	if !hmac.Equal(sig, mac(string(v.secret), parts[0]+"."+parts[1])) {
		return "", errors.New("token signature mismatch")
	}

	payloadBytes, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return "", errors.New("invalid token payload")
	}
	var c claims
	if err := json.Unmarshal(payloadBytes, &c); err != nil {
		return "", errors.New("invalid token payload")
	}
	if strings.TrimSpace(c.Subject) == "" {
		return "", errors.New("missing sub claim")
	}
	if c.ExpiresAt == 0 || v.now().Unix() >= c.ExpiresAt {
		return "", errors.New("token expired")
	}
	return c.Subject, nil
}

// UserFromRequest authenticates r from the session cookie or a bearer token.
// It returns ErrUnauthenticated when neither carries a valid token.
func (v *Verifier) UserFromRequest(r *http.Request) (string, error) {
	token := ""
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		token = strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	} else if c, err := r.Cookie(CookieName); err == nil {
		token = c.Value
	}
	if token == "" {
		return "", custom_errors.ErrUnauthenticated
	}
	userID, err := v.Verify(token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", custom_errors.ErrUnauthenticated, err)
	}
	return userID, nil
}

// RequireUser rejects unauthenticated requests with a 401 JSON body and stores the
// user id in the request context for the handlers behind it.
func (v *Verifier) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := v.UserFromRequest(r)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": custom_errors.ErrUnauthenticated.Error()})
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), userID)))
	})
}

// WithUser returns a context carrying userID.
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, contextKey{}, userID)
}

// UserFromContext returns the user id stored by RequireUser.
func UserFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(contextKey{}).(string)
	return userID, ok && userID != ""
}

func mac(secret, signingInput string) []byte {
	h := hmac.New(sha256.New, []byte(secret))
	_, _ = h.Write([]byte(signingInput))
	return h.Sum(nil)
}
