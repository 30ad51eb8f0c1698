package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	custom_errors "github-app-ingestor/internal/errors"
)

const testSecret = "test-session-secret"

func TestVerifier_Verify(t *testing.T) {
	v := NewVerifier(testSecret)

	t.Run("round trip", func(t *testing.T) {
		token, err := Sign(testSecret, "u1", time.Hour)
		require.NoError(t, err)

		userID, err := v.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "u1", userID)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := Sign("other-secret", "u1", time.Hour)
		require.NoError(t, err)

		_, err = v.Verify(token)
		assert.EqualError(t, err, "token signature mismatch")
	})

	t.Run("expired", func(t *testing.T) {
		token, err := Sign(testSecret, "u1", time.Hour)
		require.NoError(t, err)

		late := NewVerifier(testSecret)
		late.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err = late.Verify(token)
		assert.EqualError(t, err, "token expired")
	})

	t.Run("tampered payload", func(t *testing.T) {
		token, err := Sign(testSecret, "u1", time.Hour)
		require.NoError(t, err)
		other, err := Sign(testSecret, "u2", time.Hour)
		require.NoError(t, err)

		parts := strings.Split(token, ".")
		parts[1] = strings.Split(other, ".")[1]
		_, err = v.Verify(strings.Join(parts, "."))
		assert.EqualError(t, err, "token signature mismatch")
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := v.Verify("not-a-token")
		assert.Error(t, err)
	})
}

func TestVerifier_RequireUser(t *testing.T) {
	v := NewVerifier(testSecret)
	var seen string
	handler := v.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))
	token, err := Sign(testSecret, "u1", time.Hour)
	require.NoError(t, err)

	t.Run("bearer header", func(t *testing.T) {
		seen = ""
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, "u1", seen)
	})

	t.Run("session cookie", func(t *testing.T) {
		seen = ""
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, "u1", seen)
	})

	t.Run("missing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.JSONEq(t, `{"error":"authentication required"}`, rr.Body.String())
	})
}

func TestVerifier_UserFromRequest_WrapsUnauthenticated(t *testing.T) {
	v := NewVerifier(testSecret)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")

	_, err := v.UserFromRequest(req)

	assert.ErrorIs(t, err, custom_errors.ErrUnauthenticated)
}
