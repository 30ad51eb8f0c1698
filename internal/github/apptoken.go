// internal/github/apptoken.go
package github

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/oauth2"
)

const (
	// jwtLifetime is the validity of an App JWT. GitHub caps it at 10 minutes.
	jwtLifetime = 9 * time.Minute
	// jwtClockSkew backdates iat to tolerate clock drift against GitHub.
	jwtClockSkew = 60 * time.Second
	// tokenRotationMargin is how long before expiry a cached token is replaced.
	tokenRotationMargin = 5 * time.Minute
	// tokenExchangeTimeout bounds the installation token request.
	tokenExchangeTimeout = 30 * time.Second
)

// ParsePrivateKey decodes an App private key in PKCS1 or PKCS8 PEM form.
func ParsePrivateKey(pemBytes []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, errors.New("github: failed to decode PEM block from private key")
	}
	key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err == nil {
		return key, nil
	}
	parsed, pkcs8Err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if pkcs8Err != nil {
		return nil, fmt.Errorf("github: parsing private key: %w (also tried PKCS8: %v)", err, pkcs8Err)
	}
	rsaKey, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New("github: private key is not RSA")
	}
	return rsaKey, nil
}

// appJWTSource mints RS256 JWTs that authenticate as the App itself.
type appJWTSource struct {
	appID int64
	key   *rsa.PrivateKey
	now   func() time.Time
}

// Token implements oauth2.TokenSource.
func (s *appJWTSource) Token() (*oauth2.Token, error) {
	now := s.now()
	jwt, err := signAppJWT(s.appID, s.key, now)
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{
		AccessToken: jwt,
		TokenType:   "Bearer",
		Expiry:      now.Add(jwtLifetime - jwtClockSkew),
	}, nil
}

func signAppJWT(appID int64, key *rsa.PrivateKey, now time.Time) (string, error) {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"RS256","typ":"JWT"}`))

	claims, err := json.Marshal(struct {
		IssuedAt  int64  `json:"iat"`
		ExpiresAt int64  `json:"exp"`
		Issuer    string `json:"iss"`
	}{
		IssuedAt:  now.Add(-jwtClockSkew).Unix(),
		ExpiresAt: now.Add(jwtLifetime).Unix(),
		Issuer:    strconv.FormatInt(appID, 10),
	})
	if err != nil {
		return "", fmt.Errorf("github: marshaling JWT claims: %w", err)
	}

	signingInput := header + "." + base64.RawURLEncoding.EncodeToString(claims)
	digest := sha256.Sum256([]byte(signingInput))
	sig, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, digest[:])
	if err != nil {
		return "", fmt.Errorf("github: signing JWT: %w", err)
	}
	return signingInput + "." + base64.RawURLEncoding.EncodeToString(sig), nil
}

// installationTokenSource exchanges the App JWT for an installation access token.
type installationTokenSource struct {
	client         *Client
	installationID int64
}

// Token implements oauth2.TokenSource.
func (s *installationTokenSource) Token() (*oauth2.Token, error) {
	ctx, cancel := context.WithTimeout(context.Background(), tokenExchangeTimeout)
	defer cancel()

	var token string
	var expiresAt time.Time
	err := s.client.withRetry(ctx, "create installation token", func() error {
		tok, _, err := s.client.app.Apps.CreateInstallationToken(ctx, s.installationID, nil)
		if err != nil {
			return err
		}
		token = tok.GetToken()
		expiresAt = tok.GetExpiresAt().Time
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("github: exchanging token for installation %d: %w", s.installationID, err)
	}
	if token == "" {
		return nil, fmt.Errorf("github: token exchange for installation %d returned an empty token", s.installationID)
	}
	return &oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
		Expiry:      expiresAt.Add(-tokenRotationMargin),
	}, nil
}
