package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"mineaction/internal/common/models"
	"mineaction/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityFromClaims(t *testing.T) {
	issued := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

	t.Run("auth_time wins", func(t *testing.T) {
		id := identityFromClaims("sub-1", issued, idTokenClaims{
			Email:         "ana@example.org",
			EmailVerified: true,
			Name:          "Ana",
			Picture:       "https://example.org/ana.png",
			AuthTime:      issued.Add(-time.Hour).Unix(),
		})
		assert.Equal(t, "sub-1", id.UID)
		assert.Equal(t, "ana@example.org", id.Email)
		assert.Equal(t, "Ana", id.DisplayName)
		assert.Equal(t, "https://example.org/ana.png", id.PhotoURL)
		assert.True(t, id.EmailVerified)
		assert.True(t, id.LastSignInTime.Equal(issued.Add(-time.Hour)))
	})

	t.Run("falls back to iat", func(t *testing.T) {
		id := identityFromClaims("sub-1", issued, idTokenClaims{Email: "ana@example.org"})
		assert.True(t, id.LastSignInTime.Equal(issued))
	})
}

func newIssuer(t *testing.T, endSession string) *httptest.Server {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/.well-known/openid-configuration" {
			http.NotFound(w, r)
			return
		}
		doc := map[string]any{
			"issuer":                 srv.URL,
			"authorization_endpoint": srv.URL + "/authorize",
			"token_endpoint":         srv.URL + "/token",
			"jwks_uri":               srv.URL + "/keys",
		}
		if endSession != "" {
			doc["end_session_endpoint"] = endSession
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(doc)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAuthCodeURL(t *testing.T) {
	srv := newIssuer(t, "https://issuer.example.org/logout")
	p := NewOIDCProvider(&config.Config{
		OIDCIssuerURL:   srv.URL,
		OIDCClientID:    "client-1",
		OIDCRedirectURL: "http://localhost:5173/callback",
	})

	assert.Empty(t, p.EndSessionURL(), "nothing is known before discovery")

	raw, err := p.AuthCodeURL(context.Background(), "state-1")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/authorize", u.Path)
	q := u.Query()
	assert.Equal(t, "client-1", q.Get("client_id"))
	assert.Equal(t, "state-1", q.Get("state"))
	assert.Equal(t, "select_account", q.Get("prompt"))
	assert.Contains(t, q.Get("scope"), "openid")

	assert.Equal(t, "https://issuer.example.org/logout", p.EndSessionURL())
}

func TestDiscoveryFailureIsAuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	p := NewOIDCProvider(&config.Config{OIDCIssuerURL: srv.URL, OIDCClientID: "client-1"})
	_, err := p.AuthCodeURL(context.Background(), "state-1")
	assert.ErrorIs(t, err, models.ErrAuthFailure)

	_, err = p.Exchange(context.Background(), "code")
	assert.ErrorIs(t, err, models.ErrAuthFailure)
}

func TestExchangeRequiresCode(t *testing.T) {
	p := NewOIDCProvider(&config.Config{OIDCIssuerURL: "http://127.0.0.1:0"})
	_, err := p.Exchange(context.Background(), "")
	assert.ErrorIs(t, err, models.ErrAuthFailure)
	assert.Empty(t, p.EndSessionURL())
}
