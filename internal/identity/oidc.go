package identity

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mineaction/internal/common/models"
	"mineaction/internal/config"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// OIDCProvider implements Provider with the OpenID Connect code flow.
// Issuer discovery happens on first use so the API can start while the
// issuer is unreachable.
type OIDCProvider struct {
	issuerURL    string
	clientID     string
	clientSecret string
	redirectURL  string

	mu            sync.Mutex
	verifier      *oidc.IDTokenVerifier
	oauth2Config  *oauth2.Config
	endSessionURL string
}

type idTokenClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	AuthTime      int64  `json:"auth_time"`
}

func NewOIDCProvider(cfg *config.Config) Provider {
	return &OIDCProvider{
		issuerURL:    cfg.OIDCIssuerURL,
		clientID:     cfg.OIDCClientID,
		clientSecret: cfg.OIDCClientSecret,
		redirectURL:  cfg.OIDCRedirectURL,
	}
}

func (p *OIDCProvider) discover(ctx context.Context) (*oauth2.Config, *oidc.IDTokenVerifier, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.oauth2Config != nil {
		return p.oauth2Config, p.verifier, nil
	}

	provider, err := oidc.NewProvider(ctx, p.issuerURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to discover OIDC provider: %w", err)
	}

	var extra struct {
		EndSessionEndpoint string `json:"end_session_endpoint"`
	}
	_ = provider.Claims(&extra)

	p.verifier = provider.Verifier(&oidc.Config{ClientID: p.clientID})
	p.oauth2Config = &oauth2.Config{
		ClientID:     p.clientID,
		ClientSecret: p.clientSecret,
		Endpoint:     provider.Endpoint(),
		RedirectURL:  p.redirectURL,
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
	}
	p.endSessionURL = extra.EndSessionEndpoint
	return p.oauth2Config, p.verifier, nil
}

func (p *OIDCProvider) AuthCodeURL(ctx context.Context, state string) (string, error) {
	cfg, _, err := p.discover(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", models.ErrAuthFailure, err)
	}
	return cfg.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account")), nil
}

func (p *OIDCProvider) Exchange(ctx context.Context, code string) (*models.Identity, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: missing authorization code", models.ErrAuthFailure)
	}

	cfg, verifier, err := p.discover(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrAuthFailure, err)
	}

	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to exchange token: %w", models.ErrAuthFailure, err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return nil, fmt.Errorf("%w: missing id_token in response", models.ErrAuthFailure)
	}

	idToken, err := verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to verify ID token: %w", models.ErrAuthFailure, err)
	}

	var claims idTokenClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("%w: failed to parse claims: %w", models.ErrAuthFailure, err)
	}

	return identityFromClaims(idToken.Subject, idToken.IssuedAt, claims), nil
}

func (p *OIDCProvider) EndSessionURL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.endSessionURL
}

func identityFromClaims(subject string, issuedAt time.Time, claims idTokenClaims) *models.Identity {
	lastSignIn := issuedAt
	if claims.AuthTime > 0 {
		lastSignIn = time.Unix(claims.AuthTime, 0).UTC()
	}
	return &models.Identity{
		UID:            subject,
		Email:          claims.Email,
		DisplayName:    claims.Name,
		PhotoURL:       claims.Picture,
		EmailVerified:  claims.EmailVerified,
		LastSignInTime: lastSignIn,
	}
}
