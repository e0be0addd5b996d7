package identity

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/coreos/go-oidc/v3/oidc"
	apperrors "github.com/jrsteele09/orbithall-admin/internal/errors"
	"golang.org/x/oauth2"
)

// GoogleIssuer is Google's OIDC issuer.
const GoogleIssuer = "https://accounts.google.com"

type oidcConfig struct {
	provider *oidc.Provider
	oauth2   *oauth2.Config
	verifier *oidc.IDTokenVerifier
}

var _ Provider = (*GoogleProvider)(nil)

// GoogleProvider discovers the issuer on first use and caches the result.
type GoogleProvider struct {
	clientID     string
	clientSecret string
	issuer       string
	redirectURL  string
	httpClient   *http.Client

	mu     sync.RWMutex
	config *oidcConfig
}

// GoogleOption configures a GoogleProvider.
type GoogleOption func(*GoogleProvider)

// WithIssuer points the provider at a different OIDC issuer.
func WithIssuer(issuer string) GoogleOption {
	return func(p *GoogleProvider) {
		if issuer != "" {
			p.issuer = issuer
		}
	}
}

// WithHTTPClient sets the client used for discovery, key fetching and code exchange.
func WithHTTPClient(hc *http.Client) GoogleOption {
	return func(p *GoogleProvider) {
		p.httpClient = hc
	}
}

// NewGoogleProvider creates a provider for the given OAuth client.
func NewGoogleProvider(clientID, clientSecret, redirectURL string, opts ...GoogleOption) *GoogleProvider {
	p := &GoogleProvider{
		clientID:     clientID,
		clientSecret: clientSecret,
		issuer:       GoogleIssuer,
		redirectURL:  redirectURL,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *GoogleProvider) clientContext(ctx context.Context) context.Context {
	if p.httpClient == nil {
		return ctx
	}
	return oidc.ClientContext(ctx, p.httpClient)
}

func (p *GoogleProvider) getConfig(ctx context.Context) (*oidcConfig, error) {
	p.mu.RLock()
	cfg := p.config
	p.mu.RUnlock()
	if cfg != nil {
		return cfg, nil
	}

	if p.clientID == "" {
		return nil, fmt.Errorf("[identity GoogleProvider] client id is not configured")
	}

	provider, err := oidc.NewProvider(p.clientContext(ctx), p.issuer)
	if err != nil {
		return nil, fmt.Errorf("[identity GoogleProvider] failed to create OIDC provider: %w", err)
	}

	cfg = &oidcConfig{
		provider: provider,
		oauth2: &oauth2.Config{
			ClientID:     p.clientID,
			ClientSecret: p.clientSecret,
			Endpoint:     provider.Endpoint(),
			RedirectURL:  p.redirectURL,
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
		verifier: provider.Verifier(&oidc.Config{
			ClientID: p.clientID,
		}),
	}

	p.mu.Lock()
	if p.config == nil {
		p.config = cfg
	}
	cfg = p.config
	p.mu.Unlock()

	return cfg, nil
}

func (p *GoogleProvider) AuthCodeURL(ctx context.Context, state, nonce, verifier string) (string, error) {
	cfg, err := p.getConfig(ctx)
	if err != nil {
		return "", err
	}
	return cfg.oauth2.AuthCodeURL(state,
		oidc.Nonce(nonce),
		oauth2.S256ChallengeOption(verifier),
		oauth2.AccessTypeOffline,
		oauth2.ApprovalForce,
	), nil
}

func (p *GoogleProvider) Exchange(ctx context.Context, code, verifier, nonce string) (*Identity, error) {
	cfg, err := p.getConfig(ctx)
	if err != nil {
		return nil, err
	}

	ctx = p.clientContext(ctx)
	oauth2Token, err := cfg.oauth2.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("[identity GoogleProvider] token exchange failed: %w", err)
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, fmt.Errorf("[identity GoogleProvider] no id_token in token response")
	}

	idToken, err := cfg.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("[identity GoogleProvider] id token verification failed: %w", err)
	}

	var claims struct {
		Nonce   string `json:"nonce"`
		Sub     string `json:"sub"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("[identity GoogleProvider] failed to extract claims: %w", err)
	}

	if claims.Nonce != nonce {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidState, "[identity GoogleProvider] nonce mismatch")
	}

	return &Identity{
		Subject: claims.Sub,
		Email:   claims.Email,
		Name:    claims.Name,
		Picture: claims.Picture,
		IDToken: rawIDToken,
	}, nil
}
