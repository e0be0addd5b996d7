// Package identity signs operators in with Google and bridges the Google identity to a
// backend session token.
package identity

import "context"

// Identity is the verified Google profile of the signed-in operator.
type Identity struct {
	Subject string
	Email   string
	Name    string
	Picture string
	IDToken string
}

// Provider drives the authorization code flow against the identity provider.
type Provider interface {
	// AuthCodeURL returns the URL the browser is sent to. verifier is the PKCE code verifier.
	AuthCodeURL(ctx context.Context, state, nonce, verifier string) (string, error)
	// Exchange redeems code and returns the verified identity. The ID token must carry nonce.
	Exchange(ctx context.Context, code, verifier, nonce string) (*Identity, error)
}
