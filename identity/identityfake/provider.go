// Package identityfake provides a scripted identity.Provider for handler tests.
package identityfake

import (
	"context"
	"errors"
	"net/url"
	"sync"

	"github.com/jrsteele09/orbithall-admin/identity"
)

var _ identity.Provider = (*Provider)(nil)

// Provider redirects to AuthURL and answers Exchange with Identity for the code Code.
type Provider struct {
	AuthURL  string
	Code     string
	Identity identity.Identity

	mu        sync.Mutex
	verifiers map[string]string
	lastNonce string
}

// New creates a fake that accepts code and returns id.
func New(code string, id identity.Identity) *Provider {
	return &Provider{
		AuthURL:   "https://accounts.example.test/o/oauth2/auth",
		Code:      code,
		Identity:  id,
		verifiers: make(map[string]string),
	}
}

func (p *Provider) AuthCodeURL(_ context.Context, state, nonce, verifier string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.verifiers[state] = verifier
	p.lastNonce = nonce

	q := url.Values{}
	q.Set("state", state)
	q.Set("nonce", nonce)
	return p.AuthURL + "?" + q.Encode(), nil
}

func (p *Provider) Exchange(_ context.Context, code, verifier, nonce string) (*identity.Identity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if code != p.Code {
		return nil, errors.New("invalid code")
	}
	if nonce != p.lastNonce {
		return nil, errors.New("nonce mismatch")
	}
	known := false
	for _, v := range p.verifiers {
		if v == verifier {
			known = true
			break
		}
	}
	if !known {
		return nil, errors.New("unknown code verifier")
	}

	id := p.Identity
	return &id, nil
}
