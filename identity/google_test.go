package identity_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/orbithall-admin/identity"
	apperrors "github.com/jrsteele09/orbithall-admin/internal/errors"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

const (
	testClientID = "admin-client.apps.googleusercontent.com"
	testKeyID    = "test-key"
)

// fakeIssuer is a minimal OIDC issuer: discovery, JWKS and a token endpoint that mints
// an RS256 ID token for the last nonce it was told about.
type fakeIssuer struct {
	server *httptest.Server
	key    *rsa.PrivateKey

	mu            sync.Mutex
	nonce         string
	audience      string
	lastVerifier  string
	discoveryHits int
}

func newFakeIssuer(t *testing.T) *fakeIssuer {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	f := &fakeIssuer{key: key, audience: testClientID}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /.well-known/openid-configuration", f.discovery)
	mux.HandleFunc("GET /keys", f.keys)
	mux.HandleFunc("POST /token", f.token)
	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeIssuer) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeIssuer) discovery(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	f.discoveryHits++
	f.mu.Unlock()

	base := f.server.URL
	f.writeJSON(w, map[string]any{
		"issuer":                                base,
		"authorization_endpoint":                base + "/auth",
		"token_endpoint":                        base + "/token",
		"jwks_uri":                              base + "/keys",
		"id_token_signing_alg_values_supported": []string{"RS256"},
	})
}

func (f *fakeIssuer) keys(w http.ResponseWriter, _ *http.Request) {
	pub := f.key.PublicKey
	f.writeJSON(w, map[string]any{
		"keys": []map[string]string{{
			"kty": "RSA",
			"alg": "RS256",
			"use": "sig",
			"kid": testKeyID,
			"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
		}},
	})
}

func (f *fakeIssuer) token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil || r.PostForm.Get("code") != "good-code" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
		return
	}

	f.mu.Lock()
	f.lastVerifier = r.PostForm.Get("code_verifier")
	nonce, audience := f.nonce, f.audience
	f.mu.Unlock()

	now := time.Now()
	idToken := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"iss":     f.server.URL,
		"aud":     audience,
		"sub":     "google-sub-1",
		"email":   "op@orbithall.dev",
		"name":    "Operator",
		"picture": "https://lh3.googleusercontent.com/p.png",
		"nonce":   nonce,
		"iat":     now.Unix(),
		"exp":     now.Add(time.Hour).Unix(),
	})
	idToken.Header["kid"] = testKeyID
	signed, err := idToken.SignedString(f.key)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	f.writeJSON(w, map[string]any{
		"access_token": "google-access-token",
		"token_type":   "Bearer",
		"expires_in":   3600,
		"id_token":     signed,
	})
}

func (f *fakeIssuer) setNonce(nonce string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nonce = nonce
}

func (f *fakeIssuer) provider() *identity.GoogleProvider {
	return identity.NewGoogleProvider(testClientID, "secret", "http://localhost:8080/auth/google/callback",
		identity.WithIssuer(f.server.URL),
		identity.WithHTTPClient(f.server.Client()),
	)
}

func TestGoogleProviderAuthCodeURL(t *testing.T) {
	issuer := newFakeIssuer(t)
	p := issuer.provider()
	verifier := oauth2.GenerateVerifier()

	raw, err := p.AuthCodeURL(context.Background(), "state-1", "nonce-1", verifier)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	q := u.Query()
	require.Equal(t, issuer.server.URL+"/auth", u.Scheme+"://"+u.Host+u.Path)
	require.Equal(t, "state-1", q.Get("state"))
	require.Equal(t, "nonce-1", q.Get("nonce"))
	require.Equal(t, testClientID, q.Get("client_id"))
	require.Equal(t, "S256", q.Get("code_challenge_method"))
	require.Equal(t, oauth2.S256ChallengeFromVerifier(verifier), q.Get("code_challenge"))
	require.Equal(t, "offline", q.Get("access_type"))
	require.Equal(t, "consent", q.Get("prompt"))
	require.Contains(t, q.Get("scope"), "openid")

	// discovery is cached
	_, err = p.AuthCodeURL(context.Background(), "state-2", "nonce-2", verifier)
	require.NoError(t, err)
	issuer.mu.Lock()
	defer issuer.mu.Unlock()
	require.Equal(t, 1, issuer.discoveryHits)
}

func TestGoogleProviderExchange(t *testing.T) {
	issuer := newFakeIssuer(t)
	p := issuer.provider()
	verifier := oauth2.GenerateVerifier()
	issuer.setNonce("nonce-1")

	id, err := p.Exchange(context.Background(), "good-code", verifier, "nonce-1")
	require.NoError(t, err)
	require.Equal(t, "google-sub-1", id.Subject)
	require.Equal(t, "op@orbithall.dev", id.Email)
	require.Equal(t, "Operator", id.Name)
	require.Equal(t, "https://lh3.googleusercontent.com/p.png", id.Picture)
	require.NotEmpty(t, id.IDToken)
	issuer.mu.Lock()
	require.Equal(t, verifier, issuer.lastVerifier)
	issuer.mu.Unlock()

	t.Run("nonce mismatch", func(t *testing.T) {
		issuer.setNonce("someone-else")
		_, err := p.Exchange(context.Background(), "good-code", verifier, "nonce-1")
		require.ErrorIs(t, err, apperrors.ErrInvalidState)
	})

	t.Run("bad code", func(t *testing.T) {
		_, err := p.Exchange(context.Background(), "bad-code", verifier, "nonce-1")
		require.Error(t, err)
	})

	t.Run("wrong audience", func(t *testing.T) {
		issuer.setNonce("nonce-1")
		issuer.mu.Lock()
		issuer.audience = "another-client"
		issuer.mu.Unlock()
		_, err := p.Exchange(context.Background(), "good-code", verifier, "nonce-1")
		require.Error(t, err)
		require.Contains(t, err.Error(), "verification failed")
	})
}

func TestGoogleProviderWithoutClientID(t *testing.T) {
	p := identity.NewGoogleProvider("", "", "http://localhost/cb")
	_, err := p.AuthCodeURL(context.Background(), "s", "n", "v")
	require.Error(t, err)
}
