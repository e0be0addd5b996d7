package identity_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/orbithall-admin/backend"
	"github.com/jrsteele09/orbithall-admin/backend/backendfake"
	"github.com/jrsteele09/orbithall-admin/identity"
	"github.com/jrsteele09/orbithall-admin/sessions"
	"github.com/stretchr/testify/require"
)

func signedBackendToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "42",
		"exp": exp.Unix(),
	}).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return tok
}

func testIdentity() *identity.Identity {
	return &identity.Identity{
		Subject: "google-sub-1",
		Email:   "op@orbithall.dev",
		Name:    "Operator",
		Picture: "https://lh3.googleusercontent.com/p.png",
		IDToken: "google-id-token",
	}
}

func setupBridge(t *testing.T, backendToken string) (*backendfake.Backend, *identity.Bridge) {
	t.Helper()
	fake := backendfake.New(backendToken)
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)
	return fake, identity.NewBridge(backend.New(server.URL), 24*time.Hour)
}

func TestBridgeSignIn(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	backendToken := signedBackendToken(t, exp)
	fake, bridge := setupBridge(t, backendToken)

	rec := bridge.SignIn(context.Background(), testIdentity())
	require.Equal(t, "google-sub-1", rec.Subject)
	require.Equal(t, "op@orbithall.dev", rec.Email)
	require.Equal(t, backendToken, rec.BackendToken)
	require.True(t, exp.Equal(rec.BackendTokenExpiry))
	require.NotNil(t, rec.BackendUser)
	require.Equal(t, fake.User().ID, rec.BackendUser.ID)
	require.Equal(t, "https://lh3.googleusercontent.com/p.png", rec.BackendUser.PictureURL)
	require.True(t, rec.ExpiresAt.After(rec.CreatedAt))

	s := sessions.Materialize(rec, time.Now())
	require.True(t, s.HasBackendToken())
}

func TestBridgeDegradesOnBackendFailure(t *testing.T) {
	fake, bridge := setupBridge(t, "opaque-token")
	fake.FailWith("POST "+backend.VerifyPath, http.StatusInternalServerError)

	rec := bridge.SignIn(context.Background(), testIdentity())
	require.Equal(t, "op@orbithall.dev", rec.Email)
	require.Empty(t, rec.BackendToken)
	require.Nil(t, rec.BackendUser)
	require.False(t, sessions.Materialize(rec, time.Now()).HasBackendToken())
}

func TestBridgeDegradesOnNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()
	bridge := identity.NewBridge(backend.New(server.URL), time.Hour)

	rec := bridge.SignIn(context.Background(), testIdentity())
	require.Equal(t, "Operator", rec.Name)
	require.Empty(t, rec.BackendToken)
}

func TestBridgeWithoutIDToken(t *testing.T) {
	fake, bridge := setupBridge(t, "opaque-token")

	id := testIdentity()
	id.IDToken = ""
	rec := bridge.SignIn(context.Background(), id)
	require.Empty(t, rec.BackendToken)
	require.Zero(t, fake.RequestCount())

	rec = bridge.SignIn(context.Background(), nil)
	require.Empty(t, rec.Email)
	require.Zero(t, fake.RequestCount())
}

func TestBridgeOpaqueTokenHasNoExpiry(t *testing.T) {
	_, bridge := setupBridge(t, "opaque-token")

	rec := bridge.SignIn(context.Background(), testIdentity())
	require.Equal(t, "opaque-token", rec.BackendToken)
	require.True(t, rec.BackendTokenExpiry.IsZero())
}

func TestBridgeDegradesOnMalformedUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"opaque-token","user":{"id":42,"email":"op@orbithall.dev","created_at":"yesterday"}}`))
	}))
	t.Cleanup(server.Close)
	bridge := identity.NewBridge(backend.New(server.URL), time.Hour)

	rec := bridge.SignIn(context.Background(), testIdentity())
	require.Equal(t, "op@orbithall.dev", rec.Email)
	require.Empty(t, rec.BackendToken)
	require.Nil(t, rec.BackendUser)
}
