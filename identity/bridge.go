package identity

import (
	"context"
	"time"

	"github.com/jrsteele09/orbithall-admin/backend"
	"github.com/jrsteele09/orbithall-admin/sessions"
	"github.com/jrsteele09/orbithall-admin/token"
	"github.com/rs/zerolog/log"
)

// Verifier exchanges a Google identity for backend credentials.
type Verifier interface {
	VerifyGoogle(ctx context.Context, req backend.VerifyRequest) (*backend.VerifyResponse, error)
}

var _ Verifier = (*backend.Client)(nil)

// Bridge turns a Google sign-in into a session record carrying the backend JWT.
type Bridge struct {
	verifier   Verifier
	sessionTTL time.Duration
	now        func() time.Time
}

// NewBridge creates a bridge whose records live for sessionTTL.
func NewBridge(verifier Verifier, sessionTTL time.Duration) *Bridge {
	return &Bridge{
		verifier:   verifier,
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

// SignIn builds the session record for id. A failed backend handshake is logged and
// leaves the record without backend credentials; sign-in itself never fails.
func (b *Bridge) SignIn(ctx context.Context, id *Identity) sessions.Record {
	now := b.now()
	rec := sessions.Record{
		CreatedAt: now,
		ExpiresAt: now.Add(b.sessionTTL),
	}
	if id == nil {
		return rec
	}

	rec.Subject = id.Subject
	rec.Email = id.Email
	rec.Name = id.Name
	rec.Picture = id.Picture

	if id.IDToken == "" {
		log.Warn().Str("email", id.Email).Msg("no Google ID token, skipping backend verification")
		return rec
	}

	resp, err := b.verifier.VerifyGoogle(ctx, backend.VerifyRequest{
		IDToken: id.IDToken,
		Email:   id.Email,
		Name:    id.Name,
		Picture: id.Picture,
	})
	if err != nil {
		log.Err(err).Str("email", id.Email).Msg("backend verification failed")
		return rec
	}

	user := resp.User
	rec.BackendToken = resp.Token
	rec.BackendUser = &user
	if exp, ok := token.ExpiresAt(resp.Token); ok {
		rec.BackendTokenExpiry = exp
	}

	log.Info().Int64("backendUserId", user.ID).Str("email", id.Email).Msg("backend verification succeeded")
	return rec
}
