package sessions

import (
	"context"
	"time"
)

// BackendUser is the backend's user record, returned by the Google verification call.
type BackendUser struct {
	ID         int64     `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	PictureURL string    `json:"pictureUrl"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Record is the long-lived session token kept server-side after sign-in.
// BackendToken is empty when the backend handshake failed.
type Record struct {
	// Google identity
	ID      string
	Subject string
	Email   string
	Name    string
	Picture string

	// Backend credentials
	BackendToken       string
	BackendTokenExpiry time.Time // zero when the token carries no exp claim
	BackendUser        *BackendUser

	// Session management
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the record is past its lifetime.
func (r Record) Expired(now time.Time) bool {
	return !r.ExpiresAt.IsZero() && !now.Before(r.ExpiresAt)
}

// User is the identity-provider profile shown in the UI.
type User struct {
	Name    string
	Email   string
	Picture string
}

// Session is the per-request view of a Record.
type Session struct {
	ID           string
	User         User
	BackendToken string
	BackendUser  *BackendUser
}

// HasBackendToken reports whether backend calls can be made on behalf of the session.
func (s *Session) HasBackendToken() bool {
	return s != nil && s.BackendToken != ""
}

// Materialize builds the user-facing session from a stored record. Backend credentials
// are copied only when present and not expired.
func Materialize(rec Record, now time.Time) *Session {
	s := &Session{
		ID: rec.ID,
		User: User{
			Name:    rec.Name,
			Email:   rec.Email,
			Picture: rec.Picture,
		},
	}
	if rec.BackendToken == "" {
		return s
	}
	if !rec.BackendTokenExpiry.IsZero() && !now.Before(rec.BackendTokenExpiry) {
		return s
	}
	s.BackendToken = rec.BackendToken
	if rec.BackendUser != nil {
		u := *rec.BackendUser
		s.BackendUser = &u
	}
	return s
}

type contextKey string

const sessionContextKey contextKey = "session"

// WithSession returns a context carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, s)
}

// FromContext returns the session stored by WithSession, or nil.
func FromContext(ctx context.Context) *Session {
	if s, ok := ctx.Value(sessionContextKey).(*Session); ok {
		return s
	}
	return nil
}
