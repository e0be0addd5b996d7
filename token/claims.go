package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// BackendClaims is the subset of the backend JWT the console reads. The backend is the
// only party that verifies the signature; the console only needs the expiry and subject
// to decide whether the token is still worth sending.
type BackendClaims struct {
	Subject   string
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// ParseBackendClaims reads the claims of a backend JWT without verifying it.
func ParseBackendClaims(rawToken string) (*BackendClaims, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, errors.New("empty token")
	}

	unverifiedToken, _, err := jwtlib.NewParser().ParseUnverified(rawToken, jwtlib.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := unverifiedToken.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, errors.New("error extracting claims")
	}

	result := &BackendClaims{}
	if sub, err := claims.GetSubject(); err == nil {
		result.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		result.ExpiresAt = exp.Time
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		result.IssuedAt = iat.Time
	}
	return result, nil
}

// ExpiresAt returns the exp claim of a backend JWT. ok is false for opaque tokens and
// tokens without an exp claim.
func ExpiresAt(rawToken string) (exp time.Time, ok bool) {
	claims, err := ParseBackendClaims(rawToken)
	if err != nil || claims.ExpiresAt.IsZero() {
		return time.Time{}, false
	}
	return claims.ExpiresAt, true
}
