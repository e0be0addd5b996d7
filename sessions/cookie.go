package sessions

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"golang.org/x/crypto/hkdf"
)

// CookieName is the name of the cookie holding the signed session ID
const CookieName = "orbithall_session"

// CookieCodec signs and encrypts the session ID stored in the browser.
type CookieCodec struct {
	codec  *securecookie.SecureCookie
	secure bool
	maxAge time.Duration
}

// NewCookieCodec derives the hash and block keys from secret.
func NewCookieCodec(secret []byte, secure bool, maxAge time.Duration) (*CookieCodec, error) {
	hashKey, err := DeriveKey(secret, "orbithall session hash", 64)
	if err != nil {
		return nil, err
	}
	blockKey, err := DeriveKey(secret, "orbithall session block", 32)
	if err != nil {
		return nil, err
	}

	codec := securecookie.New(hashKey, blockKey)
	codec.MaxAge(int(maxAge.Seconds()))

	return &CookieCodec{
		codec:  codec,
		secure: secure,
		maxAge: maxAge,
	}, nil
}

// DeriveKey expands secret into a key of size bytes bound to label.
func DeriveKey(secret []byte, label string, size int) ([]byte, error) {
	if len(secret) == 0 {
		return nil, errors.New("secret is required")
	}
	key := make([]byte, size)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(label)), key); err != nil {
		return nil, fmt.Errorf("[sessions DeriveKey] %w", err)
	}
	return key, nil
}

// Write sets the session cookie for sessionID.
func (c *CookieCodec) Write(w http.ResponseWriter, sessionID string) error {
	encoded, err := c.codec.Encode(CookieName, sessionID)
	if err != nil {
		return fmt.Errorf("[sessions CookieCodec] encode: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(c.maxAge.Seconds()),
	})
	return nil
}

// Read returns the session ID from the request cookie.
func (c *CookieCodec) Read(r *http.Request) (string, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", err
	}
	var sessionID string
	if err := c.codec.Decode(CookieName, cookie.Value, &sessionID); err != nil {
		return "", fmt.Errorf("[sessions CookieCodec] decode: %w", err)
	}
	return sessionID, nil
}

// Clear deletes the session cookie.
func (c *CookieCodec) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
