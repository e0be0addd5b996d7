package server

import (
	"net/http"
	"net/url"

	apperrors "github.com/jrsteele09/orbithall-admin/internal/errors"
	"github.com/jrsteele09/orbithall-admin/sessions"
	"github.com/rs/zerolog/log"
)

// RequireSession is middleware for HTML/HTMX routes that resolves the signed session
// cookie and stores the materialized session in the request context.
func (s *Server) RequireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := s.loadSession(r)
		if err != nil {
			if !apperrors.Is(err, http.ErrNoCookie) {
				log.Ctx(r.Context()).Debug().Err(err).Msg("session rejected")
				s.cookies.Clear(w)
			}
			redirectSuccess(w, r, loginURL(returnPath(r)))
			return
		}

		next(w, r.WithContext(sessions.WithSession(r.Context(), session)))
	}
}

func (s *Server) loadSession(r *http.Request) (*sessions.Session, error) {
	sessionID, err := s.cookies.Read(r)
	if err != nil {
		return nil, err
	}

	record, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if record.Expired(now) {
		_ = s.sessions.Delete(sessionID)
		return nil, apperrors.ErrSessionExpired
	}

	return sessions.Materialize(record, now), nil
}

// returnPath is where the operator lands after signing in again. HTMX panels return
// to the page that hosted them.
func returnPath(r *http.Request) string {
	if isHTMXRequest(r) {
		current, err := url.Parse(r.Header.Get("HX-Current-URL"))
		if err != nil || current.Path == "" {
			return "/"
		}
		return current.RequestURI()
	}
	if r.Method != http.MethodGet {
		return "/"
	}
	return r.URL.RequestURI()
}
