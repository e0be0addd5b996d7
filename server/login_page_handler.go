package server

import (
	"net/http"

	"github.com/jrsteele09/orbithall-admin/server/authflowrepo"
	"golang.org/x/oauth2"
)

// LoginPageData contains data for rendering the login page
type LoginPageData struct {
	basePage
	ReturnTo string
}

// LoginPageHandler displays the sign-in page (GET /login)
func (s *Server) LoginPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := s.loadSession(r); err == nil {
			redirectSuccess(w, r, safeReturnURL(r.URL.Query().Get("returnTo")))
			return
		}

		data := LoginPageData{
			basePage: s.newBasePage(r, "Sign in", "login"),
			ReturnTo: safeReturnURL(r.URL.Query().Get("returnTo")),
		}
		s.renderPage(w, http.StatusOK, pageLogin, data)
	}
}

// GoogleLoginHandler starts the Google sign-in (GET /auth/google). The state, nonce and
// PKCE verifier are kept server-side until the callback.
func (s *Server) GoogleLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := generateRandomString(32)
		authState := &authflowrepo.AuthFlowState{
			CodeVerifier: oauth2.GenerateVerifier(),
			Nonce:        generateRandomString(32),
			ReturnURL:    safeReturnURL(r.URL.Query().Get("returnTo")),
			CreatedAt:    s.now(),
		}

		if err := s.authState.Upsert(state, authState); err != nil {
			redirectWithError(w, r, RouteLogin, "Failed to start sign-in")
			return
		}

		authURL, err := s.provider.AuthCodeURL(r.Context(), state, authState.Nonce, authState.CodeVerifier)
		if err != nil {
			_ = s.authState.Delete(state)
			logError(r, err, "failed to build authorization URL")
			redirectWithError(w, r, RouteLogin, "Google sign-in is unavailable")
			return
		}

		redirectSuccess(w, r, authURL)
	}
}

// LogoutHandler deletes the session and clears the cookie (POST /auth/logout)
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sessionID, err := s.cookies.Read(r); err == nil {
			_ = s.sessions.Delete(sessionID)
		}
		s.cookies.Clear(w)
		redirectSuccess(w, r, RouteLogin)
	}
}
