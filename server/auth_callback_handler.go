package server

import (
	"net/http"

	"github.com/google/uuid"
)

// GoogleCallbackHandler finishes the Google sign-in (GET /auth/google/callback): it
// redeems the code, bridges the identity to the backend and starts the console session.
func (s *Server) GoogleCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := r.FormValue("state")
		code := r.FormValue("code")
		errorParam := r.FormValue("error")

		// Check for authorization errors
		if errorParam != "" {
			redirectWithError(w, r, RouteLogin, "Google sign-in failed: "+errorParam)
			return
		}

		if code == "" || state == "" {
			redirectWithError(w, r, RouteLogin, "Missing code or state parameter")
			return
		}

		// The state is single use
		authState, err := s.authState.Take(state)
		if err != nil {
			redirectWithError(w, r, RouteLogin, "Invalid state parameter")
			return
		}
		if authState.Expired(s.now(), s.config.GetAuthFlowTimeout()) {
			redirectWithError(w, r, RouteLogin, "Sign-in took too long, please try again")
			return
		}

		id, err := s.provider.Exchange(r.Context(), code, authState.CodeVerifier, authState.Nonce)
		if err != nil {
			logError(r, err, "google code exchange failed")
			redirectWithError(w, r, RouteLogin, "Google sign-in failed")
			return
		}

		record := s.bridge.SignIn(r.Context(), id)

		sessionID := uuid.NewString()
		if err := s.sessions.Upsert(sessionID, record); err != nil {
			logError(r, err, "failed to create session")
			redirectWithError(w, r, RouteLogin, "Failed to create session")
			return
		}

		if err := s.cookies.Write(w, sessionID); err != nil {
			_ = s.sessions.Delete(sessionID)
			logError(r, err, "failed to write session cookie")
			redirectWithError(w, r, RouteLogin, "Failed to create session")
			return
		}

		redirectSuccess(w, r, safeReturnURL(authState.ReturnURL))
	}
}
