package server

import (
	"net/http"
)

// IndexHandler renders the home page: the signed-in user and the backend auth status
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.renderPage(w, http.StatusOK, pageHome, s.newBasePage(r, "Home", "home"))
	}
}
