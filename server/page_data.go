package server

import (
	"net/http"

	"github.com/jrsteele09/orbithall-admin/sessions"
)

// basePage is shared by every full page rendered inside layout.html.
type basePage struct {
	AppName string
	Title   string
	Nav     string
	Session *sessions.Session
	Request *http.Request
	Error   string
	Notice  string
}

func (s *Server) newBasePage(r *http.Request, title, nav string) basePage {
	return basePage{
		AppName: s.config.GetAppName(),
		Title:   title,
		Nav:     nav,
		Session: sessions.FromContext(r.Context()),
		Request: r,
		Error:   r.URL.Query().Get("error"),
		Notice:  r.URL.Query().Get("notice"),
	}
}

// BackendReady reports whether backend pages can load.
func (p basePage) BackendReady() bool {
	return p.Session.HasBackendToken()
}

type errorPageData struct {
	basePage
	Status  int
	Message string
}

func (s *Server) errorPage(r *http.Request, status int, message string) errorPageData {
	return errorPageData{
		basePage: s.newBasePage(r, http.StatusText(status), ""),
		Status:   status,
		Message:  message,
	}
}
