package server

import (
	"net/http"

	"github.com/jrsteele09/orbithall-admin/sites"
)

// panelData is the model of an HTMX panel. A failing panel renders its own error and
// never affects the rest of the page.
type panelData struct {
	SiteID int64
	Error  string
	Stats  *sites.SiteStats
	Posts  []sites.SitePost
}

// SiteStatsPanelHandler renders the statistics panel (GET /sites/{id}/stats)
func (s *Server) SiteStatsPanelHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := siteIDFromPath(r)
		if err != nil {
			s.renderFragment(w, http.StatusNotFound, fragmentStats, panelData{Error: errorMessage(err)})
			return
		}

		stats, err := s.sites.GetSiteStats(r.Context(), id)
		if err != nil {
			logError(r, err, "failed to load site stats")
			s.renderFragment(w, panelStatus(r, err), fragmentStats, panelData{SiteID: id, Error: errorMessage(err)})
			return
		}
		s.renderFragment(w, http.StatusOK, fragmentStats, panelData{SiteID: id, Stats: stats})
	}
}

// SitePostsPanelHandler renders the posts panel (GET /sites/{id}/posts)
func (s *Server) SitePostsPanelHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := siteIDFromPath(r)
		if err != nil {
			s.renderFragment(w, http.StatusNotFound, fragmentPosts, panelData{Error: errorMessage(err)})
			return
		}

		posts, err := s.sites.GetSitePosts(r.Context(), id)
		if err != nil {
			logError(r, err, "failed to load site posts")
			s.renderFragment(w, panelStatus(r, err), fragmentPosts, panelData{SiteID: id, Error: errorMessage(err)})
			return
		}
		s.renderFragment(w, http.StatusOK, fragmentPosts, panelData{SiteID: id, Posts: posts})
	}
}

// panelStatus keeps HTMX swapping the error panel in: htmx ignores non-2xx responses by
// default, so panel errors are answered with 200 for HTMX and the real status otherwise.
func panelStatus(r *http.Request, err error) int {
	if isHTMXRequest(r) {
		return http.StatusOK
	}
	return errorStatus(err)
}
