package server

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	apperrors "github.com/jrsteele09/orbithall-admin/internal/errors"
	"github.com/jrsteele09/orbithall-admin/sites"
)

// SitesPageData is the model of the sites table
type SitesPageData struct {
	basePage
	Sites     []sites.Site
	LoadError string
}

// SiteFormPageData is the model of the create and edit forms
type SiteFormPageData struct {
	basePage
	Site      *sites.Site
	Form      siteForm
	Errors    sites.FieldErrors
	LoadError string
}

// SiteDetailPageData is the model of the site detail page
type SiteDetailPageData struct {
	basePage
	Site      *sites.Site
	LoadError string
}

func siteIDFromPath(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.Wrapf(apperrors.ErrNotFound, "invalid site id %q", r.PathValue("id"))
	}
	return id, nil
}

func sitePath(id int64) string {
	return fmt.Sprintf("%s/%d", RouteSites, id)
}

func withNotice(path, notice string) string {
	return path + "?notice=" + url.QueryEscape(notice)
}

// SitesListHandler renders the sites table (GET /sites)
func (s *Server) SitesListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := SitesPageData{basePage: s.newBasePage(r, "Sites", "sites")}
		if !data.BackendReady() {
			s.renderPage(w, http.StatusOK, pageSites, data)
			return
		}

		list, err := s.sites.ListSites(r.Context())
		if err != nil {
			logError(r, err, "failed to list sites")
			data.LoadError = errorMessage(err)
			s.renderPage(w, errorStatus(err), pageSites, data)
			return
		}

		data.Sites = list
		s.renderPage(w, http.StatusOK, pageSites, data)
	}
}

// SiteNewHandler renders the create form (GET /sites/new)
func (s *Server) SiteNewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := SiteFormPageData{
			basePage: s.newBasePage(r, "New site", "sites"),
			Form:     siteForm{IsActive: true},
		}
		s.renderPage(w, http.StatusOK, pageSiteNew, data)
	}
}

// SiteCreateHandler registers a site (POST /sites)
func (s *Server) SiteCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := SiteFormPageData{basePage: s.newBasePage(r, "New site", "sites")}

		form, err := parseSiteForm(r)
		if err != nil {
			data.Error = "Invalid form submission"
			s.renderPage(w, http.StatusBadRequest, pageSiteNew, data)
			return
		}
		data.Form = form

		if _, err := s.sites.CreateSite(r.Context(), form.createInput()); err != nil {
			s.renderFormError(w, r, pageSiteNew, data, err)
			return
		}

		redirectSuccess(w, r, withNotice(RouteSites, "Site created"))
	}
}

// SiteDetailHandler renders a site; stats and posts load as separate panels (GET /sites/{id})
func (s *Server) SiteDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := SiteDetailPageData{basePage: s.newBasePage(r, "Site", "sites")}
		if !data.BackendReady() {
			s.renderPage(w, http.StatusOK, pageSiteDetail, data)
			return
		}

		site, status, err := s.loadSite(r)
		if err != nil {
			data.LoadError = errorMessage(err)
			s.renderPage(w, status, pageSiteDetail, data)
			return
		}

		data.Site = site
		data.Title = site.Name
		s.renderPage(w, http.StatusOK, pageSiteDetail, data)
	}
}

// SiteEditHandler renders the edit form (GET /sites/{id}/edit)
func (s *Server) SiteEditHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := SiteFormPageData{basePage: s.newBasePage(r, "Edit site", "sites")}
		if !data.BackendReady() {
			s.renderPage(w, http.StatusOK, pageSiteEdit, data)
			return
		}

		// data.Error may carry a failed delete from the redirect; the load failure is shown apart.
		site, status, err := s.loadSite(r)
		if err != nil {
			data.LoadError = errorMessage(err)
			s.renderPage(w, status, pageSiteEdit, data)
			return
		}

		data.Site = site
		data.Form = siteFormFrom(site)
		s.renderPage(w, http.StatusOK, pageSiteEdit, data)
	}
}

// SiteUpdateHandler saves the edit form (POST /sites/{id})
func (s *Server) SiteUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := SiteFormPageData{basePage: s.newBasePage(r, "Edit site", "sites")}

		id, err := siteIDFromPath(r)
		if err != nil {
			s.renderPage(w, http.StatusNotFound, pageError, s.errorPage(r, http.StatusNotFound, "Site not found"))
			return
		}

		form, err := parseSiteForm(r)
		if err != nil {
			data.Error = "Invalid form submission"
			s.renderPage(w, http.StatusBadRequest, pageSiteEdit, data)
			return
		}
		data.Form = form

		site, err := s.sites.UpdateSite(r.Context(), id, form.updateInput())
		if err != nil {
			// The read-only fields come from the current site when it can still be loaded.
			if current, loadErr := s.sites.GetSite(r.Context(), id); loadErr == nil {
				data.Site = current
			}
			s.renderFormError(w, r, pageSiteEdit, data, err)
			return
		}

		redirectSuccess(w, r, withNotice(sitePath(site.ID), "Site updated"))
	}
}

// SiteDeleteHandler deletes a site and returns to the list (POST /sites/{id}/delete)
func (s *Server) SiteDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := siteIDFromPath(r)
		if err != nil {
			s.renderPage(w, http.StatusNotFound, pageError, s.errorPage(r, http.StatusNotFound, "Site not found"))
			return
		}

		if err := s.sites.DeleteSite(r.Context(), id); err != nil {
			logError(r, err, "failed to delete site")
			redirectWithError(w, r, sitePath(id)+"/edit", "Failed to delete site: "+errorMessage(err))
			return
		}

		redirectSuccess(w, r, withNotice(RouteSites, "Site deleted"))
	}
}

func (s *Server) loadSite(r *http.Request) (*sites.Site, int, error) {
	id, err := siteIDFromPath(r)
	if err != nil {
		return nil, http.StatusNotFound, err
	}
	site, err := s.sites.GetSite(r.Context(), id)
	if err != nil {
		logError(r, err, "failed to load site")
		return nil, errorStatus(err), err
	}
	return site, http.StatusOK, nil
}

// renderFormError re-renders a form with field errors or a form-level error message.
func (s *Server) renderFormError(w http.ResponseWriter, r *http.Request, page string, data SiteFormPageData, err error) {
	var fieldErrs sites.FieldErrors
	if apperrors.As(err, &fieldErrs) {
		data.Errors = fieldErrs
	} else {
		logError(r, err, "site action failed")
		data.Error = errorMessage(err)
	}
	s.renderPage(w, errorStatus(err), page, data)
}
