// Package sites holds the resource actions for the backend's /admin/sites endpoints.
// Requests are snakified on the way out and responses camelized on the way back.
package sites

import (
	"context"
	"net/http"
	"strconv"

	"github.com/jrsteele09/orbithall-admin/backend"
	"github.com/jrsteele09/orbithall-admin/casing"
	apperrors "github.com/jrsteele09/orbithall-admin/internal/errors"
	"github.com/jrsteele09/orbithall-admin/sessions"
	"github.com/jrsteele09/orbithall-admin/viewcache"
)

const sitesAPIPath = "/admin/sites"

// Service performs one backend call per action.
type Service struct {
	client backend.Fetcher
	cache  viewcache.Cache
}

// NewService creates the site actions. A nil cache disables view caching.
func NewService(client backend.Fetcher, cache viewcache.Cache) *Service {
	if cache == nil {
		cache = viewcache.NewInMemoryCache(0)
	}
	return &Service{
		client: client,
		cache:  cache,
	}
}

// cacheScope identifies the backend user so cached views are never shared between operators.
func cacheScope(ctx context.Context) (string, error) {
	session := sessions.FromContext(ctx)
	if !session.HasBackendToken() {
		return "", apperrors.ErrBackendAuthRequired
	}
	if session.BackendUser != nil {
		return strconv.FormatInt(session.BackendUser.ID, 10), nil
	}
	return session.BackendToken, nil
}

func (s *Service) fetchInto(ctx context.Context, endpoint string, out any, opts ...backend.RequestOption) error {
	tree, err := s.client.FetchJSON(ctx, endpoint, opts...)
	if err != nil {
		return err
	}
	return casing.FromTree(casing.Camelize(tree), out)
}

// ListSites returns the sites owned by the signed-in operator.
func (s *Service) ListSites(ctx context.Context) ([]Site, error) {
	scope, err := cacheScope(ctx)
	if err != nil {
		return nil, err
	}
	if cached, ok := s.cache.Get(scope, ListPath); ok {
		return cloneSites(cached.([]Site)), nil
	}

	var resp struct {
		Sites []Site `json:"sites"`
	}
	if err := s.fetchInto(ctx, sitesAPIPath, &resp); err != nil {
		return nil, apperrors.Wrapf(err, "[sites ListSites]")
	}
	if resp.Sites == nil {
		resp.Sites = []Site{}
	}

	s.cache.Set(scope, ListPath, cloneSites(resp.Sites))
	return resp.Sites, nil
}

// GetSite returns one site.
func (s *Service) GetSite(ctx context.Context, id int64) (*Site, error) {
	scope, err := cacheScope(ctx)
	if err != nil {
		return nil, err
	}
	if cached, ok := s.cache.Get(scope, DetailPath(id)); ok {
		site := cached.(Site).clone()
		return &site, nil
	}

	var site Site
	if err := s.fetchInto(ctx, apiPath(id), &site); err != nil {
		return nil, apperrors.Wrapf(err, "[sites GetSite %d]", id)
	}

	s.cache.Set(scope, DetailPath(id), site.clone())
	return &site, nil
}

// CreateSite registers a site; the backend issues its API key.
func (s *Service) CreateSite(ctx context.Context, in SiteCreateInput) (*Site, error) {
	if _, err := cacheScope(ctx); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var site Site
	err := s.fetchInto(ctx, sitesAPIPath, &site,
		backend.WithMethod(http.MethodPost),
		backend.WithJSON(in),
	)
	if err != nil {
		return nil, apperrors.Wrapf(err, "[sites CreateSite]")
	}

	s.cache.Invalidate(ListPath)
	return &site, nil
}

// UpdateSite changes name, activation and CORS origins of a site.
func (s *Service) UpdateSite(ctx context.Context, id int64, in SiteUpdateInput) (*Site, error) {
	if _, err := cacheScope(ctx); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var site Site
	err := s.fetchInto(ctx, apiPath(id), &site,
		backend.WithMethod(http.MethodPut),
		backend.WithJSON(in),
	)
	if err != nil {
		return nil, apperrors.Wrapf(err, "[sites UpdateSite %d]", id)
	}

	s.cache.Invalidate(ListPath, DetailPath(id))
	return &site, nil
}

// DeleteSite removes a site. The backend cascades to its posts and comments.
func (s *Service) DeleteSite(ctx context.Context, id int64) error {
	if _, err := cacheScope(ctx); err != nil {
		return err
	}

	resp, err := s.client.Fetch(ctx, apiPath(id), backend.WithMethod(http.MethodDelete))
	if err != nil {
		return apperrors.Wrapf(err, "[sites DeleteSite %d]", id)
	}
	if err := resp.Err(); err != nil {
		return apperrors.Wrapf(err, "[sites DeleteSite %d] delete failed", id)
	}

	s.cache.Invalidate(ListPath, DetailPath(id))
	return nil
}

// GetSiteStats returns fresh usage counters; stats are never cached.
func (s *Service) GetSiteStats(ctx context.Context, id int64) (*SiteStats, error) {
	if _, err := cacheScope(ctx); err != nil {
		return nil, err
	}

	var stats SiteStats
	if err := s.fetchInto(ctx, apiPath(id)+"/stats", &stats); err != nil {
		return nil, apperrors.Wrapf(err, "[sites GetSiteStats %d]", id)
	}
	return &stats, nil
}

// GetSitePosts returns the posts of a site.
func (s *Service) GetSitePosts(ctx context.Context, id int64) ([]SitePost, error) {
	if _, err := cacheScope(ctx); err != nil {
		return nil, err
	}

	var resp struct {
		Posts []SitePost `json:"posts"`
	}
	if err := s.fetchInto(ctx, apiPath(id)+"/posts", &resp); err != nil {
		return nil, apperrors.Wrapf(err, "[sites GetSitePosts %d]", id)
	}
	if resp.Posts == nil {
		resp.Posts = []SitePost{}
	}
	return resp.Posts, nil
}

func cloneSites(in []Site) []Site {
	out := make([]Site, len(in))
	for i, site := range in {
		out[i] = site.clone()
	}
	return out
}
