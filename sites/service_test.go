package sites_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/jrsteele09/orbithall-admin/backend"
	"github.com/jrsteele09/orbithall-admin/backend/backendfake"
	apperrors "github.com/jrsteele09/orbithall-admin/internal/errors"
	"github.com/jrsteele09/orbithall-admin/internal/utils"
	"github.com/jrsteele09/orbithall-admin/sessions"
	"github.com/jrsteele09/orbithall-admin/sites"
	"github.com/jrsteele09/orbithall-admin/viewcache"
	"github.com/stretchr/testify/require"
)

type testFixture struct {
	fake    *backendfake.Backend
	cache   *viewcache.InMemoryCache
	service *sites.Service
	ctx     context.Context
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()
	fake := backendfake.New("backend-token")
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	cache := viewcache.NewInMemoryCache(time.Minute)
	return &testFixture{
		fake:    fake,
		cache:   cache,
		service: sites.NewService(backend.New(server.URL), cache),
		ctx: sessions.WithSession(context.Background(), &sessions.Session{
			ID:           "s1",
			BackendToken: "backend-token",
			BackendUser:  &sessions.BackendUser{ID: 42},
		}),
	}
}

func validCreateInput() sites.SiteCreateInput {
	return sites.SiteCreateInput{
		Name:        "Blog",
		Domain:      "https://blog.example.com",
		CORSOrigins: []string{"https://blog.example.com", "https://www.blog.example.com"},
	}
}

func TestCreateThenList(t *testing.T) {
	f := setupTestFixture(t)

	created, err := f.service.CreateSite(f.ctx, validCreateInput())
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.Equal(t, "Blog", created.Name)
	require.True(t, created.IsActive)
	require.NotEmpty(t, created.APIKey)
	require.Equal(t, validCreateInput().CORSOrigins, created.CORSOrigins)
	require.False(t, created.CreatedAt.IsZero())

	list, err := f.service.ListSites(f.ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, *created, list[0])

	body := f.fake.Requests()[0].Body
	require.Contains(t, body, `"cors_origins"`)
}

func TestListEmpty(t *testing.T) {
	f := setupTestFixture(t)
	list, err := f.service.ListSites(f.ctx)
	require.NoError(t, err)
	require.NotNil(t, list)
	require.Empty(t, list)
}

func TestGetSite(t *testing.T) {
	f := setupTestFixture(t)
	stored := f.fake.AddSite("Docs", "https://docs.example.com", "https://docs.example.com")

	site, err := f.service.GetSite(f.ctx, stored.ID)
	require.NoError(t, err)
	require.Equal(t, stored.APIKey, site.APIKey)
	require.Equal(t, []string{"https://docs.example.com"}, site.CORSOrigins)

	_, err = f.service.GetSite(f.ctx, 999)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	require.Contains(t, err.Error(), "404")
}

func TestUpdateSite(t *testing.T) {
	f := setupTestFixture(t)
	stored := f.fake.AddSite("Docs", "https://docs.example.com", "https://docs.example.com")

	updated, err := f.service.UpdateSite(f.ctx, stored.ID, sites.SiteUpdateInput{
		Name:     utils.Ptr("Docs v2"),
		IsActive: utils.Ptr(false),
	})
	require.NoError(t, err)
	require.Equal(t, "Docs v2", updated.Name)
	require.False(t, updated.IsActive)
	require.Equal(t, "https://docs.example.com", updated.Domain)
	require.Equal(t, []string{"https://docs.example.com"}, updated.CORSOrigins)

	requests := f.fake.Requests()
	last := requests[len(requests)-1]
	require.Equal(t, http.MethodPut, last.Method)
	require.Contains(t, last.Body, `"is_active":false`)
	require.NotContains(t, last.Body, "cors_origins")
}

func TestValidationPreventsBackendCalls(t *testing.T) {
	f := setupTestFixture(t)

	in := validCreateInput()
	in.Name = ""
	in.Domain = "not a url"
	in.CORSOrigins = nil
	_, err := f.service.CreateSite(f.ctx, in)
	require.ErrorIs(t, err, apperrors.ErrValidation)

	var fieldErrs sites.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	require.Contains(t, fieldErrs, "name")
	require.Contains(t, fieldErrs, "domain")
	require.Contains(t, fieldErrs, "corsOrigins")

	_, err = f.service.UpdateSite(f.ctx, 1, sites.SiteUpdateInput{CORSOrigins: []string{}})
	require.ErrorIs(t, err, apperrors.ErrValidation)

	require.Zero(t, f.fake.RequestCount())
}

func TestNonSuccessStatusSurfaces(t *testing.T) {
	f := setupTestFixture(t)
	f.fake.FailWith("POST /admin/sites", http.StatusInternalServerError)

	_, err := f.service.CreateSite(f.ctx, validCreateInput())
	require.Error(t, err)
	require.Contains(t, err.Error(), "500")

	var apiErr *apperrors.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
}

func TestDeleteSite(t *testing.T) {
	f := setupTestFixture(t)
	stored := f.fake.AddSite("Docs", "https://docs.example.com", "https://docs.example.com")

	require.NoError(t, f.service.DeleteSite(f.ctx, stored.ID))
	_, ok := f.fake.Site(stored.ID)
	require.False(t, ok)

	t.Run("missing site is a not-found failure", func(t *testing.T) {
		err := f.service.DeleteSite(f.ctx, stored.ID)
		require.ErrorIs(t, err, apperrors.ErrNotFound)
		require.Contains(t, err.Error(), "404")
	})

	t.Run("server error is a hard failure", func(t *testing.T) {
		other := f.fake.AddSite("Other", "https://other.example.com")
		f.fake.FailWith("DELETE /admin/sites/"+strconv.FormatInt(other.ID, 10), http.StatusBadGateway)
		err := f.service.DeleteSite(f.ctx, other.ID)
		require.Error(t, err)
		require.NotErrorIs(t, err, apperrors.ErrNotFound)
		_, ok := f.fake.Site(other.ID)
		require.True(t, ok)
	})
}

func TestStatsAndPosts(t *testing.T) {
	f := setupTestFixture(t)
	stored := f.fake.AddSite("Blog", "https://blog.example.com", "https://blog.example.com")
	f.fake.AddPost(stored.ID, "https://blog.example.com/a", utils.Ptr("Hello"), 3, 1)
	f.fake.AddPost(stored.ID, "https://blog.example.com/b", nil, 2, 0)

	stats, err := f.service.GetSiteStats(f.ctx, stored.ID)
	require.NoError(t, err)
	require.Equal(t, sites.SiteStats{PostCount: 2, CommentCount: 5, DeletedCommentCount: 1}, *stats)

	posts, err := f.service.GetSitePosts(f.ctx, stored.ID)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	require.Equal(t, stored.ID, posts[0].SiteID)
	require.Equal(t, "Hello", *posts[0].Title)
	require.Equal(t, 3, posts[0].ActiveCommentCount)
	require.Nil(t, posts[1].Title)

	_, err = f.service.GetSiteStats(f.ctx, 999)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestActionsRequireBackendToken(t *testing.T) {
	f := setupTestFixture(t)
	stored := f.fake.AddSite("Blog", "https://blog.example.com")

	// warm the cache so the check cannot be satisfied by a hit
	_, err := f.service.ListSites(f.ctx)
	require.NoError(t, err)
	before := f.fake.RequestCount()

	contexts := map[string]context.Context{
		"no session":       context.Background(),
		"no backend token": sessions.WithSession(context.Background(), &sessions.Session{ID: "s2", BackendUser: &sessions.BackendUser{ID: 42}}),
	}
	for name, ctx := range contexts {
		t.Run(name, func(t *testing.T) {
			_, err := f.service.ListSites(ctx)
			require.ErrorIs(t, err, apperrors.ErrBackendAuthRequired)
			_, err = f.service.GetSite(ctx, stored.ID)
			require.ErrorIs(t, err, apperrors.ErrBackendAuthRequired)
			_, err = f.service.CreateSite(ctx, validCreateInput())
			require.ErrorIs(t, err, apperrors.ErrBackendAuthRequired)
			_, err = f.service.UpdateSite(ctx, stored.ID, sites.SiteUpdateInput{})
			require.ErrorIs(t, err, apperrors.ErrBackendAuthRequired)
			require.ErrorIs(t, f.service.DeleteSite(ctx, stored.ID), apperrors.ErrBackendAuthRequired)
			_, err = f.service.GetSiteStats(ctx, stored.ID)
			require.ErrorIs(t, err, apperrors.ErrBackendAuthRequired)
			_, err = f.service.GetSitePosts(ctx, stored.ID)
			require.ErrorIs(t, err, apperrors.ErrBackendAuthRequired)
		})
	}
	require.Equal(t, before, f.fake.RequestCount())
}

func TestViewCache(t *testing.T) {
	f := setupTestFixture(t)
	stored := f.fake.AddSite("Blog", "https://blog.example.com", "https://blog.example.com")

	_, err := f.service.ListSites(f.ctx)
	require.NoError(t, err)
	_, err = f.service.GetSite(f.ctx, stored.ID)
	require.NoError(t, err)
	require.Equal(t, 2, f.fake.RequestCount())

	t.Run("reads are served from the cache", func(t *testing.T) {
		list, err := f.service.ListSites(f.ctx)
		require.NoError(t, err)
		list[0].Name = "mutated by caller"
		list[0].CORSOrigins[0] = "mutated"

		_, err = f.service.GetSite(f.ctx, stored.ID)
		require.NoError(t, err)
		require.Equal(t, 2, f.fake.RequestCount())

		again, err := f.service.ListSites(f.ctx)
		require.NoError(t, err)
		require.Equal(t, "Blog", again[0].Name)
		require.Equal(t, "https://blog.example.com", again[0].CORSOrigins[0])
	})

	t.Run("other operators do not share entries", func(t *testing.T) {
		other := sessions.WithSession(context.Background(), &sessions.Session{
			ID: "s9", BackendToken: "backend-token", BackendUser: &sessions.BackendUser{ID: 7},
		})
		_, err := f.service.ListSites(other)
		require.NoError(t, err)
		require.Equal(t, 3, f.fake.RequestCount())
	})

	t.Run("update invalidates list and detail", func(t *testing.T) {
		_, err := f.service.UpdateSite(f.ctx, stored.ID, sites.SiteUpdateInput{Name: utils.Ptr("Renamed")})
		require.NoError(t, err)

		list, err := f.service.ListSites(f.ctx)
		require.NoError(t, err)
		require.Equal(t, "Renamed", list[0].Name)
		site, err := f.service.GetSite(f.ctx, stored.ID)
		require.NoError(t, err)
		require.Equal(t, "Renamed", site.Name)
	})

	t.Run("create invalidates the list", func(t *testing.T) {
		_, err := f.service.CreateSite(f.ctx, validCreateInput())
		require.NoError(t, err)
		list, err := f.service.ListSites(f.ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
	})

	t.Run("delete invalidates the list", func(t *testing.T) {
		require.NoError(t, f.service.DeleteSite(f.ctx, stored.ID))
		list, err := f.service.ListSites(f.ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		_, err = f.service.GetSite(f.ctx, stored.ID)
		require.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}
