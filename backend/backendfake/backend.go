// Package backendfake is an in-memory OrbitHall backend for tests. It speaks snake_case
// JSON like the real API and is served through httptest.
package backendfake

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Site is a stored site as the backend serializes it.
type Site struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Domain      string    `json:"domain"`
	APIKey      string    `json:"api_key"`
	IsActive    bool      `json:"is_active"`
	CORSOrigins []string  `json:"cors_origins"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Post is a stored post as the backend serializes it.
type Post struct {
	ID                  int64     `json:"id"`
	SiteID              int64     `json:"site_id"`
	URL                 string    `json:"url"`
	Title               *string   `json:"title,omitempty"`
	ActiveCommentCount  int       `json:"active_comment_count"`
	DeletedCommentCount int       `json:"deleted_comment_count"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// User is the backend user returned by the verification endpoint.
type User struct {
	ID         int64     `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	PictureURL string    `json:"picture_url"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Request is a request observed by the fake.
type Request struct {
	Method        string
	Path          string
	Authorization string
	Body          string
}

// Backend is the fake. Its zero value is not usable, use New.
type Backend struct {
	mu       sync.RWMutex
	mux      *http.ServeMux
	token    string
	user     User
	sites    map[int64]*Site
	posts    map[int64][]Post
	nextID   int64
	failures map[string]int
	requests []Request
	now      func() time.Time
}

var _ http.Handler = (*Backend)(nil)

// New creates a fake that issues token to every verified Google identity.
func New(token string) *Backend {
	b := &Backend{
		mux:      http.NewServeMux(),
		token:    token,
		sites:    make(map[int64]*Site),
		posts:    make(map[int64][]Post),
		nextID:   1,
		failures: make(map[string]int),
		now:      time.Now,
	}
	b.user = User{ID: 42, CreatedAt: b.now().UTC(), UpdatedAt: b.now().UTC()}

	b.mux.HandleFunc("POST /auth/google/verify", b.verify)
	b.mux.HandleFunc("GET /admin/sites", b.authed(b.listSites))
	b.mux.HandleFunc("POST /admin/sites", b.authed(b.createSite))
	b.mux.HandleFunc("GET /admin/sites/{id}", b.authed(b.getSite))
	b.mux.HandleFunc("PUT /admin/sites/{id}", b.authed(b.updateSite))
	b.mux.HandleFunc("DELETE /admin/sites/{id}", b.authed(b.deleteSite))
	b.mux.HandleFunc("GET /admin/sites/{id}/stats", b.authed(b.siteStats))
	b.mux.HandleFunc("GET /admin/sites/{id}/posts", b.authed(b.sitePosts))
	return b
}

// Token returns the bearer token the fake accepts.
func (b *Backend) Token() string {
	return b.token
}

// User returns the backend user handed out on verification.
func (b *Backend) User() User {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.user
}

// FailWith makes every request whose "METHOD path" equals route answer with status.
// A status of 0 removes the failure.
func (b *Backend) FailWith(route string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if status == 0 {
		delete(b.failures, route)
		return
	}
	b.failures[route] = status
}

// AddSite stores a site directly and returns it with its id and API key.
func (b *Backend) AddSite(name, domain string, origins ...string) Site {
	b.mu.Lock()
	defer b.mu.Unlock()
	return *b.insertSite(name, domain, origins)
}

// AddPost attaches a post to a site.
func (b *Backend) AddPost(siteID int64, url string, title *string, active, deleted int) Post {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.now().UTC()
	p := Post{
		ID:                  b.nextID,
		SiteID:              siteID,
		URL:                 url,
		Title:               title,
		ActiveCommentCount:  active,
		DeletedCommentCount: deleted,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	b.nextID++
	b.posts[siteID] = append(b.posts[siteID], p)
	return p
}

// Site returns a stored site.
func (b *Backend) Site(id int64) (Site, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s, ok := b.sites[id]
	if !ok {
		return Site{}, false
	}
	return *s, true
}

// Requests returns every request seen so far.
func (b *Backend) Requests() []Request {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Request, len(b.requests))
	copy(out, b.requests)
	return out
}

// RequestCount returns how many requests the fake has received.
func (b *Backend) RequestCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.requests)
}

func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body := readBody(r)

	b.mu.Lock()
	b.requests = append(b.requests, Request{
		Method:        r.Method,
		Path:          r.URL.Path,
		Authorization: r.Header.Get("Authorization"),
		Body:          body,
	})
	status, failing := b.failures[r.Method+" "+r.URL.Path]
	b.mu.Unlock()

	if failing {
		writeJSON(w, status, map[string]string{"error": http.StatusText(status)})
		return
	}
	r.Body = newBody(body)
	b.mux.ServeHTTP(w, r)
}

func (b *Backend) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+b.token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			return
		}
		next(w, r)
	}
}

type verifyRequest struct {
	IDToken string `json:"id_token"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (b *Backend) verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IDToken == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "id_token is required"})
		return
	}

	b.mu.Lock()
	b.user.Email = req.Email
	b.user.Name = req.Name
	b.user.PictureURL = req.Picture
	user := b.user
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"token": b.token,
		"user":  user,
	})
}

func (b *Backend) listSites(w http.ResponseWriter, _ *http.Request) {
	b.mu.RLock()
	sites := make([]Site, 0, len(b.sites))
	for id := int64(1); id < b.nextID; id++ {
		if s, ok := b.sites[id]; ok {
			sites = append(sites, *s)
		}
	}
	b.mu.RUnlock()
	writeJSON(w, http.StatusOK, map[string]any{"sites": sites})
}

type createSiteRequest struct {
	Name        string   `json:"name"`
	Domain      string   `json:"domain"`
	CORSOrigins []string `json:"cors_origins"`
}

func (b *Backend) createSite(w http.ResponseWriter, r *http.Request) {
	var req createSiteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" || req.Domain == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name and domain are required"})
		return
	}

	b.mu.Lock()
	s := *b.insertSite(req.Name, req.Domain, req.CORSOrigins)
	b.mu.Unlock()
	writeJSON(w, http.StatusCreated, s)
}

func (b *Backend) getSite(w http.ResponseWriter, r *http.Request) {
	b.withSite(w, r, func(s *Site) {
		writeJSON(w, http.StatusOK, s)
	})
}

type updateSiteRequest struct {
	Name        *string  `json:"name"`
	IsActive    *bool    `json:"is_active"`
	CORSOrigins []string `json:"cors_origins"`
}

func (b *Backend) updateSite(w http.ResponseWriter, r *http.Request) {
	var req updateSiteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	b.withSite(w, r, func(s *Site) {
		if req.Name != nil {
			s.Name = *req.Name
		}
		if req.IsActive != nil {
			s.IsActive = *req.IsActive
		}
		if req.CORSOrigins != nil {
			s.CORSOrigins = req.CORSOrigins
		}
		s.UpdatedAt = b.now().UTC()
		writeJSON(w, http.StatusOK, s)
	})
}

func (b *Backend) deleteSite(w http.ResponseWriter, r *http.Request) {
	b.withSite(w, r, func(s *Site) {
		delete(b.sites, s.ID)
		delete(b.posts, s.ID)
		w.WriteHeader(http.StatusNoContent)
	})
}

func (b *Backend) siteStats(w http.ResponseWriter, r *http.Request) {
	b.withSite(w, r, func(s *Site) {
		stats := map[string]int{"post_count": 0, "comment_count": 0, "deleted_comment_count": 0}
		for _, p := range b.posts[s.ID] {
			stats["post_count"]++
			stats["comment_count"] += p.ActiveCommentCount
			stats["deleted_comment_count"] += p.DeletedCommentCount
		}
		writeJSON(w, http.StatusOK, stats)
	})
}

func (b *Backend) sitePosts(w http.ResponseWriter, r *http.Request) {
	b.withSite(w, r, func(s *Site) {
		posts := append([]Post{}, b.posts[s.ID]...)
		writeJSON(w, http.StatusOK, map[string]any{"posts": posts})
	})
}

// withSite runs fn under the write lock with the site named by the {id} path value.
func (b *Backend) withSite(w http.ResponseWriter, r *http.Request, fn func(*Site)) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.sites[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "site not found"})
		return
	}
	fn(s)
}

func (b *Backend) insertSite(name, domain string, origins []string) *Site {
	now := b.now().UTC()
	if origins == nil {
		origins = []string{}
	}
	s := &Site{
		ID:          b.nextID,
		Name:        name,
		Domain:      domain,
		APIKey:      "orb_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		IsActive:    true,
		CORSOrigins: origins,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	b.nextID++
	b.sites[s.ID] = s
	return s
}
