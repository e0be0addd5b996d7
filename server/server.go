package server

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/csrf"
	"github.com/gorilla/securecookie"
	"github.com/jrsteele09/orbithall-admin/backend"
	"github.com/jrsteele09/orbithall-admin/identity"
	"github.com/jrsteele09/orbithall-admin/internal/config"
	"github.com/jrsteele09/orbithall-admin/server/authflowrepo"
	"github.com/jrsteele09/orbithall-admin/sessions"
	"github.com/jrsteele09/orbithall-admin/sites"
	"github.com/jrsteele09/orbithall-admin/viewcache"
	"github.com/rs/zerolog/log"
)

const csrfCookieName = "_orbithall_csrf"

type Server struct {
	env       string // Environment (e.g., "DEV", "PROD")
	mux       *http.ServeMux
	handler   http.Handler
	routes    []string
	config    config.Config
	pages     map[string]*template.Template
	provider  identity.Provider
	bridge    *identity.Bridge
	sites     *sites.Service
	sessions  sessions.Repo
	authState authflowrepo.Repo
	cookies   *sessions.CookieCodec
	now       func() time.Time
}

func New(config config.Config, provider identity.Provider, client *backend.Client, sessionRepo sessions.Repo, authStateRepo authflowrepo.Repo) (*Server, error) {
	pages, err := parsePages()
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to parse templates: %w", err)
	}

	secret := config.GetSessionSecret()
	if len(secret) == 0 {
		secret = securecookie.GenerateRandomKey(32)
		if secret == nil {
			return nil, fmt.Errorf("[Server New] failed to generate session secret")
		}
		log.Warn().Msg("SESSION_SECRET not set; using an ephemeral key (sessions reset on restart)")
	}

	cookies, err := sessions.NewCookieCodec(secret, config.GetSecureCookies(), config.GetMaxSessionAge())
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create cookie codec: %w", err)
	}

	s := &Server{
		env:       config.GetEnv(),
		mux:       http.NewServeMux(),
		config:    config,
		pages:     pages,
		provider:  provider,
		bridge:    identity.NewBridge(client, config.GetMaxSessionAge()),
		sites:     sites.NewService(client, viewcache.NewInMemoryCache(config.GetViewCacheTTL())),
		sessions:  sessionRepo,
		authState: authStateRepo,
		cookies:   cookies,
		now:       time.Now,
	}

	s.initRoutes()
	s.logRoutes()

	s.handler = s.mux
	if config.GetCSRFEnabled() {
		key, err := sessions.DeriveKey(secret, "orbithall csrf", 32)
		if err != nil {
			return nil, fmt.Errorf("[Server New] failed to derive csrf key: %w", err)
		}
		s.handler = s.CSRFMiddleware(csrf.Protect(key,
			csrf.CookieName(csrfCookieName),
			csrf.Secure(config.GetSecureCookies()),
			csrf.HttpOnly(true),
			csrf.Path("/"),
			csrf.SameSite(csrf.SameSiteLaxMode),
			csrf.TrustedOrigins(config.GetCSRFTrustedOrigins()),
			csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				log.Warn().Err(csrf.FailureReason(r)).Str("path", r.URL.Path).Msg("csrf check failed")
				http.Error(w, "Invalid CSRF token", http.StatusForbidden)
			})),
		), s.mux)
	}

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

// Routes returns the registered route patterns.
func (s *Server) Routes() []string {
	return append([]string(nil), s.routes...)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	log.Info().Msgf("[%s] %s", colourMethod(method), path)
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
