package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Auth Routes
	RouteLogin          = "/login"
	RouteAuthGoogle     = "/auth/google"
	RouteGoogleCallback = "/auth/google/callback"
	RouteAuthLogout     = "/auth/logout"

	// Site Routes
	RouteSites      = "/sites"
	RouteSiteNew    = "/sites/new"
	RouteSite       = "/sites/{id}"
	RouteSiteEdit   = "/sites/{id}/edit"
	RouteSiteDelete = "/sites/{id}/delete"
	RouteSiteStats  = "/sites/{id}/stats"
	RouteSitePosts  = "/sites/{id}/posts"

	// Static Asset Routes (patterns)
	RouteStatic = "/static/{file}"
)
