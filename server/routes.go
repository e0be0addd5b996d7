package server

func (s *Server) initRoutes() {
	s.RegisterRouteHandler("GET /{$}", ChainMiddleware(s.IndexHandler(), s.HTMLMiddleWare(s.RequireSession)...))

	// LOGIN
	s.RegisterRouteHandler("GET "+RouteLogin, ChainMiddleware(s.LoginPageHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteAuthGoogle, ChainMiddleware(s.GoogleLoginHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteGoogleCallback, ChainMiddleware(s.GoogleCallbackHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleWare()...))

	// SITES
	s.RegisterRouteHandler("GET "+RouteSites, ChainMiddleware(s.SitesListHandler(), s.HTMLMiddleWare(s.RequireSession)...))
	s.RegisterRouteHandler("POST "+RouteSites, ChainMiddleware(s.SiteCreateHandler(), s.HTMLMiddleWare(s.RequireSession)...))
	s.RegisterRouteHandler("GET "+RouteSiteNew, ChainMiddleware(s.SiteNewHandler(), s.HTMLMiddleWare(s.RequireSession)...))
	s.RegisterRouteHandler("GET "+RouteSite, ChainMiddleware(s.SiteDetailHandler(), s.HTMLMiddleWare(s.RequireSession)...))
	s.RegisterRouteHandler("POST "+RouteSite, ChainMiddleware(s.SiteUpdateHandler(), s.HTMLMiddleWare(s.RequireSession)...))
	s.RegisterRouteHandler("GET "+RouteSiteEdit, ChainMiddleware(s.SiteEditHandler(), s.HTMLMiddleWare(s.RequireSession)...))
	s.RegisterRouteHandler("POST "+RouteSiteDelete, ChainMiddleware(s.SiteDeleteHandler(), s.HTMLMiddleWare(s.RequireSession)...))

	// Panels, loaded by HTMX from the detail page
	s.RegisterRouteHandler("GET "+RouteSiteStats, ChainMiddleware(s.SiteStatsPanelHandler(), s.HTMLMiddleWare(s.RequireSession)...))
	s.RegisterRouteHandler("GET "+RouteSitePosts, ChainMiddleware(s.SitePostsPanelHandler(), s.HTMLMiddleWare(s.RequireSession)...))

	s.RegisterRouteHandler("GET "+RouteStatic, ChainMiddleware(s.serveFileHandler(), s.HTMLMiddleWare(s.CacheMiddleware)...))
}
