package server

import (
	"net/http"

	"github.com/jrsteele09/go-cognito-webapp/webutil"
)

func (s *Server) initRoutes() {
	s.RegisterRouteHandler("GET "+RouteIndex, ChainMiddleware(s.IndexHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteIndexHTML, ChainMiddleware(s.IndexHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteLogout, ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteRefresh, ChainMiddleware(s.RefreshHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteHealth, ChainMiddleware(s.HealthHandler(), s.APIMiddleware()...))

	if s.tokens != nil {
		s.RegisterRouteHandler("GET "+RouteTokenExchange, ChainMiddleware(s.TokenExchangeHandler(), s.APIMiddleware()...))
		s.RegisterRouteHandler("OPTIONS "+RouteTokenExchange, ChainMiddleware(s.TokenExchangeHandler(), s.APIMiddleware()...))
	}
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		webutil.WriteJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	}
}
