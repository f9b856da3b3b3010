package server

import (
	"net/http"

	"github.com/jrsteele09/go-cognito-webapp/cognito"
)

// TokenExchangeHandler serves the jwt-get backend endpoint
func (s *Server) TokenExchangeHandler() http.HandlerFunc {
	return cognito.NewHandler(s.tokens).ServeHTTP
}
