package server

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/go-cognito-webapp/authflow"
	"github.com/jrsteele09/go-cognito-webapp/cognito"
	"github.com/jrsteele09/go-cognito-webapp/internal/config"
	"github.com/rs/zerolog/log"
)

type Server struct {
	env    string // Environment (e.g., "DEV", "PROD")
	mux    *http.ServeMux
	routes []string
	config config.Config
	auth   *authflow.Controller
	tokens cognito.Tokens
	index  *template.Template
	now    func() time.Time
}

// Option configures a Server
type Option func(*Server)

// WithTokenService also serves the jwt-get backend endpoint from this server
func WithTokenService(tokens cognito.Tokens) Option {
	return func(s *Server) {
		s.tokens = tokens
	}
}

// WithClock replaces time.Now for session expiry
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// New creates the web app server. exchanger is the client the page uses to
// redeem the authorization code.
func New(config config.Config, exchanger authflow.Exchanger, opts ...Option) (*Server, error) {
	if exchanger == nil {
		return nil, errors.New("[Server New] exchanger is required")
	}

	index, err := ParseTemplate("index.html")
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to parse index template: %w", err)
	}

	s := &Server{
		mux:    http.NewServeMux(),
		config: config,
		index:  index,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.env = config.GetEnv()
	s.auth = authflow.NewController(exchanger, authflow.WithClock(s.now))

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != config.DevEnv {
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
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Info().Msgf("[%-19s] %s", displayMethod, path)
}
