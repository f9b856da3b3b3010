package server

import (
	"net/http"

	"github.com/jrsteele09/go-cognito-webapp/authflow"
	apperrors "github.com/jrsteele09/go-cognito-webapp/internal/errors"
	"github.com/rs/zerolog"
)

const sessionExpiredMsg = "Your session has expired, please sign in again."

// LogoutHandler clears the session cookies and signs out of the hosted UI
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := authflow.Logout(s.sessionStore(w, r)); err != nil {
			zerolog.Ctx(r.Context()).Err(err).Msg("Failed to clear session")
		}
		http.Redirect(w, r, s.config.GetLogoutURL(), http.StatusSeeOther)
	}
}

// RefreshHandler renews the ID token with the stored refresh token
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := zerolog.Ctx(r.Context())
		store := s.sessionStore(w, r)

		_, err := s.auth.RefreshSession(r.Context(), store)
		switch {
		case err == nil:
			redirectSuccess(w, r, authflow.RootPath)
		case apperrors.Is(err, authflow.ErrNotLoggedIn):
			http.Redirect(w, r, s.config.GetLoginURL(), http.StatusSeeOther)
		case apperrors.Is(err, authflow.ErrExchangeFailed):
			// The refresh token is no longer good, start again from signed out
			logger.Err(err).Msg("Session refresh rejected")
			if err := authflow.Logout(store); err != nil {
				logger.Err(err).Msg("Failed to clear session")
			}
			redirectWithError(w, r, authflow.RootPath, sessionExpiredMsg)
		default:
			logger.Err(err).Msg("Session refresh failed")
			redirectWithError(w, r, authflow.RootPath, signInFailedMsg)
		}
	}
}
