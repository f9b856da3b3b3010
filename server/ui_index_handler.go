package server

import (
	"net/http"
	"time"

	"github.com/jrsteele09/go-cognito-webapp/authflow"
	apperrors "github.com/jrsteele09/go-cognito-webapp/internal/errors"
	"github.com/rs/zerolog"
)

const signInFailedMsg = "Sign in failed, please try again."

// IndexPageData contains data for rendering the home page
type IndexPageData struct {
	AppName   string
	TargetEnv string
	LoginURL  string
	LogoutURL string
	Error     string

	LoggedIn bool
	Username string
	Email    string
	Expires  time.Time
	Expired  bool
}

// IndexHandler is the page load. It finishes a hosted UI sign in when the
// URL carries an authorization code, otherwise it renders the home page.
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := zerolog.Ctx(r.Context())
		store := s.sessionStore(w, r)

		state, err := s.auth.CheckAuthCode(r.Context(), r.URL, store, redirectNavigator{w: w, r: r})
		if state == authflow.RedirectHandled {
			return
		}

		data := IndexPageData{
			AppName:   s.config.GetAppName(),
			TargetEnv: s.config.GetTargetEnv(),
			LoginURL:  s.config.GetLoginURL(),
			LogoutURL: RouteLogout,
			Error:     r.URL.Query().Get("error"),
		}
		if err != nil {
			data.Error = signInFailedMsg
		}

		session, err := authflow.CurrentSession(store)
		switch {
		case err == nil:
			data.LoggedIn = true
			data.Username = session.Username
			data.Expires = session.Expires
			data.Expired = session.Expired(s.now())
			if claims, err := authflow.IdentityClaims(session.IDToken); err == nil {
				data.Email = claims.Email
				if data.Username == "" {
					data.Username = claims.DisplayName()
				}
			}
		case apperrors.Is(err, authflow.ErrNotLoggedIn):
		default:
			logger.Err(err).Msg("Failed to read session")
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		if err := s.index.Execute(w, data); err != nil {
			logger.Err(err).Msg("Failed to render index template")
			http.Error(w, "Failed to render page", http.StatusInternalServerError)
		}
	}
}
