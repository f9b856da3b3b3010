package cognito

import (
	"context"
	"net/http"

	apperrors "github.com/jrsteele09/go-cognito-webapp/internal/errors"
	"github.com/jrsteele09/go-cognito-webapp/tokenexchange"
	"github.com/jrsteele09/go-cognito-webapp/webutil"
	"github.com/rs/zerolog"
)

// Tokens is what the jwt-get handler needs from a Service
type Tokens interface {
	Exchange(ctx context.Context, code string) (*tokenexchange.Result, error)
	Refresh(ctx context.Context, refreshToken string) (*tokenexchange.Result, error)
}

// Handler serves GET jwt-get?code=... and GET jwt-get?refresh=...
type Handler struct {
	tokens Tokens
}

func NewHandler(tokens Tokens) *Handler {
	return &Handler{tokens: tokens}
}

type errorBody struct {
	Message string `json:"message"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
		return
	case http.MethodGet:
	default:
		webutil.WriteJSON(w, r, http.StatusMethodNotAllowed, errorBody{Message: "unexpected method: " + r.Method})
		return
	}

	logger := zerolog.Ctx(r.Context())
	query := r.URL.Query()
	code, refresh := query.Get("code"), query.Get("refresh")

	var (
		result *tokenexchange.Result
		err    error
	)
	switch {
	case code != "":
		result, err = h.tokens.Exchange(r.Context(), code)
	case refresh != "":
		result, err = h.tokens.Refresh(r.Context(), refresh)
	default:
		webutil.WriteJSON(w, r, http.StatusBadRequest, errorBody{Message: "no code or refresh token"})
		return
	}

	if err != nil {
		logger.Err(err).Msg("Token grant failed")
		status, message := errorStatus(err)
		webutil.WriteJSON(w, r, status, errorBody{Message: message})
		return
	}

	logger.Info().Str("username", result.Username).Msg("Token grant succeeded")
	webutil.WriteJSON(w, r, http.StatusOK, result)
}

func errorStatus(err error) (int, string) {
	switch {
	case apperrors.Is(err, ErrInvalidRequest), apperrors.Is(err, ErrInvalidGrant):
		return http.StatusBadRequest, "token endpoint failed"
	case apperrors.Is(err, ErrInvalidToken):
		return http.StatusBadGateway, "failed to verify token"
	default:
		return http.StatusBadGateway, "token endpoint failed"
	}
}
