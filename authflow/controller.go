// Package authflow handles the provider redirect that carries an authorization
// code: it exchanges the code, stores the session and sends the browser back to
// the bare application root.
package authflow

import (
	"context"
	"net/url"
	"time"

	apperrors "github.com/jrsteele09/go-cognito-webapp/internal/errors"
	"github.com/jrsteele09/go-cognito-webapp/sessions"
	"github.com/jrsteele09/go-cognito-webapp/tokenexchange"
	"github.com/jrsteele09/go-cognito-webapp/webutil"
	"github.com/rs/zerolog"
)

const (
	// CodeParam is the query parameter the provider puts the authorization code in
	CodeParam = "code"
	// RootPath is where the browser is sent once the code has been used
	RootPath = "/"
)

var (
	ErrExchangeFailed = apperrors.ErrExchangeFailed
	ErrStorageFailure = apperrors.ErrStorageFailure
	ErrNavigation     = apperrors.ErrNavigation
	ErrNotLoggedIn    = apperrors.ErrNotLoggedIn
	ErrUnsupported    = apperrors.ErrUnsupported
)

// State is the outcome of one pass over a page load
type State int

const (
	// NotRedirected means the page was not loaded from a provider redirect
	NotRedirected State = iota
	// RedirectHandled means the session was stored and navigation has started;
	// the caller must stop initialising the page.
	RedirectHandled
)

func (s State) String() string {
	switch s {
	case NotRedirected:
		return "NotRedirected"
	case RedirectHandled:
		return "RedirectHandled"
	default:
		return "Unknown"
	}
}

// Navigator moves the browser to another page
type Navigator interface {
	Navigate(path string) error
}

// NavigatorFunc adapts a function to Navigator
type NavigatorFunc func(path string) error

func (f NavigatorFunc) Navigate(path string) error {
	return f(path)
}

// Exchanger trades an authorization code for tokens
type Exchanger interface {
	Exchange(ctx context.Context, code string) (*tokenexchange.Result, error)
}

// Refresher trades a refresh token for new tokens
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*tokenexchange.Result, error)
}

var _ Exchanger = &tokenexchange.Client{}
var _ Refresher = &tokenexchange.Client{}

// Controller runs the redirect handling for a page load
type Controller struct {
	exchanger Exchanger
	now       func() time.Time
}

// Option configures a Controller
type Option func(*Controller)

// WithClock replaces time.Now, used when computing the session expiry
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// NewController creates a controller that exchanges codes through exchanger.
// If exchanger also implements Refresher, RefreshSession is available.
func NewController(exchanger Exchanger, opts ...Option) *Controller {
	c := &Controller{
		exchanger: exchanger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CheckAuthCode looks for an authorization code in location. Without one it
// returns NotRedirected and touches nothing. With one it exchanges the code,
// writes the whole session to store and only then navigates to RootPath.
// If the exchange or any write fails no session value is left behind and no
// navigation happens.
func (c *Controller) CheckAuthCode(ctx context.Context, location *url.URL, store sessions.Store, nav Navigator) (State, error) {
	code, ok := webutil.ParameterByName(location, CodeParam)
	if !ok || code == "" {
		return NotRedirected, nil
	}

	logger := zerolog.Ctx(ctx)
	logger.Info().Msg("Found authorization code in query string")

	result, err := c.exchanger.Exchange(ctx, code)
	if err == nil && result == nil {
		err = apperrors.Wrapf(ErrExchangeFailed, "[authflow CheckAuthCode] exchanger returned no result")
	}
	if err != nil {
		if !apperrors.Is(err, ErrExchangeFailed) {
			err = apperrors.Join(ErrExchangeFailed, err)
		}
		logger.Err(err).Msg("Authorization code exchange failed")
		return NotRedirected, err
	}

	if err := SetAuthCookies(store, result, c.now()); err != nil {
		logger.Err(err).Msg("Failed to store session")
		return NotRedirected, err
	}
	logger.Info().Str("username", result.Username).Msg("JWT cookies set")

	if nav == nil {
		return NotRedirected, apperrors.Wrapf(ErrNavigation, "[authflow CheckAuthCode] no navigator")
	}
	if err := nav.Navigate(RootPath); err != nil {
		return NotRedirected, apperrors.Join(ErrNavigation, err)
	}
	return RedirectHandled, nil
}

// RefreshSession replaces the stored tokens using the stored refresh token.
// The refresh token and username are kept when the backend does not return new ones.
func (c *Controller) RefreshSession(ctx context.Context, store sessions.Store) (*Session, error) {
	refresher, ok := c.exchanger.(Refresher)
	if !ok {
		return nil, apperrors.Wrapf(ErrUnsupported, "[authflow RefreshSession] exchanger cannot refresh")
	}

	current, err := CurrentSession(store)
	if err != nil {
		return nil, err
	}

	result, err := refresher.Refresh(ctx, current.RefreshToken)
	if err == nil && result == nil {
		err = apperrors.Wrapf(ErrExchangeFailed, "[authflow RefreshSession] refresher returned no result")
	}
	if err != nil {
		if !apperrors.Is(err, ErrExchangeFailed) {
			err = apperrors.Join(ErrExchangeFailed, err)
		}
		return nil, err
	}
	if result.RefreshToken == "" {
		result.RefreshToken = current.RefreshToken
	}
	if result.Username == "" {
		result.Username = current.Username
	}

	now := c.now()
	if err := SetAuthCookies(store, result, now); err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Info().Str("username", result.Username).Msg("Session refreshed")

	return &Session{
		IDToken:      result.IDToken,
		RefreshToken: result.RefreshToken,
		Expires:      expiry(now, result.TTL()),
		Username:     result.Username,
	}, nil
}
