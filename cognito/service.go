// Package cognito implements the backend half of the code flow: it redeems
// authorization codes and refresh tokens at the Cognito hosted UI token endpoint
// and verifies what comes back.
package cognito

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/jrsteele09/go-cognito-webapp/internal/config"
	apperrors "github.com/jrsteele09/go-cognito-webapp/internal/errors"
	"github.com/jrsteele09/go-cognito-webapp/tokenexchange"
	"golang.org/x/oauth2"
)

// FederatedPrefix is put in front of usernames of users signed in through a
// federated identity provider.
const FederatedPrefix = "AmazonFederate_"

var (
	ErrInvalidGrant    = apperrors.ErrInvalidGrant
	ErrInvalidToken    = apperrors.ErrInvalidToken
	ErrProviderFailure = apperrors.ErrProviderFailure
	ErrInvalidRequest  = apperrors.ErrInvalidRequest
)

// Config identifies the user pool and app client
type Config struct {
	DomainPrefix string
	Region       string
	ClientID     string
	// ClientSecret is empty for public app clients
	ClientSecret string
	PoolID       string
	RedirectURI  string

	// TokenURL overrides the hosted UI token endpoint
	TokenURL string
	// Issuer overrides the user pool issuer
	Issuer string
}

// ConfigFrom copies the Cognito settings out of the app configuration
func ConfigFrom(c config.CognitoConfig) Config {
	return Config{
		DomainPrefix: c.GetCognitoDomainPrefix(),
		Region:       c.GetCognitoRegion(),
		ClientID:     c.GetCognitoClientID(),
		PoolID:       c.GetCognitoPoolID(),
		RedirectURI:  c.GetRedirectURI(),
		TokenURL:     c.GetCognitoURL() + "/oauth2/token",
		Issuer:       c.GetCognitoIssuer(),
	}
}

func (c Config) tokenURL() string {
	if c.TokenURL != "" {
		return c.TokenURL
	}
	prefix := strings.ReplaceAll(c.DomainPrefix, ".", "-")
	return fmt.Sprintf("https://%s.auth.%s.amazoncognito.com/oauth2/token", prefix, c.Region)
}

func (c Config) issuer() string {
	if c.Issuer != "" {
		return c.Issuer
	}
	return fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", c.Region, c.PoolID)
}

func (c Config) validate() error {
	if c.ClientID == "" {
		return errors.New("missing client id")
	}
	if c.TokenURL == "" && (c.DomainPrefix == "" || c.Region == "") {
		return errors.New("missing domain prefix or region")
	}
	if c.Issuer == "" && (c.PoolID == "" || c.Region == "") {
		return errors.New("missing user pool id or region")
	}
	return nil
}

// Service redeems codes and refresh tokens
type Service struct {
	oauth2Config   *oauth2.Config
	idVerifier     *oidc.IDTokenVerifier
	accessVerifier *oidc.IDTokenVerifier
	httpClient     *http.Client
	now            func() time.Time
}

type options struct {
	keySet     oidc.KeySet
	httpClient *http.Client
	now        func() time.Time
}

// Option configures a Service
type Option func(*options)

// WithKeySet verifies tokens against keySet instead of the user pool JWKS
func WithKeySet(keySet oidc.KeySet) Option {
	return func(o *options) {
		o.keySet = keySet
	}
}

// WithHTTPClient sets the client used for the token endpoint and JWKS
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithClock replaces time.Now for expiry checks
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// NewService creates a service for the configured user pool. ctx scopes the
// background JWKS fetches.
func NewService(ctx context.Context, cfg Config, opts ...Option) (*Service, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("[cognito NewService] %w", err)
	}

	o := options{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	issuer := cfg.issuer()
	if o.keySet == nil {
		o.keySet = oidc.NewRemoteKeySet(oidc.ClientContext(ctx, o.httpClient), issuer+"/.well-known/jwks.json")
	}

	return &Service{
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Endpoint: oauth2.Endpoint{
				TokenURL:  cfg.tokenURL(),
				AuthStyle: authStyle(cfg.ClientSecret),
			},
			Scopes: []string{oidc.ScopeOpenID},
		},
		idVerifier: oidc.NewVerifier(issuer, o.keySet, &oidc.Config{
			ClientID: cfg.ClientID,
			Now:      o.now,
		}),
		// Access tokens carry client_id rather than aud
		accessVerifier: oidc.NewVerifier(issuer, o.keySet, &oidc.Config{
			SkipClientIDCheck: true,
			Now:               o.now,
		}),
		httpClient: o.httpClient,
		now:        o.now,
	}, nil
}

func authStyle(secret string) oauth2.AuthStyle {
	if secret == "" {
		return oauth2.AuthStyleInParams
	}
	return oauth2.AuthStyleInHeader
}

// Exchange redeems an authorization code
func (s *Service) Exchange(ctx context.Context, code string) (*tokenexchange.Result, error) {
	if code == "" {
		return nil, apperrors.Wrapf(ErrInvalidRequest, "[cognito Exchange] missing code")
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	tok, err := s.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, classify("[cognito Exchange]", err)
	}
	return s.result(ctx, tok, "")
}

// Refresh redeems a refresh token. Cognito does not issue a new refresh token,
// so the one presented is returned.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*tokenexchange.Result, error) {
	if refreshToken == "" {
		return nil, apperrors.Wrapf(ErrInvalidRequest, "[cognito Refresh] missing refresh token")
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	tok, err := s.oauth2Config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return nil, classify("[cognito Refresh]", err)
	}
	return s.result(ctx, tok, refreshToken)
}

func classify(op string, err error) error {
	var retrieveErr *oauth2.RetrieveError
	if apperrors.As(err, &retrieveErr) && retrieveErr.Response != nil && retrieveErr.Response.StatusCode < 500 {
		return fmt.Errorf("%s %w: %w", op, ErrInvalidGrant, err)
	}
	return fmt.Errorf("%s %w: %w", op, ErrProviderFailure, err)
}

type accessClaims struct {
	Username string `json:"username"`
	TokenUse string `json:"token_use"`
	ClientID string `json:"client_id"`
}

func (s *Service) result(ctx context.Context, tok *oauth2.Token, refreshToken string) (*tokenexchange.Result, error) {
	rawIDToken, ok := tok.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, apperrors.Wrapf(ErrInvalidToken, "no id_token in token response")
	}
	if _, err := s.idVerifier.Verify(ctx, rawIDToken); err != nil {
		return nil, apperrors.Join(ErrInvalidToken, apperrors.Wrapf(err, "id token"))
	}

	accessToken, err := s.accessVerifier.Verify(ctx, tok.AccessToken)
	if err != nil {
		return nil, apperrors.Join(ErrInvalidToken, apperrors.Wrapf(err, "access token"))
	}
	var claims accessClaims
	if err := accessToken.Claims(&claims); err != nil {
		return nil, apperrors.Join(ErrInvalidToken, err)
	}
	if claims.TokenUse != "access" {
		return nil, apperrors.Wrapf(ErrInvalidToken, "token_use is %q, not access", claims.TokenUse)
	}
	if claims.ClientID != "" && claims.ClientID != s.oauth2Config.ClientID {
		return nil, apperrors.Wrapf(ErrInvalidToken, "access token issued to client %q", claims.ClientID)
	}
	if claims.Username == "" {
		return nil, apperrors.Wrapf(ErrInvalidToken, "missing username")
	}

	if tok.RefreshToken != "" {
		refreshToken = tok.RefreshToken
	}

	return &tokenexchange.Result{
		IDToken:      rawIDToken,
		RefreshToken: refreshToken,
		ExpiresIn:    s.expiresIn(tok),
		Username:     strings.TrimPrefix(claims.Username, FederatedPrefix),
	}, nil
}

// expiresIn prefers the wire expires_in value and falls back to the computed expiry
func (s *Service) expiresIn(tok *oauth2.Token) int64 {
	switch v := tok.Extra("expires_in").(type) {
	case float64:
		return int64(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
	case string:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	if tok.Expiry.IsZero() {
		return 0
	}
	return int64(math.Max(0, math.Round(tok.Expiry.Sub(s.now()).Seconds())))
}
