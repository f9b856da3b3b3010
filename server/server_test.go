package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-cognito-webapp/internal/config"
	"github.com/jrsteele09/go-cognito-webapp/server"
	"github.com/jrsteele09/go-cognito-webapp/sessions"
	"github.com/jrsteele09/go-cognito-webapp/tokenexchange"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeTokens struct {
	result *tokenexchange.Result
	err    error

	codes     []string
	refreshes []string
}

func (f *fakeTokens) Exchange(_ context.Context, code string) (*tokenexchange.Result, error) {
	f.codes = append(f.codes, code)
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeTokens) Refresh(_ context.Context, refreshToken string) (*tokenexchange.Result, error) {
	f.refreshes = append(f.refreshes, refreshToken)
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func aliceTokens() *fakeTokens {
	return &fakeTokens{result: &tokenexchange.Result{IDToken: "ID1", RefreshToken: "REF1", ExpiresIn: 3600, Username: "alice"}}
}

func setEnv(t *testing.T, env string) config.Config {
	t.Setenv("ENV", env)
	t.Setenv("APP_NAME", "Test App")
	t.Setenv("COGNITO_DOMAIN_PREFIX", "my.app")
	t.Setenv("COGNITO_REGION", "eu-west-2")
	t.Setenv("COGNITO_APP_CLIENT_ID", "client-1")
	t.Setenv("COGNITO_REDIRECT_URI", "https://app.example.com/")
	t.Setenv("ALLOWED_ORIGINS", "https://site.example.com")
	return config.New()
}

func newServer(t *testing.T, env string, tokens *fakeTokens, opts ...server.Option) *server.Server {
	t.Helper()
	opts = append([]server.Option{server.WithClock(func() time.Time { return fixedNow })}, opts...)
	s, err := server.New(setEnv(t, env), tokens, opts...)
	require.NoError(t, err)
	return s
}

func serve(s http.Handler, r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, r)
	return rec
}

func cookies(rec *httptest.ResponseRecorder) map[string]*http.Cookie {
	out := map[string]*http.Cookie{}
	for _, c := range rec.Result().Cookies() {
		out[c.Name] = c
	}
	return out
}

func withSession(r *http.Request, idToken string, expires time.Time) *http.Request {
	r.AddCookie(&http.Cookie{Name: sessions.KeyIDToken, Value: idToken})
	r.AddCookie(&http.Cookie{Name: sessions.KeyRefreshToken, Value: "REF1"})
	r.AddCookie(&http.Cookie{Name: sessions.KeyExpires, Value: expires.Format("2006-01-02T15:04:05.000Z")})
	r.AddCookie(&http.Cookie{Name: sessions.KeyUsername, Value: "alice"})
	return r
}

func signedIDToken(t *testing.T) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email":            "alice@example.com",
		"cognito:username": "alice",
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return raw
}

func TestNew(t *testing.T) {
	_, err := server.New(setEnv(t, "PROD"), nil)
	require.Error(t, err)
}

func TestIndexHandler(t *testing.T) {
	t.Run("code redirect sets session and navigates to root", func(t *testing.T) {
		tokens := aliceTokens()
		s := newServer(t, config.DevEnv, tokens)

		rec := serve(s, httptest.NewRequest(http.MethodGet, "/?code=abc123&state=x", nil))
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/", rec.Header().Get("Location"))
		require.Equal(t, []string{"abc123"}, tokens.codes)

		got := cookies(rec)
		require.Len(t, got, 4)
		require.Equal(t, "ID1", got[sessions.KeyIDToken].Value)
		require.Equal(t, "REF1", got[sessions.KeyRefreshToken].Value)
		require.Equal(t, "2026-03-01T13:00:00.000Z", got[sessions.KeyExpires].Value)
		require.Equal(t, "alice", got[sessions.KeyUsername].Value)
		for _, c := range got {
			require.False(t, c.Secure)
			require.Equal(t, http.SameSite(0), c.SameSite)
			require.False(t, c.HttpOnly)
		}
	})

	t.Run("production cookies are secure and strict", func(t *testing.T) {
		s := newServer(t, "PROD", aliceTokens())

		rec := serve(s, httptest.NewRequest(http.MethodGet, "/index.html?code=abc123", nil))
		require.Equal(t, http.StatusSeeOther, rec.Code)
		for _, c := range cookies(rec) {
			require.True(t, c.Secure)
			require.Equal(t, http.SameSiteStrictMode, c.SameSite)
		}
	})

	t.Run("unset env keeps cookies secure", func(t *testing.T) {
		s := newServer(t, "", aliceTokens())

		rec := serve(s, httptest.NewRequest(http.MethodGet, "/?code=abc123", nil))
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Len(t, rec.Result().Cookies(), 4)
		for _, c := range rec.Result().Cookies() {
			require.True(t, c.Secure)
			require.Equal(t, http.SameSiteStrictMode, c.SameSite)
		}
	})

	t.Run("no code renders login", func(t *testing.T) {
		tokens := aliceTokens()
		s := newServer(t, config.DevEnv, tokens)

		rec := serve(s, httptest.NewRequest(http.MethodGet, "/?state=x", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Empty(t, tokens.codes)
		require.Empty(t, rec.Result().Cookies())
		require.Contains(t, rec.Body.String(), `id="login"`)
		require.Contains(t, rec.Body.String(), "https://my-app.auth.eu-west-2.amazoncognito.com/login?")
		require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
		require.Equal(t, "SAMEORIGIN", rec.Header().Get("X-Frame-Options"))
	})

	t.Run("failed exchange shows error and stays signed out", func(t *testing.T) {
		tokens := &fakeTokens{err: errors.New("backend returned 400: code expired")}
		s := newServer(t, config.DevEnv, tokens)

		rec := serve(s, httptest.NewRequest(http.MethodGet, "/?code=expiredcode", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Empty(t, rec.Result().Cookies())
		require.Contains(t, rec.Body.String(), `id="error"`)
		require.Contains(t, rec.Body.String(), `id="login"`)
	})

	t.Run("signed in", func(t *testing.T) {
		s := newServer(t, config.DevEnv, aliceTokens())

		r := withSession(httptest.NewRequest(http.MethodGet, "/", nil), signedIDToken(t), fixedNow.Add(time.Hour))
		rec := serve(s, r)
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		require.Contains(t, body, `id="logout"`)
		require.Contains(t, body, "alice@example.com")
		require.NotContains(t, body, `id="refresh"`)
	})

	t.Run("expired session offers refresh", func(t *testing.T) {
		s := newServer(t, config.DevEnv, aliceTokens())

		r := withSession(httptest.NewRequest(http.MethodGet, "/", nil), "ID0", fixedNow.Add(-time.Minute))
		rec := serve(s, r)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `id="refresh"`)
	})

	t.Run("request id", func(t *testing.T) {
		s := newServer(t, config.DevEnv, aliceTokens())

		rec := serve(s, httptest.NewRequest(http.MethodGet, "/", nil))
		require.NotEmpty(t, rec.Header().Get(server.RequestIDHeader))
	})
}

func TestLogoutHandler(t *testing.T) {
	s := newServer(t, config.DevEnv, aliceTokens())

	r := withSession(httptest.NewRequest(http.MethodGet, "/logout", nil), "ID1", fixedNow.Add(time.Hour))
	rec := serve(s, r)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.True(t, strings.HasPrefix(rec.Header().Get("Location"), "https://my-app.auth.eu-west-2.amazoncognito.com/logout?"))

	got := cookies(rec)
	for _, key := range sessions.Keys {
		require.Contains(t, got, key)
		require.Less(t, got[key].MaxAge, 0)
	}
}

func TestRefreshHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		tokens := aliceTokens()
		tokens.result = &tokenexchange.Result{IDToken: "ID2", ExpiresIn: 60}
		s := newServer(t, config.DevEnv, tokens)

		r := withSession(httptest.NewRequest(http.MethodGet, "/refresh", nil), "ID1", fixedNow.Add(-time.Minute))
		rec := serve(s, r)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/", rec.Header().Get("Location"))
		require.Equal(t, []string{"REF1"}, tokens.refreshes)

		got := cookies(rec)
		require.Equal(t, "ID2", got[sessions.KeyIDToken].Value)
		require.Equal(t, "REF1", got[sessions.KeyRefreshToken].Value)
		require.Equal(t, "alice", got[sessions.KeyUsername].Value)
		require.Equal(t, "2026-03-01T12:01:00.000Z", got[sessions.KeyExpires].Value)
	})

	t.Run("not signed in", func(t *testing.T) {
		tokens := aliceTokens()
		s := newServer(t, config.DevEnv, tokens)

		rec := serve(s, httptest.NewRequest(http.MethodGet, "/refresh", nil))
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Contains(t, rec.Header().Get("Location"), "/login?")
		require.Empty(t, tokens.refreshes)
	})

	t.Run("rejected refresh clears session", func(t *testing.T) {
		tokens := &fakeTokens{err: errors.New("invalid_grant")}
		s := newServer(t, config.DevEnv, tokens)

		r := withSession(httptest.NewRequest(http.MethodGet, "/refresh", nil), "ID1", fixedNow.Add(-time.Minute))
		rec := serve(s, r)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.True(t, strings.HasPrefix(rec.Header().Get("Location"), "/?error="))
		for _, c := range cookies(rec) {
			require.Less(t, c.MaxAge, 0)
		}
	})

	t.Run("htmx", func(t *testing.T) {
		tokens := aliceTokens()
		s := newServer(t, config.DevEnv, tokens)

		r := withSession(httptest.NewRequest(http.MethodGet, "/refresh", nil), "ID1", fixedNow.Add(-time.Minute))
		r.Header.Set("HX-Request", "true")
		rec := serve(s, r)
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, "/", rec.Header().Get("HX-Redirect"))
	})
}

func TestHealthHandler(t *testing.T) {
	s := newServer(t, config.DevEnv, aliceTokens())

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestTokenExchangeRoute(t *testing.T) {
	t.Run("not served by default", func(t *testing.T) {
		s := newServer(t, config.DevEnv, aliceTokens())

		rec := serve(s, httptest.NewRequest(http.MethodGet, "/jwt-get?code=abc", nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("exchange", func(t *testing.T) {
		backend := aliceTokens()
		s := newServer(t, config.DevEnv, aliceTokens(), server.WithTokenService(backend))

		r := httptest.NewRequest(http.MethodGet, "/jwt-get?code=abc", nil)
		r.Header.Set("Origin", "https://site.example.com")
		rec := serve(s, r)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "https://site.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
		require.Equal(t, []string{"abc"}, backend.codes)

		var result tokenexchange.Result
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		require.Equal(t, *backend.result, result)
	})

	t.Run("preflight", func(t *testing.T) {
		s := newServer(t, config.DevEnv, aliceTokens(), server.WithTokenService(aliceTokens()))

		r := httptest.NewRequest(http.MethodOptions, "/jwt-get", nil)
		r.Header.Set("Origin", "https://site.example.com")
		rec := serve(s, r)
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "GET")
		require.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Headers"))
	})

	t.Run("page exchanges through the local endpoint", func(t *testing.T) {
		backend := aliceTokens()
		var s *server.Server
		api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s.ServeHTTP(w, r)
		}))
		defer api.Close()

		client, err := tokenexchange.New(api.URL + "/")
		require.NoError(t, err)
		s, err = server.New(setEnv(t, config.DevEnv), client, server.WithTokenService(backend), server.WithClock(func() time.Time { return fixedNow }))
		require.NoError(t, err)

		rec := serve(s, httptest.NewRequest(http.MethodGet, "/?code=abc123", nil))
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "ID1", cookies(rec)[sessions.KeyIDToken].Value)
		require.Equal(t, []string{"abc123"}, backend.codes)
	})
}
