package config_test

import (
	"net/url"
	"testing"
	"time"

	"github.com/jrsteele09/go-cognito-webapp/internal/config"
	"github.com/stretchr/testify/require"
)

func TestEnvVars(t *testing.T) {
	t.Run("unset env logs as development but keeps cookies secure", func(t *testing.T) {
		t.Setenv("ENV", "")
		c := config.New()
		require.Equal(t, "DEV", c.GetEnv())
		require.False(t, c.IsDevelopment())
	})

	t.Run("explicit development env", func(t *testing.T) {
		t.Setenv("ENV", "dev")
		require.True(t, config.New().IsDevelopment())
	})

	t.Run("production env", func(t *testing.T) {
		t.Setenv("ENV", "PROD")
		require.False(t, config.New().IsDevelopment())
	})

	t.Run("port gets a colon", func(t *testing.T) {
		t.Setenv("PORT", "9000")
		require.Equal(t, ":9000", config.New().GetPort())
	})

	t.Run("invalid timeout falls back", func(t *testing.T) {
		t.Setenv("API_TIMEOUT", "soon")
		require.Equal(t, 10*time.Second, config.New().GetAPITimeout())
	})
}

func TestCognitoURLs(t *testing.T) {
	t.Setenv("COGNITO_DOMAIN_PREFIX", "rain.webapp")
	t.Setenv("COGNITO_REGION", "us-east-1")
	t.Setenv("COGNITO_APP_CLIENT_ID", "client-1")
	t.Setenv("COGNITO_POOL_ID", "us-east-1_abc")
	t.Setenv("COGNITO_REDIRECT_URI", "https://example.com/index.html")

	c := config.New()
	require.Equal(t, "https://rain-webapp.auth.us-east-1.amazoncognito.com", c.GetCognitoURL())
	require.Equal(t, "https://cognito-idp.us-east-1.amazonaws.com/us-east-1_abc", c.GetCognitoIssuer())

	login, err := url.Parse(c.GetLoginURL())
	require.NoError(t, err)
	require.Equal(t, "/login", login.Path)
	require.Equal(t, "code", login.Query().Get("response_type"))
	require.Equal(t, "client-1", login.Query().Get("client_id"))
	require.Equal(t, "https://example.com/index.html", login.Query().Get("redirect_uri"))

	logout, err := url.Parse(c.GetLogoutURL())
	require.NoError(t, err)
	require.Equal(t, "/logout", logout.Path)
}

func TestAllowedOrigins(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	origins := config.New().GetAllowedOrigins()
	require.True(t, origins.IsAllowedOrigin("https://a.example.com"))
	require.True(t, origins.IsAllowedOrigin("https://b.example.com"))
	require.False(t, origins.IsAllowedOrigin("*"))
}
