package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	portEnvVar       = "PORT"
	appNameVar       = "APP_NAME"
	targetEnvVar     = "TARGET_ENV"
	apiGatewayVar    = "APIGATEWAY_URL"
	apiTimeoutVar    = "API_TIMEOUT"
	tokenEndpointVar = "SERVE_TOKEN_ENDPOINT"
	envVar           = "ENV"

	// DevEnv is the value of ENV used for local development
	DevEnv = "DEV"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Cognito Web App")
}

// GetTargetEnv is the deployment label shown on the page (e.g. "dev", "prod")
func (EnvVars) GetTargetEnv() string {
	return GetEnv(targetEnvVar, "local")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv(envVar)
	if env == "" {
		return DevEnv
	}
	return env
}

// IsDevelopment reports whether the app runs against a local development host.
// Session cookies are written without Secure/SameSite when true, so it needs
// ENV=DEV to be set explicitly; an unset ENV keeps cookies secure.
func (EnvVars) IsDevelopment() bool {
	return strings.EqualFold(os.Getenv(envVar), DevEnv)
}

type API struct{}

var _ APIConfig = API{}

// GetAPIGatewayURL returns the base URL of the REST API that serves jwt-get
func (API) GetAPIGatewayURL() string {
	return GetEnv(apiGatewayVar, "http://localhost:8080/")
}

func (API) GetAPITimeout() time.Duration {
	d, err := time.ParseDuration(GetEnv(apiTimeoutVar, "10s"))
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// ServeTokenEndpoint reports whether this process also hosts the jwt-get backend
func (API) ServeTokenEndpoint() bool {
	v, err := strconv.ParseBool(GetEnv(tokenEndpointVar, "false"))
	return err == nil && v
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
