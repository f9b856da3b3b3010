package config

import "time"

type Config interface {
	EnvConfig
	APIConfig
	CognitoConfig
	CorsConfig
	SecurityConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetTargetEnv() string
	GetEnv() string
	IsDevelopment() bool
}

// APIConfig describes the backend the page exchanges authorization codes with.
type APIConfig interface {
	GetAPIGatewayURL() string
	GetAPITimeout() time.Duration
	ServeTokenEndpoint() bool
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	API
	Cognito
	Cors
	Security
}

func New() Config {
	return mainConfig{}
}
