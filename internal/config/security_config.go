package config

import "time"

type SecurityConfig interface {
	GetSessionMaxAge() time.Duration
	GetCookieDomain() string
}

type Security struct{}

var _ SecurityConfig = Security{}

// GetSessionMaxAge is the lifetime of the session cookies. Zero keeps them as
// browser session cookies.
func (Security) GetSessionMaxAge() time.Duration {
	d, err := time.ParseDuration(GetEnv("SESSION_MAX_AGE", "0s"))
	if err != nil || d < 0 {
		return 0
	}
	return d
}

func (Security) GetCookieDomain() string {
	return GetEnv("COOKIE_DOMAIN", "")
}
