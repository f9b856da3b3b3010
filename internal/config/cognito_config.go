package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/jrsteele09/go-cognito-webapp/oauth2"
)

type CognitoConfig interface {
	GetCognitoDomainPrefix() string
	GetCognitoRegion() string
	GetCognitoClientID() string
	GetCognitoPoolID() string
	GetRedirectURI() string
	GetCognitoURL() string
	GetCognitoIssuer() string
	GetLoginURL() string
	GetLogoutURL() string
}

type Cognito struct{}

var _ CognitoConfig = Cognito{}

// GetCognitoDomainPrefix returns the hosted UI domain prefix. Dots are not valid
// in a Cognito domain prefix so they are replaced with dashes.
func (Cognito) GetCognitoDomainPrefix() string {
	return strings.ReplaceAll(GetEnv("COGNITO_DOMAIN_PREFIX", ""), ".", "-")
}

func (Cognito) GetCognitoRegion() string {
	return GetEnv("COGNITO_REGION", "us-east-1")
}

func (Cognito) GetCognitoClientID() string {
	return GetEnv("COGNITO_APP_CLIENT_ID", "")
}

func (Cognito) GetCognitoPoolID() string {
	return GetEnv("COGNITO_POOL_ID", "")
}

func (Cognito) GetRedirectURI() string {
	return GetEnv("COGNITO_REDIRECT_URI", "http://localhost:8080/")
}

// GetCognitoURL returns the hosted UI base URL, e.g. https://myapp.auth.us-east-1.amazoncognito.com
func (c Cognito) GetCognitoURL() string {
	return fmt.Sprintf("https://%s.auth.%s.amazoncognito.com", c.GetCognitoDomainPrefix(), c.GetCognitoRegion())
}

// GetCognitoIssuer returns the user pool issuer used to verify tokens
func (c Cognito) GetCognitoIssuer() string {
	return fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", c.GetCognitoRegion(), c.GetCognitoPoolID())
}

func (c Cognito) GetLoginURL() string {
	return HostedUIURL(c.GetCognitoURL(), "login", c.GetCognitoClientID(), c.GetRedirectURI())
}

func (c Cognito) GetLogoutURL() string {
	return HostedUIURL(c.GetCognitoURL(), "logout", c.GetCognitoClientID(), c.GetRedirectURI())
}

// HostedUIURL builds a hosted UI link for the code flow
func HostedUIURL(base, endpoint, clientID, redirectURI string) string {
	params := url.Values{}
	params.Set("response_type", string(oauth2.CodeResponseType))
	params.Set("client_id", clientID)
	params.Set("redirect_uri", redirectURI)
	return strings.TrimRight(base, "/") + "/" + endpoint + "?" + params.Encode()
}
