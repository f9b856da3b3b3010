package oauth2

// ResponseType represents the OAuth 2.0 response type requested from the hosted UI.
type ResponseType string

const (
	// CodeResponseType indicates the authorization code flow.
	// The provider redirects back with ?code=... which the page exchanges for tokens.
	CodeResponseType ResponseType = "code"
)

// GrantType represents the OAuth 2.0 grant type used at the token endpoint.
type GrantType string

const (
	// AuthorizationCodeGrant exchanges an authorization code for tokens.
	// Token request includes: grant_type, client_id, code, redirect_uri
	AuthorizationCodeGrant GrantType = "authorization_code"

	// RefreshTokenGrant exchanges a refresh token for new ID and access tokens.
	// Token request includes: grant_type, client_id, refresh_token
	// Cognito does not rotate the refresh token.
	RefreshTokenGrant GrantType = "refresh_token"
)
