package oauth2

// TokenResponse is the body returned by the provider's /oauth2/token endpoint (RFC 6749 §5.1).
type TokenResponse struct {
	// AccessToken carries the "username" and "token_use" claims read by the backend.
	AccessToken string `json:"access_token"`

	// IDToken is the OpenID Connect ID token stored in the jwt.id cookie.
	IDToken string `json:"id_token,omitempty"`

	// RefreshToken is only present on the authorization_code grant.
	RefreshToken string `json:"refresh_token,omitempty"`

	// TokenType is always "Bearer".
	TokenType string `json:"token_type"`

	// ExpiresIn is the lifetime in seconds of the ID and access tokens.
	ExpiresIn int64 `json:"expires_in"`
}

// ErrorResponse is the body of a rejected token request (RFC 6749 §5.2).
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}
