package authflow

import (
	"github.com/golang-jwt/jwt/v5"
	apperrors "github.com/jrsteele09/go-cognito-webapp/internal/errors"
)

// Claims are the ID token claims the page displays
type Claims struct {
	jwt.RegisteredClaims
	Email           string `json:"email,omitempty"`
	CognitoUsername string `json:"cognito:username,omitempty"`
}

// DisplayName picks the friendliest identifier available
func (c *Claims) DisplayName() string {
	switch {
	case c.CognitoUsername != "":
		return c.CognitoUsername
	case c.Email != "":
		return c.Email
	default:
		return c.Subject
	}
}

// IdentityClaims decodes the ID token claims without checking the signature.
// The token was verified by the backend that issued it; use the result for
// display only, never for authorization.
func IdentityClaims(idToken string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(idToken, claims); err != nil {
		return nil, apperrors.Join(apperrors.ErrInvalidToken, err)
	}
	return claims, nil
}
