package authflow_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-cognito-webapp/authflow"
	apperrors "github.com/jrsteele09/go-cognito-webapp/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestIdentityClaims(t *testing.T) {
	claims := jwt.MapClaims{
		"sub":              "1234",
		"email":            "alice@example.com",
		"cognito:username": "alice",
		"exp":              testNow.Add(time.Hour).Unix(),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	got, err := authflow.IdentityClaims(raw)
	require.NoError(t, err)
	require.Equal(t, "alice", got.DisplayName())
	require.Equal(t, "alice@example.com", got.Email)
	require.Equal(t, "1234", got.Subject)
	require.Equal(t, testNow.Add(time.Hour).Unix(), got.ExpiresAt.Unix())

	got.CognitoUsername = ""
	require.Equal(t, "alice@example.com", got.DisplayName())
	got.Email = ""
	require.Equal(t, "1234", got.DisplayName())

	_, err = authflow.IdentityClaims("not-a-jwt")
	require.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
