package errors

import (
	"errors"
	"fmt"
)

// Common error types for the web app auth flow
var (
	// Authorization code flow errors
	ErrInvalidCode     = errors.New("invalid authorization code")
	ErrExchangeFailed  = errors.New("token exchange failed")
	ErrInvalidGrant    = errors.New("invalid grant")
	ErrInvalidRequest  = errors.New("invalid request")
	ErrProviderFailure = errors.New("identity provider unavailable")

	// Token errors
	ErrInvalidToken        = errors.New("invalid token")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// Session errors
	ErrStorageFailure = errors.New("session storage failure")
	ErrNotLoggedIn    = errors.New("not logged in")
	ErrNavigation     = errors.New("navigation failed")

	// General errors
	ErrUnsupported = errors.New("unsupported operation")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Join wraps err under the sentinel so both match with Is
func Join(sentinel, err error) error {
	if err == nil {
		return sentinel
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
