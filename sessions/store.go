// Package sessions stores the browser held session values written after a
// successful code exchange.
package sessions

import "errors"

// Session value names. Other page logic reads these, so they must not change.
const (
	KeyIDToken      = "jwt.id"
	KeyRefreshToken = "jwt.refresh"
	KeyExpires      = "jwt.expires"
	KeyUsername     = "username"
)

// Keys lists every session value in the order they are written.
var Keys = []string{KeyIDToken, KeyRefreshToken, KeyExpires, KeyUsername}

var (
	// ErrNotFound is returned by Get when the value is unset. It is not a storage failure.
	ErrNotFound = errors.New("sessions: value not found")
	// ErrUnavailable is returned when the backing storage cannot be read or written.
	ErrUnavailable = errors.New("sessions: storage unavailable")
	// ErrMalformed is returned when a stored value cannot be decoded.
	ErrMalformed = errors.New("sessions: malformed value")
	// ErrValueTooLarge is returned when a value does not fit in the storage.
	ErrValueTooLarge = errors.New("sessions: value too large")
	// ErrInvalidName is returned for names the storage cannot represent.
	ErrInvalidName = errors.New("sessions: invalid name")
)

// Store gets, sets and removes named session values.
type Store interface {
	Set(name, value string) error
	// Get returns ErrNotFound when name is unset.
	Get(name string) (string, error)
	// Remove is idempotent.
	Remove(name string) error
}
