package authflow

import (
	"errors"
	"time"

	apperrors "github.com/jrsteele09/go-cognito-webapp/internal/errors"
	"github.com/jrsteele09/go-cognito-webapp/sessions"
	"github.com/jrsteele09/go-cognito-webapp/tokenexchange"
)

// ExpiryLayout is ISO-8601 in UTC with millisecond precision, the same shape
// JavaScript's Date.toISOString produces.
const ExpiryLayout = "2006-01-02T15:04:05.000Z"

// Session is the set of values stored after a successful exchange
type Session struct {
	IDToken      string
	RefreshToken string
	Expires      time.Time
	Username     string
}

// Expired reports whether the ID token has reached its expiry
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.Expires)
}

// ExpiryTimestamp returns now+ttl formatted with ExpiryLayout
func ExpiryTimestamp(now time.Time, ttl time.Duration) string {
	return expiry(now, ttl).Format(ExpiryLayout)
}

func expiry(now time.Time, ttl time.Duration) time.Time {
	return now.Add(ttl).UTC().Truncate(time.Millisecond)
}

// SetAuthCookies writes the four session values. On a failed write the values
// already written are put back to what they were before the call, or removed
// if they were unset, and the error wraps ErrStorageFailure.
func SetAuthCookies(store sessions.Store, result *tokenexchange.Result, now time.Time) error {
	if result == nil {
		return apperrors.Wrapf(ErrExchangeFailed, "[authflow SetAuthCookies] no token result")
	}

	values := []struct {
		key   string
		value string
	}{
		{sessions.KeyIDToken, result.IDToken},
		{sessions.KeyRefreshToken, result.RefreshToken},
		{sessions.KeyExpires, ExpiryTimestamp(now, result.TTL())},
		{sessions.KeyUsername, result.Username},
	}

	// previous[key] is nil when the key was unset or unreadable
	previous := make(map[string]*string, len(values))
	for _, v := range values {
		old, err := store.Get(v.key)
		switch {
		case err == nil:
			previous[v.key] = &old
		case errors.Is(err, sessions.ErrNotFound), errors.Is(err, sessions.ErrMalformed):
			previous[v.key] = nil
		default:
			return apperrors.Join(ErrStorageFailure, apperrors.Wrapf(err, "get %s", v.key))
		}
	}

	for i, v := range values {
		if err := store.Set(v.key, v.value); err != nil {
			for _, written := range values[:i] {
				if old := previous[written.key]; old != nil {
					_ = store.Set(written.key, *old)
				} else {
					_ = store.Remove(written.key)
				}
			}
			return apperrors.Join(ErrStorageFailure, apperrors.Wrapf(err, "set %s", v.key))
		}
	}
	return nil
}

// Logout removes every session value. All removals are attempted even if one fails.
func Logout(store sessions.Store) error {
	var errs []error
	for _, key := range sessions.Keys {
		if err := store.Remove(key); err != nil {
			errs = append(errs, apperrors.Wrapf(err, "remove %s", key))
		}
	}
	if len(errs) > 0 {
		return apperrors.Join(ErrStorageFailure, errors.Join(errs...))
	}
	return nil
}

// CurrentSession reads the stored session. A missing value gives ErrNotLoggedIn;
// storage that cannot be read gives ErrStorageFailure.
func CurrentSession(store sessions.Store) (*Session, error) {
	values := make(map[string]string, len(sessions.Keys))
	for _, key := range sessions.Keys {
		v, err := store.Get(key)
		if errors.Is(err, sessions.ErrNotFound) {
			return nil, apperrors.Wrapf(ErrNotLoggedIn, "%s is not set", key)
		}
		if err != nil {
			return nil, apperrors.Join(ErrStorageFailure, err)
		}
		values[key] = v
	}

	expires, err := time.Parse(time.RFC3339, values[sessions.KeyExpires])
	if err != nil {
		return nil, apperrors.Join(ErrStorageFailure, apperrors.Join(sessions.ErrMalformed, err))
	}

	return &Session{
		IDToken:      values[sessions.KeyIDToken],
		RefreshToken: values[sessions.KeyRefreshToken],
		Expires:      expires,
		Username:     values[sessions.KeyUsername],
	}, nil
}

// IsLoggedIn reports whether a complete, unexpired session is stored
func IsLoggedIn(store sessions.Store, now time.Time) bool {
	s, err := CurrentSession(store)
	return err == nil && !s.Expired(now)
}
