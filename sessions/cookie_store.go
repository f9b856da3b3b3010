package sessions

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

var _ Store = &CookieStore{}

// timeNow is time.Now but pulled out as a variable for tests.
var timeNow = time.Now

// MaxCookieSize is the browser limit for a single cookie, attributes included.
const MaxCookieSize = 4096

// CookieOptions controls the attributes of the session cookies.
type CookieOptions struct {
	// Development writes cookies without Secure and SameSite so they can be
	// inspected on a plain http localhost.
	Development bool
	Domain      string
	// Path defaults to "/".
	Path string
	// MaxAge of zero leaves the cookies as browser session cookies.
	MaxAge time.Duration
}

// CookieStore keeps session values in cookies for a single request/response pair.
// Values set during the request are visible to later Gets on the same store.
type CookieStore struct {
	w    http.ResponseWriter
	r    *http.Request
	opts CookieOptions

	// pending holds values written during this request; nil marks a removal
	pending map[string]*string
}

// NewCookieStore returns a store that reads cookies from r and writes them to w
func NewCookieStore(w http.ResponseWriter, r *http.Request, opts CookieOptions) *CookieStore {
	if opts.Path == "" {
		opts.Path = "/"
	}
	return &CookieStore{
		w:       w,
		r:       r,
		opts:    opts,
		pending: make(map[string]*string),
	}
}

func (cs *CookieStore) makeCookie(name, value string) *http.Cookie {
	c := &http.Cookie{
		Name:   name,
		Value:  value,
		Path:   cs.opts.Path,
		Domain: cs.opts.Domain,
	}
	if cs.opts.MaxAge > 0 {
		c.MaxAge = int(cs.opts.MaxAge.Seconds())
		c.Expires = timeNow().Add(cs.opts.MaxAge)
	}
	if !cs.opts.Development {
		c.Secure = true
		c.SameSite = http.SameSiteStrictMode
	}
	return c
}

func (cs *CookieStore) setCookie(c *http.Cookie) error {
	if cs.w == nil {
		return ErrUnavailable
	}
	if err := c.Valid(); err != nil {
		return fmt.Errorf("%w: %q: %w", ErrInvalidName, c.Name, err)
	}
	if len(c.String()) > MaxCookieSize {
		return fmt.Errorf("%w: %q is %d bytes", ErrValueTooLarge, c.Name, len(c.String()))
	}
	http.SetCookie(cs.w, c)
	return nil
}

// Set writes name as a cookie. The value is percent encoded so any string round trips.
func (cs *CookieStore) Set(name, value string) error {
	if err := cs.setCookie(cs.makeCookie(name, encodeValue(value))); err != nil {
		return err
	}
	cs.pending[name] = &value
	return nil
}

// Get returns the value written earlier in this request, or the one the browser sent.
func (cs *CookieStore) Get(name string) (string, error) {
	if v, ok := cs.pending[name]; ok {
		if v == nil {
			return "", ErrNotFound
		}
		return *v, nil
	}
	if cs.r == nil {
		return "", ErrUnavailable
	}
	c, err := cs.r.Cookie(name)
	if errors.Is(err, http.ErrNoCookie) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	value, err := decodeValue(c.Value)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrMalformed, name, err)
	}
	return value, nil
}

// Remove expires the cookie. It is safe to call for a cookie that was never set.
func (cs *CookieStore) Remove(name string) error {
	c := cs.makeCookie(name, "")
	c.MaxAge = -1
	c.Expires = timeNow().Add(-time.Hour)
	if err := cs.setCookie(c); err != nil {
		return err
	}
	cs.pending[name] = nil
	return nil
}

// encodeValue escapes everything that is not a valid cookie octet. Readers on
// the page can decode the result with decodeURIComponent.
func encodeValue(v string) string {
	return url.PathEscape(v)
}

func decodeValue(v string) (string, error) {
	return url.PathUnescape(v)
}
