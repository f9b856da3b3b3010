package server

import (
	"net/http"
	"net/url"

	"github.com/jrsteele09/go-cognito-webapp/sessions"
)

const contentTypeHTML = "text/html; charset=utf-8"

// sessionStore binds the cookie session store to one request
func (s *Server) sessionStore(w http.ResponseWriter, r *http.Request) *sessions.CookieStore {
	return sessions.NewCookieStore(w, r, sessions.CookieOptions{
		Development: s.config.IsDevelopment(),
		Domain:      s.config.GetCookieDomain(),
		MaxAge:      s.config.GetSessionMaxAge(),
	})
}

// redirectNavigator navigates the browser with a 303 response. Cookies set on
// the same writer before Navigate travel with the redirect.
type redirectNavigator struct {
	w http.ResponseWriter
	r *http.Request
}

func (n redirectNavigator) Navigate(path string) error {
	redirectSuccess(n.w, n.r, path)
	return nil
}

// redirectSuccess helper for htmx-aware success redirects
func redirectSuccess(w http.ResponseWriter, r *http.Request, path string) {
	if isHTMXRequest(r) {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusNoContent) // 204 - no content, just redirect instruction
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// redirectWithError helper for htmx-aware error redirects
func redirectWithError(w http.ResponseWriter, r *http.Request, path, errorMsg string) {
	fullPath := path + "?error=" + url.QueryEscape(errorMsg)
	redirectSuccess(w, r, fullPath)
}

// isHTMXRequest checks if the request was initiated by HTMX
func isHTMXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
