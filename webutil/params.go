// Package webutil holds small helpers for reading the page location and
// writing HTTP responses.
package webutil

import (
	"net/url"
	"strings"
)

// ParameterByName returns the decoded value of the first query parameter called
// name. The bool is false when the parameter is not present at all.
func ParameterByName(u *url.URL, name string) (string, bool) {
	if u == nil || name == "" {
		return "", false
	}
	return QueryParameter(u.RawQuery, name)
}

// QueryParameter reads name from a raw query string, with or without the leading '?'.
// Pairs that fail to decode are skipped rather than failing the whole lookup.
func QueryParameter(rawQuery, name string) (string, bool) {
	rawQuery = strings.TrimPrefix(rawQuery, "?")
	for rawQuery != "" {
		var pair string
		pair, rawQuery, _ = strings.Cut(rawQuery, "&")
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(key)
		if err != nil || key != name {
			continue
		}
		value, err = url.QueryUnescape(value)
		if err != nil {
			continue
		}
		return value, true
	}
	return "", false
}
