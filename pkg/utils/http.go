// Package utils provides common utility functions.
package utils

import (
	"net/http"
	"net/url"
)

// IsValidURL reports whether raw is an absolute http(s) URL with a host.
func IsValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}

	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// BuildHeaders creates HTTP headers with defaults.
func BuildHeaders(customHeaders map[string]string) http.Header {
	headers := http.Header{}

	headers.Add("User-Agent", "hisdash/1.0")
	headers.Add("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")

	for key, value := range customHeaders {
		headers.Add(key, value)
	}

	return headers
}
