// Package network extracts client and origin information from requests
// that may have passed through a reverse proxy.
package network

import (
	"net"
	"net/http"
	"strings"
)

// GetClientIP returns the client address for r. The first entry of
// X-Forwarded-For wins, then X-Real-IP, then RemoteAddr without its port.
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// Origin returns scheme://host for the page that served r, honoring
// X-Forwarded-Proto and X-Forwarded-Host.
func Origin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := r.Header.Get("X-Forwarded-Proto"); p != "" {
		first, _, _ := strings.Cut(p, ",")
		scheme = strings.ToLower(strings.TrimSpace(first))
	}
	host := r.Host
	if h := r.Header.Get("X-Forwarded-Host"); h != "" {
		first, _, _ := strings.Cut(h, ",")
		host = strings.TrimSpace(first)
	}
	if host == "" {
		return ""
	}
	return scheme + "://" + host
}
