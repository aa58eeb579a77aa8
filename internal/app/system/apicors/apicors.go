// Package apicors provides CORS middleware for the JSON API.
//
// The admin panel and the public site may be served from a different origin
// than the API (for example a static front end on a CDN). Admin calls carry
// the session cookie, so CORS is restricted to configured origins and
// credentials are allowed.
package apicors

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	allowMethods = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	allowHeaders = "Content-Type, Accept, X-CSRF-Token, X-Requested-With"
)

// MiddlewareWithOrigins returns CORS middleware that only allows specific
// origins and permits credentialed requests from them.
//
// Usage in routes.go:
//
//	r.Route("/api", func(api chi.Router) {
//	    api.Use(apicors.MiddlewareWithOrigins(appCfg.CORSOrigins...))
//	    ...
//	})
func MiddlewareWithOrigins(allowedOrigins ...string) func(http.Handler) http.Handler {
	originSet := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		originSet[strings.TrimSuffix(o, "/")] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if origin != "" {
				w.Header().Add("Vary", "Origin")
				if _, allowed := originSet[origin]; allowed {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Set("Access-Control-Allow-Credentials", "true")
				}
				// If origin not allowed, don't set CORS headers (browser will block)
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.Header().Set("Access-Control-Allow-Methods", allowMethods)
				w.Header().Set("Access-Control-Allow-Headers", allowHeaders)
				w.Header().Set("Access-Control-Max-Age", "86400")
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ParseOrigins splits a comma-separated origin list and checks that every
// entry is a bare scheme://host[:port] origin.
func ParseOrigins(csv string) ([]string, error) {
	var out []string
	for _, part := range strings.Split(csv, ",") {
		o := strings.TrimSuffix(strings.TrimSpace(part), "/")
		if o == "" {
			continue
		}
		u, err := url.Parse(o)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, fmt.Errorf("invalid CORS origin %q", o)
		}
		if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
			return nil, fmt.Errorf("CORS origin %q must not include a path", o)
		}
		out = append(out, o)
	}
	return out, nil
}
