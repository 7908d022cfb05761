package middleware

import (
	"fmt"
	"net/http"
)

// ContentSecurityPolicy stamps the CSP header on every response. The frontend
// is served from the same origin, so only connect-src varies per deploy.
func ContentSecurityPolicy(connectSrc string) func(http.Handler) http.Handler {
	if connectSrc == "" {
		connectSrc = "'self' https: http:"
	}
	policy := fmt.Sprintf(
		"default-src 'self'; connect-src %s; img-src 'self' data: blob: https: http:; style-src 'self' 'unsafe-inline'; script-src 'self' 'unsafe-inline' 'unsafe-eval'",
		connectSrc,
	)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Security-Policy", policy)
			next.ServeHTTP(w, r)
		})
	}
}
