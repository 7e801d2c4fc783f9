package middleware

import (
	"net/http"
	"strings"
)

// CaseInsensitiveMiddleware converts all URL paths to lowercase.
// Share links are distributed as QR codes, where uppercase alphanumeric
// content encodes more densely, so /S/ABC and /s/abc must both resolve.
func CaseInsensitiveMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.URL.Path = strings.ToLower(r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
