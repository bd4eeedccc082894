// Package middleware holds HTTP middleware shared by the API routes.
package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
)

// RequireAPIKey rejects requests whose X-API-Key header does not match the
// configured key. An empty key disables the check, which is the local
// development default.
func RequireAPIKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key != "" {
				provided := r.Header.Get("X-API-Key")
				if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusUnauthorized)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"error": "invalid or missing API key",
					})
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
