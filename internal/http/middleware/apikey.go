package middleware

import (
	"crypto/subtle"
	"net/http"

	"go.uber.org/zap"
)

// APIKey guards the internal API surface with a static X-API-Key header.
// An empty configured key disables the check, which is only acceptable in
// development.
func APIKey(key string, logger *zap.Logger) func(http.Handler) http.Handler {
	if key == "" {
		logger.Warn("API key not configured, internal API is unauthenticated")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			provided := r.Header.Get("X-API-Key")
			if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"type":"unauthorized","title":"Unauthorized","status":401,"detail":"A valid API key is required"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
