package auth

import (
	"net/http"
	"strings"
)

/* REF: middleware Request authentication
 * Every inbound request passes through the bearer-token check before it
 * reaches a handler.
 */

// REF: token-check
// Requests without a token are rejected outright; malformed tokens get
// a 403 so clients can tell the two cases apart.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if !validateToken(token) {
			http.Error(w, "invalid token", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CLOSE: token-check

// REF: token-helpers
func extractToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

func validateToken(token string) bool {
	// In production, this would verify JWT signature and expiration.
	return len(token) > 0
}

// CLOSE: token-helpers
// CLOSE: middleware
