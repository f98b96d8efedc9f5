package chi

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey int

const userIDKey ctxKey = iota

// exemptPaths are routes that bypass authentication (health, metrics).
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// isBlobPath reports whether the request targets a file blob route. Those
// are authorized by the URL signature instead of a bearer token.
func isBlobPath(path string) bool {
	return strings.HasPrefix(path, "/api/v1/files/") && strings.HasSuffix(path, "/blob")
}

// BearerAuthMiddleware returns a middleware that validates Bearer tokens
// and resolves them to user ids. tokens maps a token to its user. If tokens
// is empty, authentication is disabled and every request runs as "default".
func BearerAuthMiddleware(tokens map[string]string) func(http.Handler) http.Handler {
	valid := make(map[string]string, len(tokens))
	for token, userID := range tokens {
		if token != "" && userID != "" {
			valid[token] = userID
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}
			if isBlobPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			// Auth disabled — single-user mode
			if len(valid) == 0 {
				next.ServeHTTP(w, r.WithContext(withUserID(r.Context(), "default")))
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing authorization header")
				return
			}

			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(auth, bearerPrefix) {
				writeError(w, http.StatusUnauthorized, codeUnauthorized,
					"authorization header must use Bearer scheme")
				return
			}

			userID, ok := valid[auth[len(bearerPrefix):]]
			if !ok {
				writeError(w, http.StatusUnauthorized, codeUnauthorized, "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(withUserID(r.Context(), userID)))
		})
	}
}

func withUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// userID returns the authenticated user for the request, or "" on
// signature-authed routes.
func userID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}
