// Package middleware holds the HTTP middleware for the API layer.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/funny-life2033/HyperDriveAI-backend/internal/api/ctxkeys"
	pkgauth "github.com/funny-life2033/HyperDriveAI-backend/pkg/auth"
)

// TokenChecker reports whether a token has been invalidated by logout.
// Implemented by the user service.
type TokenChecker interface {
	IsTokenBlocked(ctx context.Context, token string) (bool, error)
}

// Auth validates the Bearer JWT and rejects blocklisted tokens, then
// injects the user's identity into the request context.
func Auth(checker TokenChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := extractBearerToken(r)
			if tokenString == "" {
				writeUnauthorized(w, "missing or invalid Authorization header")
				return
			}

			claims, err := pkgauth.ParseJWT(tokenString)
			if err != nil {
				writeUnauthorized(w, "invalid or expired token")
				return
			}

			blocked, err := checker.IsTokenBlocked(r.Context(), tokenString)
			if err != nil {
				writeUnauthorized(w, "could not verify token")
				return
			}
			if blocked {
				writeUnauthorized(w, "token revoked")
				return
			}

			ctx := ctxkeys.WithUser(r.Context(), claims.UserID, claims.Email, tokenString)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearerToken pulls the token out of "Authorization: Bearer <t>".
// Empty result means missing header, wrong scheme or empty token.
func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": message}) //nolint:errcheck
}
