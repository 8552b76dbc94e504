package middleware

import (
	"context"
	"net/http"
	"strings"

	jwtutil "github.com/Adilzhan2201/Special_Network/pkg/jwt"
	"github.com/Adilzhan2201/Special_Network/pkg/logger"
)

type contextKey string

// UserContextKey is the request-context key holding the verified claims.
const UserContextKey contextKey = "user"

// AuthMiddleware verifies the Authorization header and stores the claims
// in the request context. Accepts both "Bearer <token>" and a bare token.
func AuthMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("Authorization")
			token = strings.TrimPrefix(token, "Bearer ")
			if token == "" {
				logger.Log.Warn("Missing token on protected route")
				http.Error(w, "No token provided", http.StatusUnauthorized)
				return
			}

			claims, err := jwtutil.ValidateToken(token, jwtSecret)
			if err != nil {
				logger.Log.Warnf("Token verification failed: %v", err)
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext returns the claims stored by AuthMiddleware, or nil.
func GetUserFromContext(ctx context.Context) *jwtutil.Claims {
	claims, ok := ctx.Value(UserContextKey).(*jwtutil.Claims)
	if !ok {
		return nil
	}
	return claims
}
