package transport

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// ErrUnauthorized indicates invalid or missing credentials.
var ErrUnauthorized = errors.New("unauthorized")

// DefaultCaller is the caller ID used when authentication is disabled.
const DefaultCaller = "default"

type callerKey struct{}

// CallerResolver resolves a caller ID from a bearer token.
type CallerResolver interface {
	ResolveCaller(ctx context.Context, token string) (string, error)
}

// CallerFromContext returns the caller ID from context, if present.
func CallerFromContext(ctx context.Context) (string, bool) {
	callerID, ok := ctx.Value(callerKey{}).(string)
	return callerID, ok
}

// AuthMiddleware enforces bearer token authentication.
func AuthMiddleware(resolver CallerResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if token == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			callerID, err := resolver.ResolveCaller(r.Context(), token)
			if err != nil || callerID == "" {
				http.Error(w, "invalid bearer token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), callerKey{}, callerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// NoAuthMiddleware attributes every request to DefaultCaller.
func NoAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), callerKey{}, DefaultCaller)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
