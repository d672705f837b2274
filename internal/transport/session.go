package transport

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// SessionHeader carries the session id on /mcp and /rpc.
const SessionHeader = "Mcp-Session-Id"

type sessionKey struct{}

// WithSessionID returns ctx carrying sessionID.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionKey{}, sessionID)
}

// SessionIDFromContext returns the session ID from context, if present.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(sessionKey{}).(string)
	return sessionID, ok && sessionID != ""
}

// SessionMiddleware copies the session header into the request context.
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sessionID := r.Header.Get(SessionHeader); sessionID != "" {
			r = r.WithContext(WithSessionID(r.Context(), sessionID))
		}
		next.ServeHTTP(w, r)
	})
}

// ensureSession mints a session id for /rpc callers that did not send one
// and echoes it back so later calls can be correlated in the traffic log.
func ensureSession(w http.ResponseWriter, r *http.Request) (string, *http.Request) {
	sessionID, ok := SessionIDFromContext(r.Context())
	if !ok {
		sessionID = "rpc-" + uuid.NewString()
		r = r.WithContext(WithSessionID(r.Context(), sessionID))
	}
	w.Header().Set(SessionHeader, sessionID)
	return sessionID, r
}
