package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/temporal-xray/internal/transport"
)

type contextKey int

const (
	callerIDKey contextKey = iota
	sessionIDKey
	requestIDKey
)

func getCallerID(ctx context.Context) string {
	v, _ := ctx.Value(callerIDKey).(string)
	return v
}

func getSessionID(ctx context.Context) string {
	v, _ := ctx.Value(sessionIDKey).(string)
	return v
}

func getRequestID(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}

// CallerResolver resolves a caller ID from a bearer token.
type CallerResolver interface {
	ResolveCaller(ctx context.Context, token string) (string, error)
}

// authMiddleware resolves the bearer token on every tool or resource call.
// Handshake and notification methods pass through unauthenticated.
func authMiddleware(resolver CallerResolver) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if method == "initialize" || method == "ping" || strings.HasPrefix(method, "notifications/") {
				return next(ctx, method, req)
			}

			var token string
			if extra := req.GetExtra(); extra != nil && extra.Header != nil {
				token = strings.TrimSpace(strings.TrimPrefix(extra.Header.Get("Authorization"), "Bearer "))
			}
			if token == "" {
				return nil, fmt.Errorf("%w: missing bearer token", transport.ErrUnauthorized)
			}

			callerID, err := resolver.ResolveCaller(ctx, token)
			if err != nil || callerID == "" {
				return nil, fmt.Errorf("%w: invalid bearer token", transport.ErrUnauthorized)
			}
			return next(context.WithValue(ctx, callerIDKey, callerID), method, req)
		}
	}
}

// noAuthMiddleware injects a default caller when auth is disabled.
func noAuthMiddleware(defaultCaller string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			ctx = context.WithValue(ctx, callerIDKey, defaultCaller)
			return next(ctx, method, req)
		}
	}
}

// sessionMiddleware records the session id from the HTTP header, or from
// params _meta.session_id on stdio.
func sessionMiddleware() sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			sessionID := headerSessionID(req)
			if sessionID == "" {
				sessionID = metaSessionID(req)
			}
			if sessionID != "" {
				ctx = context.WithValue(ctx, sessionIDKey, sessionID)
			}
			return next(ctx, method, req)
		}
	}
}

func headerSessionID(req sdkmcp.Request) string {
	extra := req.GetExtra()
	if extra == nil || extra.Header == nil {
		return ""
	}
	return extra.Header.Get(transport.SessionHeader)
}

// metaSessionID reads _meta.session_id. GetMeta panics on nil params, which
// the "initialized" notification sends.
func metaSessionID(req sdkmcp.Request) (sessionID string) {
	params := req.GetParams()
	if params == nil {
		return ""
	}
	defer func() {
		if recover() != nil {
			sessionID = ""
		}
	}()
	sessionID, _ = params.GetMeta()["session_id"].(string)
	return sessionID
}

// requestIDMiddleware tags every inbound request for log correlation.
func requestIDMiddleware() sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			ctx = context.WithValue(ctx, requestIDKey, uuid.NewString())
			return next(ctx, method, req)
		}
	}
}
