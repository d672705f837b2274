package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// MCPHandler handles tool dispatch for the JSON-RPC endpoint.
type MCPHandler interface {
	Handle(ctx context.Context, callerID, sessionID, method string, params json.RawMessage) (any, error)
}

// codedError is implemented by errors that carry a stable error code.
type codedError interface {
	error
	CodeValue() string
	RecoveryHintValue() string
}

// Server wires HTTP handlers.
type Server struct {
	handler MCPHandler
}

// NewServer creates an HTTP server router with middleware. streamable serves
// the MCP streamable HTTP transport on /mcp; /rpc accepts plain JSON-RPC tool
// calls. A nil authMiddleware disables authentication.
func NewServer(handler MCPHandler, streamable http.Handler, authMiddleware func(http.Handler) http.Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	srv := &Server{handler: handler}
	r.Get("/health", srv.handleHealth)

	r.Group(func(r chi.Router) {
		if authMiddleware != nil {
			r.Use(authMiddleware)
		} else {
			r.Use(NoAuthMiddleware)
		}
		r.Use(SessionMiddleware)

		r.Post("/rpc", srv.handleRPC)
		if streamable != nil {
			r.Handle("/mcp", streamable)
		}
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	req, err := ParseRequest(r.Body)
	if err != nil {
		WriteError(w, nil, requestErrorCode(err), err.Error(), nil)
		return
	}

	callerID, ok := CallerFromContext(r.Context())
	if !ok || callerID == "" {
		http.Error(w, "missing caller", http.StatusUnauthorized)
		return
	}

	sessionID, r := ensureSession(w, r)

	result, err := s.handler.Handle(r.Context(), callerID, sessionID, req.Method, req.Params)
	if err != nil {
		var coded codedError
		switch {
		case errors.Is(err, ErrUnauthorized):
			http.Error(w, "unauthorized", http.StatusUnauthorized)
		case errors.Is(err, ErrUnknownMethod):
			WriteError(w, req.ID, ErrMethodNotFound, err.Error(), nil)
		case errors.Is(err, ErrBadParams):
			WriteError(w, req.ID, ErrInvalidParams, err.Error(), nil)
		case errors.As(err, &coded):
			WriteError(w, req.ID, ErrInvalidParams, err.Error(), map[string]string{
				"code":          coded.CodeValue(),
				"recovery_hint": coded.RecoveryHintValue(),
			})
		default:
			WriteError(w, req.ID, ErrInternal, err.Error(), nil)
		}
		return
	}

	WriteResult(w, req.ID, result)
}
