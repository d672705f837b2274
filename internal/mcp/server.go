package mcp

import (
	"context"
	"encoding/json"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Config contains server configuration.
type Config struct {
	Services      Services
	Resolver      CallerResolver
	AuthEnabled   bool
	TransportMode string // "stdio" or "http"
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "temporal-xray",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	// Stdio mode: always disable auth (local use only)
	identity := noAuthMiddleware("default")
	if cfg.TransportMode != "stdio" && cfg.AuthEnabled {
		identity = authMiddleware(cfg.Resolver)
	}
	// Within one call the first middleware is outermost.
	server.AddReceivingMiddleware(
		identity,
		sessionMiddleware(),
		requestIDMiddleware(),
		trafficLoggingMiddleware(cfg.Logger, "inbound"),
	)
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, NewHandler(cfg.Services, cfg.Logger), cfg.Logger)

	return server
}

func registerTools(server *sdkmcp.Server, handler *Handler, logger *slog.Logger) {
	for _, def := range buildToolCatalog() {
		name := def.Name
		server.AddTool(&sdkmcp.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema,
		}, func(ctx context.Context, req *sdkmcp.CallToolRequest) (*sdkmcp.CallToolResult, error) {
			var args json.RawMessage
			if req != nil && req.Params != nil {
				args = req.Params.Arguments
			}
			sessionID := getSessionID(ctx)
			if sessionID == "" && req != nil && req.Session != nil {
				sessionID = req.Session.ID()
			}

			result, err := handler.Handle(ctx, getCallerID(ctx), sessionID, name, args)
			if err != nil {
				logger.Warn("tool call failed", "tool", name, "request_id", getRequestID(ctx), "error", err)
				return errorResult(err), nil
			}
			return jsonResult(result)
		})
	}
}

func jsonResult(v any) (*sdkmcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil
}

func errorResult(err error) *sdkmcp.CallToolResult {
	text := err.Error()
	if apiErr, ok := err.(*APIError); ok {
		if data, mErr := json.Marshal(map[string]any{"error": apiErr}); mErr == nil {
			text = string(data)
		}
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: text}},
		IsError: true,
	}
}
