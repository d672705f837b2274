package testserver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/temporal-xray/internal/config"
	"github.com/rpggio/temporal-xray/internal/domain/diff"
	"github.com/rpggio/temporal-xray/internal/domain/history"
	"github.com/rpggio/temporal-xray/internal/domain/workflow"
	"github.com/rpggio/temporal-xray/internal/mcp"
	"github.com/rpggio/temporal-xray/internal/sqlite"
	"github.com/rpggio/temporal-xray/internal/temporal"
	"github.com/rpggio/temporal-xray/internal/transport"
	"github.com/stretchr/testify/require"
)

// Providers stands in for the Temporal frontend.
type Providers struct {
	History   history.Provider
	Workflows workflow.Provider
}

type TestServer struct {
	Server   *httptest.Server
	DB       *sqlite.DB
	Token    string
	CallerID string
}

// New starts the HTTP stack (JSON-RPC on /rpc, MCP on /mcp) with auth
// enabled and the history cache on an in-memory database.
func New(t *testing.T, token, callerID string, providers Providers) *TestServer {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	historySvc := history.NewService(providers.History, sqlite.NewHistoryCacheRepository(db), nil)
	services := mcp.Services{
		History:    historySvc,
		Compare:    diff.NewService(historySvc, nil),
		Workflows:  workflow.NewService(providers.Workflows, nil),
		Connection: temporal.NewClientCacheWithDialer(config.Default().Temporal, unreachable, nil),
	}
	resolver := transport.APIKeyResolver{Keys: sqlite.NewAPIKeyRepository(db)}

	mcpServer := mcp.NewServer(mcp.Config{
		Services:      services,
		Resolver:      resolver,
		AuthEnabled:   true,
		TransportMode: "http",
	})
	streamable := sdkmcp.NewStreamableHTTPHandler(func(*http.Request) *sdkmcp.Server { return mcpServer }, nil)

	server := httptest.NewServer(transport.NewServer(mcp.NewHandler(services, nil), streamable, transport.AuthMiddleware(resolver)))

	ts := &TestServer{
		Server:   server,
		DB:       db,
		Token:    token,
		CallerID: callerID,
	}

	require.NoError(t, ts.AddAPIKey(token, callerID))

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}

func (ts *TestServer) AddAPIKey(token, callerID string) error {
	return sqlite.NewAPIKeyRepository(ts.DB).Create(context.Background(), transport.HashToken(token), callerID, "test")
}

func unreachable(_ context.Context, cfg config.TemporalConfig, _ string) (temporal.Conn, error) {
	return nil, fmt.Errorf("dial %s: %w", cfg.Address, temporal.ErrUnavailable)
}
