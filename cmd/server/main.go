package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/temporal-xray/internal/config"
	"github.com/rpggio/temporal-xray/internal/domain/diff"
	"github.com/rpggio/temporal-xray/internal/domain/history"
	"github.com/rpggio/temporal-xray/internal/domain/workflow"
	"github.com/rpggio/temporal-xray/internal/mcp"
	"github.com/rpggio/temporal-xray/internal/sqlite"
	"github.com/rpggio/temporal-xray/internal/temporal"
	"github.com/rpggio/temporal-xray/internal/transport"
)

// Closed histories older than this are dropped from the cache at startup.
const cacheRetention = 30 * 24 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == "stdio" {
		logWriter = os.Stderr
	}
	if logPath := os.Getenv("XRAY_LOG_PATH"); logPath != "" {
		fileWriter, file, err := newLogFileWriter(logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer file.Close()
			logWriter = fileWriter
		}
	}
	logger := slog.New(tint.NewHandler(logWriter, &tint.Options{
		Level:      parseLogLevel(cfg.Log.Level),
		TimeFormat: time.DateTime,
		NoColor:    !isTerminal(logWriter),
	}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		logger.Error("failed to prepare database path", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	cacheRepo := sqlite.NewHistoryCacheRepository(db)
	if purged, err := cacheRepo.Purge(ctx, time.Now().Add(-cacheRetention)); err != nil {
		logger.Warn("failed to purge history cache", "error", err)
	} else if purged > 0 {
		logger.Info("purged history cache", "entries", purged)
	}

	clients := temporal.NewClientCache(cfg.Temporal, logger)
	defer clients.Close()
	provider := temporal.NewProvider(clients, logger)

	if cfg.Path != "" {
		watcher, err := config.NewWatcher(cfg.Path, func(tc config.TemporalConfig) error {
			clients.Reconfigure(tc)
			return nil
		}, logger)
		if err != nil {
			logger.Warn("config hot reload disabled", "path", cfg.Path, "error", err)
		} else {
			go func() {
				if err := watcher.Run(ctx); err != nil {
					logger.Error("config watcher stopped", "error", err)
				}
			}()
		}
	}

	historySvc := history.NewService(provider, cacheRepo, logger)
	services := mcp.Services{
		History:    historySvc,
		Compare:    diff.NewService(historySvc, logger),
		Workflows:  workflow.NewService(provider, logger),
		Connection: clients,
	}

	resolver := transport.APIKeyResolver{Keys: sqlite.NewAPIKeyRepository(db)}
	mcpServer := mcp.NewServer(mcp.Config{
		Services:      services,
		Resolver:      resolver,
		AuthEnabled:   cfg.Auth.Enabled,
		TransportMode: cfg.Transport.Mode,
		Logger:        logger,
	})

	logger.Info("temporal connection configured",
		"address", cfg.Temporal.Address,
		"namespace", cfg.Temporal.Namespace,
		"auth_type", cfg.Temporal.AuthType(),
	)

	if cfg.Transport.Mode == "stdio" {
		runStdioMode(ctx, logger, mcpServer)
		return
	}

	var auth func(http.Handler) http.Handler
	if cfg.Auth.Enabled {
		auth = transport.AuthMiddleware(resolver)
	}
	runHTTPMode(ctx, logger, mcpServer, mcp.NewHandler(services, logger), auth, cfg.Server.Host, cfg.Server.Port)
}

func runStdioMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server) {
	logger.Info("starting stdio transport", "auth", "disabled")

	// Run blocks until stdin closes or context is canceled
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		logger.Error("stdio server error", "error", err)
		os.Exit(1)
	}
	logger.Info("shutting down")
}

func runHTTPMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server, handler *mcp.Handler, auth func(http.Handler) http.Handler, host string, port int) {
	streamable := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)

	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           transport.NewServer(handler, streamable, auth),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", addr, "auth", auth != nil)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
