package temporal

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rpggio/temporal-xray/internal/config"
	"go.temporal.io/api/workflowservice/v1"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/converter"
	sdklog "go.temporal.io/sdk/log"
)

// Conn is the part of the SDK client the provider uses. client.Client
// satisfies it.
type Conn interface {
	WorkflowService() workflowservice.WorkflowServiceClient
	QueryWorkflow(ctx context.Context, workflowID, runID, queryType string, args ...interface{}) (converter.EncodedValue, error)
	Close()
}

// Dialer opens a connection to one namespace.
type Dialer func(ctx context.Context, cfg config.TemporalConfig, namespace string) (Conn, error)

// Status describes the active connection settings.
type Status struct {
	Address   string `json:"address"`
	Namespace string `json:"namespace"`
	AuthType  string `json:"authType"`
	Connected bool   `json:"connected"`
}

// ClientCache holds one connection per namespace for the active server.
type ClientCache struct {
	mu      sync.Mutex
	cfg     config.TemporalConfig
	clients map[string]Conn
	dial    Dialer
	logger  *slog.Logger
}

// NewClientCache creates a cache that dials lazily with the SDK.
func NewClientCache(cfg config.TemporalConfig, logger *slog.Logger) *ClientCache {
	if logger == nil {
		logger = slog.Default()
	}
	c := &ClientCache{
		cfg:     cfg,
		clients: make(map[string]Conn),
		logger:  logger,
	}
	c.dial = c.sdkDial
	return c
}

// NewClientCacheWithDialer creates a cache that dials with d.
func NewClientCacheWithDialer(cfg config.TemporalConfig, d Dialer, logger *slog.Logger) *ClientCache {
	c := NewClientCache(cfg, logger)
	c.dial = d
	return c
}

// ResolveNamespace returns namespace, or the configured one when empty.
func (c *ClientCache) ResolveNamespace(namespace string) string {
	if namespace != "" {
		return namespace
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg.Namespace
}

// Get returns the cached connection for namespace, dialing on first use.
func (c *ClientCache) Get(ctx context.Context, namespace string) (Conn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if namespace == "" {
		namespace = c.cfg.Namespace
	}
	if conn, ok := c.clients[namespace]; ok {
		return conn, nil
	}

	conn, err := c.dial(ctx, c.cfg, namespace)
	if err != nil {
		return nil, err
	}
	c.clients[namespace] = conn
	c.logger.Info("connected to temporal", "address", c.cfg.Address, "namespace", namespace)
	return conn, nil
}

// Reconfigure closes every cached connection and switches to cfg.
// Connections are re-established lazily.
func (c *ClientCache) Reconfigure(cfg config.TemporalConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeAll()
	c.cfg = cfg
}

// Connect switches to cfg and dials its default namespace.
func (c *ClientCache) Connect(ctx context.Context, cfg config.TemporalConfig) (Status, error) {
	c.Reconfigure(cfg)
	if _, err := c.Get(ctx, ""); err != nil {
		return c.Status(), err
	}
	return c.Status(), nil
}

// Config returns the active connection settings.
func (c *ClientCache) Config() config.TemporalConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

// Status reports the active settings and whether any connection is open.
func (c *ClientCache) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{
		Address:   c.cfg.Address,
		Namespace: c.cfg.Namespace,
		AuthType:  c.cfg.AuthType(),
		Connected: len(c.clients) > 0,
	}
}

// Close releases every cached connection.
func (c *ClientCache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeAll()
}

func (c *ClientCache) closeAll() {
	for ns, conn := range c.clients {
		conn.Close()
		delete(c.clients, ns)
	}
}

func (c *ClientCache) sdkDial(ctx context.Context, cfg config.TemporalConfig, namespace string) (Conn, error) {
	opts := client.Options{
		HostPort:  cfg.Address,
		Namespace: namespace,
		Logger:    sdklog.NewStructuredLogger(c.logger.With("component", "temporal-sdk")),
	}

	switch {
	case cfg.APIKey != "":
		opts.Credentials = client.NewAPIKeyStaticCredentials(cfg.APIKey)
		opts.ConnectionOptions.TLS = &tls.Config{}
	case cfg.TLSCertPath != "" && cfg.TLSKeyPath != "":
		cert, err := tls.LoadX509KeyPair(cfg.TLSCertPath, cfg.TLSKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load client certificate: %w", err)
		}
		opts.ConnectionOptions.TLS = &tls.Config{Certificates: []tls.Certificate{cert}}
	}

	cl, err := client.DialContext(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot connect to Temporal at %s: %w", ErrUnavailable, cfg.Address, err)
	}
	return cl, nil
}
