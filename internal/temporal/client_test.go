package temporal

import (
	"context"
	"errors"
	"testing"

	"github.com/rpggio/temporal-xray/internal/config"
	"github.com/stretchr/testify/require"
)

func TestClientCache_PerNamespace(t *testing.T) {
	var dialed []string
	conns := map[string]*fakeConn{}
	cache := NewClientCacheWithDialer(
		config.TemporalConfig{Address: "localhost:7233", Namespace: "default"},
		func(_ context.Context, _ config.TemporalConfig, ns string) (Conn, error) {
			dialed = append(dialed, ns)
			c := &fakeConn{}
			conns[ns] = c
			return c, nil
		}, nil)
	ctx := context.Background()

	require.False(t, cache.Status().Connected)

	a, err := cache.Get(ctx, "")
	require.NoError(t, err)
	b, err := cache.Get(ctx, "default")
	require.NoError(t, err)
	require.Same(t, a, b)

	_, err = cache.Get(ctx, "payments")
	require.NoError(t, err)
	require.Equal(t, []string{"default", "payments"}, dialed)
	require.True(t, cache.Status().Connected)

	cache.Close()
	require.True(t, conns["default"].closed)
	require.True(t, conns["payments"].closed)
	require.False(t, cache.Status().Connected)
}

func TestClientCache_Connect(t *testing.T) {
	var lastCfg config.TemporalConfig
	old := &fakeConn{}
	first := true
	cache := NewClientCacheWithDialer(
		config.TemporalConfig{Address: "localhost:7233", Namespace: "default"},
		func(_ context.Context, cfg config.TemporalConfig, _ string) (Conn, error) {
			lastCfg = cfg
			if first {
				first = false
				return old, nil
			}
			return &fakeConn{}, nil
		}, nil)
	ctx := context.Background()

	_, err := cache.Get(ctx, "")
	require.NoError(t, err)

	status, err := cache.Connect(ctx, config.TemporalConfig{Address: "cloud:7233", Namespace: "prod.acct", APIKey: "k"})
	require.NoError(t, err)
	require.True(t, old.closed)
	require.Equal(t, "cloud:7233", lastCfg.Address)
	require.Equal(t, Status{Address: "cloud:7233", Namespace: "prod.acct", AuthType: "api_key", Connected: true}, status)
	require.Equal(t, "prod.acct", cache.ResolveNamespace(""))
	require.Equal(t, "other", cache.ResolveNamespace("other"))
}

func TestClientCache_DialError(t *testing.T) {
	cache := NewClientCacheWithDialer(config.TemporalConfig{Namespace: "default"},
		func(context.Context, config.TemporalConfig, string) (Conn, error) {
			return nil, ErrUnavailable
		}, nil)

	status, err := cache.Connect(context.Background(), config.TemporalConfig{Address: "nowhere:1", Namespace: "x"})
	require.True(t, errors.Is(err, ErrUnavailable))
	require.False(t, status.Connected)
	require.Equal(t, "nowhere:1", status.Address)
}
