package cli

import (
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/rpggio/temporal-xray/internal/config"
	"github.com/rpggio/temporal-xray/internal/domain/diff"
	"github.com/rpggio/temporal-xray/internal/domain/history"
	"github.com/rpggio/temporal-xray/internal/domain/workflow"
	"github.com/rpggio/temporal-xray/internal/temporal"
)

// live holds the services used against a running Temporal server.
type live struct {
	clients   *temporal.ClientCache
	history   *history.Service
	diff      *diff.Service
	workflows *workflow.Service
}

func openLive() (*live, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if address != "" {
		cfg.Temporal.Address = address
	}

	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:   slog.LevelWarn,
		NoColor: !isatty.IsTerminal(os.Stderr.Fd()),
	}))

	clients := temporal.NewClientCache(cfg.Temporal, logger)
	provider := temporal.NewProvider(clients, logger)
	historySvc := history.NewService(provider, nil, logger)

	return &live{
		clients:   clients,
		history:   historySvc,
		diff:      diff.NewService(historySvc, logger),
		workflows: workflow.NewService(provider, logger),
	}, nil
}

func (l *live) Close() {
	l.clients.Close()
}
