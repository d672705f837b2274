package config

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 500 * time.Millisecond

// Watcher re-reads the temporal block of a config file when it changes and
// hands it to apply.
type Watcher struct {
	watcher *fsnotify.Watcher
	path    string
	apply   func(TemporalConfig) error
	logger  *slog.Logger
	delay   time.Duration
}

// NewWatcher creates a file watcher for the config file at path.
func NewWatcher(path string, apply func(TemporalConfig) error, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %q: %w", path, err)
	}
	return &Watcher{
		watcher: watcher,
		path:    path,
		apply:   apply,
		logger:  logger,
		delay:   reloadDebounce,
	}, nil
}

// Run watches for changes until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	var debounce *time.Timer

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return nil

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(w.delay, w.reload)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("config watcher error", "error", err)
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := LoadTemporal(w.path)
	if err != nil {
		w.logger.Error("config reload failed", "path", w.path, "error", err)
		return
	}
	if err := w.apply(cfg); err != nil {
		w.logger.Error("failed to apply temporal config", "error", err)
		return
	}
	w.logger.Info("config reloaded", "address", cfg.Address, "namespace", cfg.Namespace)
}
