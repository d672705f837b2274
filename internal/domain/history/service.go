package history

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rpggio/temporal-xray/internal/domain/event"
)

// Service fetches and summarizes execution histories.
type Service struct {
	provider Provider
	cache    Cache
	logger   *slog.Logger
}

// NewService creates a new history service. cache may be nil.
func NewService(provider Provider, cache Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{provider: provider, cache: cache, logger: logger}
}

// GetRequest identifies the execution to summarize.
type GetRequest struct {
	Namespace  string
	WorkflowID string
	RunID      string
	Options    Options
}

// Get fetches an execution's events and summarizes them.
func (s *Service) Get(ctx context.Context, req GetRequest) (*WorkflowHistory, error) {
	events, runID, err := s.Events(ctx, req.Namespace, req.WorkflowID, req.RunID)
	if err != nil {
		return nil, err
	}
	h, err := Summarize(req.WorkflowID, runID, events, req.Options)
	if err != nil {
		return nil, fmt.Errorf("workflow %q: %w", req.WorkflowID, err)
	}
	return h, nil
}

// Events returns the raw events of a run and the run id they belong to.
// An unpinned run resolves to the latest run. Histories of closed runs are
// served from and written to the cache.
func (s *Service) Events(ctx context.Context, namespace, workflowID, runID string) ([]event.RawEvent, string, error) {
	namespace = s.provider.ResolveNamespace(namespace)

	if runID != "" {
		if events, ok := s.cached(ctx, CacheKey{namespace, workflowID, runID}); ok {
			return events, runID, nil
		}
	}

	exec, err := s.provider.DescribeExecution(ctx, namespace, workflowID, runID)
	if err != nil {
		return nil, "", err
	}
	if runID == "" {
		runID = exec.RunID
		if events, ok := s.cached(ctx, CacheKey{namespace, workflowID, runID}); ok {
			return events, runID, nil
		}
	}

	events, err := s.provider.FetchHistory(ctx, namespace, workflowID, runID)
	if err != nil {
		return nil, "", err
	}
	if len(events) == 0 {
		return nil, "", fmt.Errorf("workflow %q: %w", workflowID, ErrExecutionNotFound)
	}

	if s.cache != nil && !exec.Running && runID != "" {
		if err := s.cache.Put(ctx, CacheKey{namespace, workflowID, runID}, events); err != nil {
			s.logger.Warn("failed to cache history", "workflow_id", workflowID, "run_id", runID, "error", err)
		}
	}

	s.logger.Debug("fetched history", "namespace", namespace, "workflow_id", workflowID, "run_id", runID, "events", len(events))
	return events, runID, nil
}

func (s *Service) cached(ctx context.Context, key CacheKey) ([]event.RawEvent, bool) {
	if s.cache == nil {
		return nil, false
	}
	events, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("history cache read failed", "workflow_id", key.WorkflowID, "run_id", key.RunID, "error", err)
		return nil, false
	}
	if ok && len(events) > 0 {
		s.logger.Debug("history cache hit", "workflow_id", key.WorkflowID, "run_id", key.RunID)
		return events, true
	}
	return nil, false
}
