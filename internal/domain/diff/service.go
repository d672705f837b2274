package diff

import (
	"context"
	"log/slog"

	"github.com/rpggio/temporal-xray/internal/domain/history"
	"golang.org/x/sync/errgroup"
)

// HistorySource summarizes a single execution.
type HistorySource interface {
	Get(ctx context.Context, req history.GetRequest) (*history.WorkflowHistory, error)
}

// Service compares executions fetched from a HistorySource.
type Service struct {
	histories HistorySource
	logger    *slog.Logger
}

// NewService creates a new compare service.
func NewService(histories HistorySource, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{histories: histories, logger: logger}
}

// CompareRequest names the two executions to compare.
type CompareRequest struct {
	Namespace   string
	WorkflowIDA string
	RunIDA      string
	WorkflowIDB string
	RunIDB      string
}

// Compare fetches both executions concurrently at standard fidelity and
// diffs them once both are available.
func (s *Service) Compare(ctx context.Context, req CompareRequest) (*Comparison, error) {
	var a, b *history.WorkflowHistory

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		h, err := s.histories.Get(gctx, history.GetRequest{
			Namespace:  req.Namespace,
			WorkflowID: req.WorkflowIDA,
			RunID:      req.RunIDA,
			Options:    history.Options{Fidelity: history.FidelityStandard},
		})
		if err != nil {
			return &FetchError{Side: "a", WorkflowID: req.WorkflowIDA, Err: err}
		}
		a = h
		return nil
	})
	g.Go(func() error {
		h, err := s.histories.Get(gctx, history.GetRequest{
			Namespace:  req.Namespace,
			WorkflowID: req.WorkflowIDB,
			RunID:      req.RunIDB,
			Options:    history.Options{Fidelity: history.FidelityStandard},
		})
		if err != nil {
			return &FetchError{Side: "b", WorkflowID: req.WorkflowIDB, Err: err}
		}
		b = h
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	cmp := Compare(a, b)
	s.logger.Debug("compared executions",
		"workflow_id_a", req.WorkflowIDA,
		"workflow_id_b", req.WorkflowIDB,
		"divergences", len(cmp.Divergences),
	)
	return cmp, nil
}

// Compare diffs two histories and records their identities.
func Compare(a, b *history.WorkflowHistory) *Comparison {
	return &Comparison{
		ExecutionA:       ref(a),
		ExecutionB:       ref(b),
		SameWorkflowType: a.WorkflowType == b.WorkflowType,
		Report:           Diff(a, b),
	}
}

func ref(h *history.WorkflowHistory) ExecutionRef {
	return ExecutionRef{WorkflowID: h.WorkflowID, Status: h.Status, WorkflowType: h.WorkflowType}
}
