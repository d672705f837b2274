package history

import (
	"context"

	"github.com/rpggio/temporal-xray/internal/domain/event"
)

// Provider supplies raw histories from the workflow service.
type Provider interface {
	ResolveNamespace(namespace string) string
	DescribeExecution(ctx context.Context, namespace, workflowID, runID string) (*Execution, error)
	FetchHistory(ctx context.Context, namespace, workflowID, runID string) ([]event.RawEvent, error)
}

// CacheKey identifies one run's history.
type CacheKey struct {
	Namespace  string
	WorkflowID string
	RunID      string
}

// Cache stores raw histories of closed executions.
type Cache interface {
	Get(ctx context.Context, key CacheKey) ([]event.RawEvent, bool, error)
	Put(ctx context.Context, key CacheKey, events []event.RawEvent) error
}
