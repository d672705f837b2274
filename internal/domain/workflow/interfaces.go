package workflow

import "context"

// Provider exposes the visibility and describe APIs of the workflow service.
type Provider interface {
	ResolveNamespace(namespace string) string
	ListExecutions(ctx context.Context, namespace, query string, limit int) ([]Summary, bool, error)
	CountExecutions(ctx context.Context, namespace, query string) (int64, error)
	DescribeWorkflow(ctx context.Context, namespace, workflowID, runID string) (*Description, error)
	QueryStackTrace(ctx context.Context, namespace, workflowID, runID string) (string, error)
	DescribeTaskQueue(ctx context.Context, namespace, taskQueue string, queueType TaskQueueType) ([]Poller, error)
}
