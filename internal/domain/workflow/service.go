package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// StackTraceUnavailable replaces the stack trace when the query fails.
const StackTraceUnavailable = "Stack trace unavailable (workflow may not be running or query handler not registered)"

// Service serves listing, search and live inspection of executions.
type Service struct {
	provider Provider
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a new workflow inspection service.
func NewService(provider Provider, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{provider: provider, logger: logger, now: time.Now}
}

// List returns up to Limit executions matching the request filters.
func (s *Service) List(ctx context.Context, req ListRequest) (*ListResult, error) {
	limit, err := resolveLimit(req.Limit, DefaultListLimit)
	if err != nil {
		return nil, err
	}
	namespace := s.provider.ResolveNamespace(req.Namespace)
	query := BuildListQuery(req)

	workflows, hasMore, err := s.provider.ListExecutions(ctx, namespace, query, limit)
	if err != nil {
		return nil, err
	}
	if workflows == nil {
		workflows = []Summary{}
	}
	return &ListResult{Workflows: workflows, TotalCount: len(workflows), HasMore: hasMore}, nil
}

// Search runs a type-scoped visibility query and aggregates the result.
func (s *Service) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	if req.WorkflowType == "" || req.Query == "" {
		return nil, fmt.Errorf("%w: workflow_type and query", ErrMissingArgument)
	}
	aggregate := req.Aggregate
	if aggregate == "" {
		aggregate = AggregateList
	}
	namespace := s.provider.ResolveNamespace(req.Namespace)
	query := BuildSearchQuery(req.WorkflowType, req.Query)

	switch aggregate {
	case AggregateCount:
		count, err := s.provider.CountExecutions(ctx, namespace, query)
		if err != nil {
			return nil, err
		}
		sample, _, err := s.provider.ListExecutions(ctx, namespace, query, countSampleIDs)
		if err != nil {
			return nil, err
		}
		return &SearchResult{
			Query:             query,
			Count:             int(count),
			TimeRange:         timeRangeQuery,
			SampleWorkflowIDs: workflowIDs(sample),
		}, nil

	case AggregateSample, AggregateList:
		limit, err := resolveLimit(req.Limit, DefaultSearchLimit)
		if err != nil {
			return nil, err
		}
		if aggregate == AggregateSample {
			limit = min(limit, sampleLimit)
		}
		workflows, _, err := s.provider.ListExecutions(ctx, namespace, query, limit)
		if err != nil {
			return nil, err
		}
		ids := workflowIDs(workflows)
		result := &SearchResult{
			Query:             query,
			Count:             len(workflows),
			TimeRange:         timeRangeQuery,
			SampleWorkflowIDs: ids[:min(len(ids), sampleLimit)],
		}
		if aggregate == AggregateList {
			if workflows == nil {
				workflows = []Summary{}
			}
			result.Workflows = workflows
		}
		return result, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrInvalidAggregate, aggregate)
}

// StackTrace describes a running execution and queries its stack trace.
func (s *Service) StackTrace(ctx context.Context, req StackTraceRequest) (*StackTrace, error) {
	if req.WorkflowID == "" {
		return nil, fmt.Errorf("%w: workflow_id", ErrMissingArgument)
	}
	namespace := s.provider.ResolveNamespace(req.Namespace)

	desc, err := s.provider.DescribeWorkflow(ctx, namespace, req.WorkflowID, req.RunID)
	if err != nil {
		return nil, err
	}

	trace, err := s.provider.QueryStackTrace(ctx, namespace, req.WorkflowID, req.RunID)
	if err != nil {
		s.logger.Debug("stack trace query failed", "workflow_id", req.WorkflowID, "error", err)
		trace = StackTraceUnavailable
	}

	now := s.now().UTC()
	result := &StackTrace{
		WorkflowID:        req.WorkflowID,
		Status:            desc.Status,
		RunningSince:      now.Format(time.RFC3339Nano),
		StackTrace:        trace,
		PendingActivities: desc.PendingActivities,
	}
	if !desc.StartTime.IsZero() {
		result.RunningSince = desc.StartTime.UTC().Format(time.RFC3339Nano)
		result.DurationSoFarMS = now.Sub(desc.StartTime).Milliseconds()
	}
	if result.PendingActivities == nil {
		result.PendingActivities = []PendingActivity{}
	}
	return result, nil
}

// DescribeTaskQueue reports the pollers and active worker versions of a
// task queue.
func (s *Service) DescribeTaskQueue(ctx context.Context, namespace, taskQueue string, queueType TaskQueueType) (*TaskQueueInfo, error) {
	if taskQueue == "" {
		return nil, fmt.Errorf("%w: task_queue", ErrMissingArgument)
	}
	switch queueType {
	case "":
		queueType = TaskQueueWorkflow
	case TaskQueueWorkflow, TaskQueueActivity:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidTaskQueueType, queueType)
	}

	pollers, err := s.provider.DescribeTaskQueue(ctx, s.provider.ResolveNamespace(namespace), taskQueue, queueType)
	if err != nil {
		return nil, err
	}

	versions := []string{}
	seen := make(map[string]struct{})
	for i := range pollers {
		if pollers[i].Identity == "" {
			pollers[i].Identity = "unknown"
		}
		v := pollers[i].WorkerVersion
		if v == nil || *v == "" {
			continue
		}
		if _, ok := seen[*v]; ok {
			continue
		}
		seen[*v] = struct{}{}
		versions = append(versions, *v)
	}
	if pollers == nil {
		pollers = []Poller{}
	}

	return &TaskQueueInfo{
		TaskQueue:      taskQueue,
		Pollers:        pollers,
		VersionsActive: versions,
	}, nil
}

func resolveLimit(limit, fallback int) (int, error) {
	if limit == 0 {
		return fallback, nil
	}
	if limit < 1 || limit > MaxLimit {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidLimit, limit)
	}
	return limit, nil
}

func workflowIDs(workflows []Summary) []string {
	ids := make([]string, 0, len(workflows))
	for _, w := range workflows {
		ids = append(ids, w.WorkflowID)
	}
	return ids
}
