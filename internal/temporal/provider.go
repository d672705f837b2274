package temporal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rpggio/temporal-xray/internal/domain/event"
	"github.com/rpggio/temporal-xray/internal/domain/history"
	"github.com/rpggio/temporal-xray/internal/domain/payload"
	"github.com/rpggio/temporal-xray/internal/domain/workflow"
	commonpb "go.temporal.io/api/common/v1"
	"go.temporal.io/api/enums/v1"
	"go.temporal.io/api/taskqueue/v1"
	workflowpb "go.temporal.io/api/workflow/v1"
	"go.temporal.io/api/workflowservice/v1"
)

const stackTraceQuery = "__stack_trace"

// Provider reads histories, visibility and live state from the workflow
// service. It implements history.Provider and workflow.Provider.
type Provider struct {
	clients *ClientCache
	logger  *slog.Logger
}

// NewProvider creates a provider backed by clients.
func NewProvider(clients *ClientCache, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{clients: clients, logger: logger}
}

var (
	_ history.Provider  = (*Provider)(nil)
	_ workflow.Provider = (*Provider)(nil)
)

func (p *Provider) ResolveNamespace(namespace string) string {
	return p.clients.ResolveNamespace(namespace)
}

func (p *Provider) service(ctx context.Context, namespace string) (workflowservice.WorkflowServiceClient, error) {
	conn, err := p.clients.Get(ctx, namespace)
	if err != nil {
		return nil, err
	}
	return conn.WorkflowService(), nil
}

func (p *Provider) describe(ctx context.Context, namespace, workflowID, runID string) (*workflowservice.DescribeWorkflowExecutionResponse, error) {
	svc, err := p.service(ctx, namespace)
	if err != nil {
		return nil, err
	}
	resp, err := svc.DescribeWorkflowExecution(ctx, &workflowservice.DescribeWorkflowExecutionRequest{
		Namespace: namespace,
		Execution: &commonpb.WorkflowExecution{WorkflowId: workflowID, RunId: runID},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe workflow %q: %w", workflowID, classify(err))
	}
	return resp, nil
}

// DescribeExecution resolves the run and status of an execution.
func (p *Provider) DescribeExecution(ctx context.Context, namespace, workflowID, runID string) (*history.Execution, error) {
	resp, err := p.describe(ctx, namespace, workflowID, runID)
	if err != nil {
		return nil, err
	}
	info := resp.GetWorkflowExecutionInfo()
	status := info.GetStatus()
	return &history.Execution{
		Namespace:    namespace,
		WorkflowID:   info.GetExecution().GetWorkflowId(),
		RunID:        info.GetExecution().GetRunId(),
		WorkflowType: info.GetType().GetName(),
		Status:       executionStatus(status),
		Running:      status == enums.WORKFLOW_EXECUTION_STATUS_RUNNING,
	}, nil
}

// FetchHistory pages through the full event history of a run.
func (p *Provider) FetchHistory(ctx context.Context, namespace, workflowID, runID string) ([]event.RawEvent, error) {
	svc, err := p.service(ctx, namespace)
	if err != nil {
		return nil, err
	}

	var events []event.RawEvent
	var nextPageToken []byte
	for {
		resp, err := svc.GetWorkflowExecutionHistory(ctx, &workflowservice.GetWorkflowExecutionHistoryRequest{
			Namespace:     namespace,
			Execution:     &commonpb.WorkflowExecution{WorkflowId: workflowID, RunId: runID},
			NextPageToken: nextPageToken,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to get workflow history: %w", classify(err))
		}
		for _, e := range resp.GetHistory().GetEvents() {
			events = append(events, ConvertEvent(e))
		}

		nextPageToken = resp.GetNextPageToken()
		if len(nextPageToken) == 0 {
			break
		}
	}
	return events, nil
}

// ListExecutions returns up to limit executions matching query and whether
// more exist.
func (p *Provider) ListExecutions(ctx context.Context, namespace, query string, limit int) ([]workflow.Summary, bool, error) {
	svc, err := p.service(ctx, namespace)
	if err != nil {
		return nil, false, err
	}

	var out []workflow.Summary
	var nextPageToken []byte
	for {
		resp, err := svc.ListWorkflowExecutions(ctx, &workflowservice.ListWorkflowExecutionsRequest{
			Namespace:     namespace,
			PageSize:      int32(limit + 1),
			NextPageToken: nextPageToken,
			Query:         query,
		})
		if err != nil {
			return nil, false, fmt.Errorf("failed to list workflows: %w", classify(err))
		}
		for _, exec := range resp.GetExecutions() {
			if len(out) == limit {
				return out, true, nil
			}
			out = append(out, toSummary(exec))
		}

		nextPageToken = resp.GetNextPageToken()
		if len(nextPageToken) == 0 {
			return out, false, nil
		}
	}
}

// CountExecutions counts executions matching query server-side.
func (p *Provider) CountExecutions(ctx context.Context, namespace, query string) (int64, error) {
	svc, err := p.service(ctx, namespace)
	if err != nil {
		return 0, err
	}
	resp, err := svc.CountWorkflowExecutions(ctx, &workflowservice.CountWorkflowExecutionsRequest{
		Namespace: namespace,
		Query:     query,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count workflows: %w", classify(err))
	}
	return resp.GetCount(), nil
}

// DescribeWorkflow returns the status and pending activities of an execution.
func (p *Provider) DescribeWorkflow(ctx context.Context, namespace, workflowID, runID string) (*workflow.Description, error) {
	resp, err := p.describe(ctx, namespace, workflowID, runID)
	if err != nil {
		return nil, err
	}
	info := resp.GetWorkflowExecutionInfo()

	desc := &workflow.Description{
		WorkflowID:   info.GetExecution().GetWorkflowId(),
		RunID:        info.GetExecution().GetRunId(),
		WorkflowType: info.GetType().GetName(),
		Status:       executionStatus(info.GetStatus()),
		StartTime:    asTime(info.GetStartTime()),
	}
	for _, pa := range resp.GetPendingActivities() {
		desc.PendingActivities = append(desc.PendingActivities, toPendingActivity(pa))
	}
	return desc, nil
}

// QueryStackTrace runs the built-in stack trace query against a running
// execution.
func (p *Provider) QueryStackTrace(ctx context.Context, namespace, workflowID, runID string) (string, error) {
	conn, err := p.clients.Get(ctx, namespace)
	if err != nil {
		return "", err
	}
	value, err := conn.QueryWorkflow(ctx, workflowID, runID, stackTraceQuery)
	if err != nil {
		return "", fmt.Errorf("stack trace query: %w", classify(err))
	}
	var trace string
	if err := value.Get(&trace); err != nil {
		return "", fmt.Errorf("decode stack trace: %w", err)
	}
	return trace, nil
}

// DescribeTaskQueue lists the pollers of one side of a task queue.
func (p *Provider) DescribeTaskQueue(ctx context.Context, namespace, taskQueue string, queueType workflow.TaskQueueType) ([]workflow.Poller, error) {
	svc, err := p.service(ctx, namespace)
	if err != nil {
		return nil, err
	}

	tqType := enums.TASK_QUEUE_TYPE_WORKFLOW
	if queueType == workflow.TaskQueueActivity {
		tqType = enums.TASK_QUEUE_TYPE_ACTIVITY
	}
	resp, err := svc.DescribeTaskQueue(ctx, &workflowservice.DescribeTaskQueueRequest{
		Namespace: namespace,
		TaskQueue: &taskqueue.TaskQueue{
			Name: taskQueue,
			Kind: enums.TASK_QUEUE_KIND_NORMAL,
		},
		TaskQueueType: tqType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe task queue %q: %w", taskQueue, classify(err))
	}

	pollers := make([]workflow.Poller, 0, len(resp.GetPollers()))
	for _, pi := range resp.GetPollers() {
		poller := workflow.Poller{
			Identity:      pi.GetIdentity(),
			RatePerSecond: pi.GetRatePerSecond(),
		}
		if ts := pi.GetLastAccessTime(); ts != nil {
			poller.LastAccessTime = formatTime(ts.AsTime())
		}
		if build := pi.GetWorkerVersionCapabilities().GetBuildId(); build != "" {
			poller.WorkerVersion = &build
		}
		pollers = append(pollers, poller)
	}
	return pollers, nil
}

func toSummary(exec *workflowpb.WorkflowExecutionInfo) workflow.Summary {
	start := asTime(exec.GetStartTime())
	s := workflow.Summary{
		WorkflowID:       exec.GetExecution().GetWorkflowId(),
		RunID:            exec.GetExecution().GetRunId(),
		WorkflowType:     exec.GetType().GetName(),
		Status:           executionStatus(exec.GetStatus()),
		StartTime:        formatTime(start),
		TaskQueue:        exec.GetTaskQueue(),
		SearchAttributes: searchAttributes(exec.GetSearchAttributes()),
	}
	if ts := exec.GetCloseTime(); ts != nil && !ts.AsTime().IsZero() {
		closed := ts.AsTime()
		closeTime := formatTime(closed)
		s.CloseTime = &closeTime
		if !start.IsZero() {
			ms := closed.Sub(start).Milliseconds()
			s.DurationMS = &ms
		}
	}
	return s
}

// searchAttributes decodes indexed fields. Single-element keyword lists are
// unwrapped to their only value.
func searchAttributes(sa *commonpb.SearchAttributes) map[string]any {
	out := make(map[string]any, len(sa.GetIndexedFields()))
	for key, p := range sa.GetIndexedFields() {
		v := payload.Decode(&payload.Payload{Metadata: p.GetMetadata(), Data: p.GetData()}, 0).Plain()
		if list, ok := v.([]any); ok && len(list) == 1 {
			v = list[0]
		}
		out[key] = v
	}
	return out
}

func toPendingActivity(pa *workflowpb.PendingActivityInfo) workflow.PendingActivity {
	out := workflow.PendingActivity{
		ActivityType: pa.GetActivityType().GetName(),
		State:        pendingActivityState(pa.GetState()),
		Attempt:      pa.GetAttempt(),
	}
	if out.ActivityType == "" {
		out.ActivityType = "Unknown"
	}
	if out.Attempt == 0 {
		out.Attempt = 1
	}
	if ts := pa.GetScheduledTime(); ts != nil {
		out.ScheduledTime = formatTime(ts.AsTime())
	}
	if f := pa.GetLastFailure(); f != nil {
		msg := f.GetMessage()
		out.LastFailure = &msg
	}
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
