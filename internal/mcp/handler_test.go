package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/rpggio/temporal-xray/internal/config"
	"github.com/rpggio/temporal-xray/internal/domain/diff"
	"github.com/rpggio/temporal-xray/internal/domain/history"
	"github.com/rpggio/temporal-xray/internal/domain/workflow"
	"github.com/rpggio/temporal-xray/internal/temporal"
	"github.com/rpggio/temporal-xray/internal/transport"
	"github.com/stretchr/testify/require"
)

type historyStub struct {
	getFn func(context.Context, history.GetRequest) (*history.WorkflowHistory, error)
}

func (h historyStub) Get(ctx context.Context, req history.GetRequest) (*history.WorkflowHistory, error) {
	return h.getFn(ctx, req)
}

type compareStub struct {
	compareFn func(context.Context, diff.CompareRequest) (*diff.Comparison, error)
}

func (c compareStub) Compare(ctx context.Context, req diff.CompareRequest) (*diff.Comparison, error) {
	return c.compareFn(ctx, req)
}

type workflowStub struct {
	listFn       func(context.Context, workflow.ListRequest) (*workflow.ListResult, error)
	searchFn     func(context.Context, workflow.SearchRequest) (*workflow.SearchResult, error)
	stackTraceFn func(context.Context, workflow.StackTraceRequest) (*workflow.StackTrace, error)
	taskQueueFn  func(context.Context, string, string, workflow.TaskQueueType) (*workflow.TaskQueueInfo, error)
}

func (w workflowStub) List(ctx context.Context, req workflow.ListRequest) (*workflow.ListResult, error) {
	return w.listFn(ctx, req)
}
func (w workflowStub) Search(ctx context.Context, req workflow.SearchRequest) (*workflow.SearchResult, error) {
	return w.searchFn(ctx, req)
}
func (w workflowStub) StackTrace(ctx context.Context, req workflow.StackTraceRequest) (*workflow.StackTrace, error) {
	return w.stackTraceFn(ctx, req)
}
func (w workflowStub) DescribeTaskQueue(ctx context.Context, namespace, taskQueue string, queueType workflow.TaskQueueType) (*workflow.TaskQueueInfo, error) {
	return w.taskQueueFn(ctx, namespace, taskQueue, queueType)
}

type connectionStub struct {
	cfg       config.TemporalConfig
	connectFn func(context.Context, config.TemporalConfig) (temporal.Status, error)
}

func (c *connectionStub) Config() config.TemporalConfig { return c.cfg }
func (c *connectionStub) Status() temporal.Status {
	return temporal.Status{Address: c.cfg.Address, Namespace: c.cfg.Namespace, AuthType: c.cfg.AuthType()}
}
func (c *connectionStub) Connect(ctx context.Context, cfg config.TemporalConfig) (temporal.Status, error) {
	return c.connectFn(ctx, cfg)
}

func raw(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func requireAPIError(t *testing.T, err error, code string) *APIError {
	t.Helper()
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr), "expected APIError, got %v", err)
	require.Equal(t, code, apiErr.Code)
	return apiErr
}

func TestHandler_GetWorkflowHistory(t *testing.T) {
	var got history.GetRequest
	handler := NewHandler(Services{History: historyStub{getFn: func(_ context.Context, req history.GetRequest) (*history.WorkflowHistory, error) {
		got = req
		return &history.WorkflowHistory{WorkflowID: req.WorkflowID, Status: history.StatusCompleted}, nil
	}}}, nil)

	result, err := handler.Handle(context.Background(), "default", "", "get_workflow_history", raw(t, map[string]any{
		"workflow_id":  "order-1",
		"namespace":    "orders",
		"detail_level": "standard",
		"event_types":  []string{"ActivityTaskFailed"},
	}))
	require.NoError(t, err)
	require.Equal(t, "order-1", result.(*history.WorkflowHistory).WorkflowID)
	require.Equal(t, "orders", got.Namespace)
	require.Equal(t, history.FidelityStandard, got.Options.Fidelity)
	require.Equal(t, []string{"ActivityTaskFailed"}, got.Options.EventTypes)
}

func TestHandler_GetWorkflowHistoryErrors(t *testing.T) {
	handler := NewHandler(Services{History: historyStub{getFn: func(_ context.Context, _ history.GetRequest) (*history.WorkflowHistory, error) {
		return nil, fmt.Errorf("describe: %w", history.ErrExecutionNotFound)
	}}}, nil)
	ctx := context.Background()

	_, err := handler.Handle(ctx, "default", "", "get_workflow_history", raw(t, map[string]any{}))
	requireAPIError(t, err, "INVALID_ARGUMENT")

	_, err = handler.Handle(ctx, "default", "", "get_workflow_history", raw(t, map[string]any{"workflow_id": "x", "detail_level": "verbose"}))
	requireAPIError(t, err, "INVALID_ARGUMENT")

	_, err = handler.Handle(ctx, "default", "", "get_workflow_history", raw(t, map[string]any{"workflow_id": "order-404"}))
	apiErr := requireAPIError(t, err, "WORKFLOW_NOT_FOUND")
	require.Equal(t, "No workflow found with ID 'order-404'. The workflow may have been archived or the ID may be incorrect.", apiErr.Message)

	_, err = handler.Handle(ctx, "default", "", "get_workflow_history", json.RawMessage(`{"workflow_id": 5}`))
	require.ErrorIs(t, err, transport.ErrBadParams)
}

func TestHandler_CompareExecutions(t *testing.T) {
	handler := NewHandler(Services{Compare: compareStub{compareFn: func(_ context.Context, req diff.CompareRequest) (*diff.Comparison, error) {
		if req.WorkflowIDB == "gone" {
			return nil, &diff.FetchError{Side: "b", WorkflowID: "gone", Err: history.ErrExecutionNotFound}
		}
		return &diff.Comparison{
			ExecutionA: diff.ExecutionRef{WorkflowID: req.WorkflowIDA},
			ExecutionB: diff.ExecutionRef{WorkflowID: req.WorkflowIDB},
		}, nil
	}}}, nil)
	ctx := context.Background()

	result, err := handler.Handle(ctx, "default", "", "compare_executions", raw(t, map[string]any{"workflow_id_a": "good", "workflow_id_b": "bad"}))
	require.NoError(t, err)
	require.Equal(t, "bad", result.(*diff.Comparison).ExecutionB.WorkflowID)

	_, err = handler.Handle(ctx, "default", "", "compare_executions", raw(t, map[string]any{"workflow_id_a": "good", "workflow_id_b": "gone"}))
	apiErr := requireAPIError(t, err, "WORKFLOW_NOT_FOUND")
	require.Contains(t, apiErr.Message, "'gone'")

	_, err = handler.Handle(ctx, "default", "", "compare_executions", raw(t, map[string]any{"workflow_id_a": "good"}))
	requireAPIError(t, err, "INVALID_ARGUMENT")
}

func TestHandler_WorkflowCommands(t *testing.T) {
	stub := workflowStub{
		listFn: func(_ context.Context, req workflow.ListRequest) (*workflow.ListResult, error) {
			if req.Limit > workflow.MaxLimit {
				return nil, workflow.ErrInvalidLimit
			}
			return &workflow.ListResult{Workflows: []workflow.Summary{{WorkflowID: "w1", Status: req.Status}}, TotalCount: 1}, nil
		},
		searchFn: func(_ context.Context, req workflow.SearchRequest) (*workflow.SearchResult, error) {
			return &workflow.SearchResult{Query: req.Query, Count: 7}, nil
		},
		stackTraceFn: func(_ context.Context, req workflow.StackTraceRequest) (*workflow.StackTrace, error) {
			return nil, fmt.Errorf("describe: %w", temporal.ErrPermissionDenied)
		},
		taskQueueFn: func(_ context.Context, _ string, taskQueue string, queueType workflow.TaskQueueType) (*workflow.TaskQueueInfo, error) {
			require.Equal(t, workflow.TaskQueueActivity, queueType)
			return &workflow.TaskQueueInfo{TaskQueue: taskQueue}, nil
		},
	}
	handler := NewHandler(Services{Workflows: stub}, nil)
	ctx := context.Background()

	result, err := handler.Handle(ctx, "default", "", "list_workflows", raw(t, map[string]any{"status": "failed"}))
	require.NoError(t, err)
	require.Equal(t, "failed", result.(*workflow.ListResult).Workflows[0].Status)

	_, err = handler.Handle(ctx, "default", "", "list_workflows", raw(t, map[string]any{"limit": 51}))
	requireAPIError(t, err, "INVALID_ARGUMENT")

	result, err = handler.Handle(ctx, "default", "", "search_workflow_data", raw(t, map[string]any{"workflow_type": "Order", "query": "x", "aggregate": "count"}))
	require.NoError(t, err)
	require.Equal(t, 7, result.(*workflow.SearchResult).Count)

	_, err = handler.Handle(ctx, "default", "", "get_workflow_stack_trace", raw(t, map[string]any{"workflow_id": "w1"}))
	requireAPIError(t, err, "PERMISSION_DENIED")

	result, err = handler.Handle(ctx, "default", "", "describe_task_queue", raw(t, map[string]any{"task_queue": "orders", "task_queue_type": "activity"}))
	require.NoError(t, err)
	require.Equal(t, "orders", result.(*workflow.TaskQueueInfo).TaskQueue)
}

func TestHandler_TemporalConnection(t *testing.T) {
	conn := &connectionStub{cfg: config.TemporalConfig{Address: "localhost:7233", Namespace: "default", APIKey: "k"}}
	var dialed config.TemporalConfig
	conn.connectFn = func(_ context.Context, cfg config.TemporalConfig) (temporal.Status, error) {
		dialed = cfg
		if cfg.Address == "down:7233" {
			return temporal.Status{}, fmt.Errorf("dial: %w", temporal.ErrUnavailable)
		}
		return temporal.Status{Address: cfg.Address, Namespace: cfg.Namespace, AuthType: cfg.AuthType(), Connected: true}, nil
	}
	handler := NewHandler(Services{Connection: conn}, nil)
	ctx := context.Background()

	result, err := handler.Handle(ctx, "default", "", "temporal_connection", nil)
	require.NoError(t, err)
	require.Equal(t, "api_key", result.(temporal.Status).AuthType)

	_, err = handler.Handle(ctx, "default", "", "temporal_connection", raw(t, map[string]any{"action": "connect"}))
	apiErr := requireAPIError(t, err, "INVALID_ARGUMENT")
	require.Contains(t, apiErr.Message, "Provide at least an address or namespace")

	result, err = handler.Handle(ctx, "default", "", "temporal_connection", raw(t, map[string]any{"action": "connect", "namespace": "payments"}))
	require.NoError(t, err)
	status := result.(temporal.Status)
	require.True(t, status.Connected)
	require.Equal(t, "localhost:7233", dialed.Address)
	require.Equal(t, "payments", dialed.Namespace)
	require.Equal(t, "k", dialed.APIKey)

	_, err = handler.Handle(ctx, "default", "", "temporal_connection", raw(t, map[string]any{"action": "connect", "address": "down:7233"}))
	requireAPIError(t, err, "TEMPORAL_UNAVAILABLE")

	_, err = handler.Handle(ctx, "default", "", "temporal_connection", raw(t, map[string]any{"action": "reset"}))
	requireAPIError(t, err, "INVALID_ARGUMENT")
}

func TestHandler_UnknownMethod(t *testing.T) {
	_, err := NewHandler(Services{}, nil).Handle(context.Background(), "default", "", "delete_workflow", nil)
	require.ErrorIs(t, err, transport.ErrUnknownMethod)
}

func TestMapError(t *testing.T) {
	require.Nil(t, MapError(nil, ""))
	require.Nil(t, MapError(errors.New("boom"), ""))
	require.Equal(t, "NAMESPACE_NOT_FOUND", MapError(fmt.Errorf("x: %w", temporal.ErrNamespaceNotFound), "").Code)
	require.Equal(t, "Namespace not found. Verify TEMPORAL_NAMESPACE is correct.", MapError(temporal.ErrNamespaceNotFound, "").Message)
}

func TestToolCatalog(t *testing.T) {
	names := map[string]bool{}
	for _, def := range buildToolCatalog() {
		names[def.Name] = true
		require.Equal(t, "object", def.InputSchema["type"])
		require.NotEmpty(t, def.Description)
	}
	for _, name := range []string{"list_workflows", "get_workflow_history", "get_workflow_stack_trace", "compare_executions", "describe_task_queue", "search_workflow_data", "temporal_connection"} {
		require.True(t, names[name], name)
	}
	require.Len(t, names, 7)
}

func TestErrorResult(t *testing.T) {
	res := errorResult(&APIError{Code: "PERMISSION_DENIED", Message: "no"})
	require.True(t, res.IsError)
	res = errorResult(errors.New("plain"))
	require.True(t, res.IsError)
}
