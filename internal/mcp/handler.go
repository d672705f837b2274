package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/rpggio/temporal-xray/internal/config"
	"github.com/rpggio/temporal-xray/internal/domain/diff"
	"github.com/rpggio/temporal-xray/internal/domain/history"
	"github.com/rpggio/temporal-xray/internal/domain/workflow"
	"github.com/rpggio/temporal-xray/internal/temporal"
	"github.com/rpggio/temporal-xray/internal/transport"
)

// HistoryService defines history operations needed by MCP.
type HistoryService interface {
	Get(ctx context.Context, req history.GetRequest) (*history.WorkflowHistory, error)
}

// CompareService defines execution comparison needed by MCP.
type CompareService interface {
	Compare(ctx context.Context, req diff.CompareRequest) (*diff.Comparison, error)
}

// WorkflowService defines visibility and worker inspection needed by MCP.
type WorkflowService interface {
	List(ctx context.Context, req workflow.ListRequest) (*workflow.ListResult, error)
	Search(ctx context.Context, req workflow.SearchRequest) (*workflow.SearchResult, error)
	StackTrace(ctx context.Context, req workflow.StackTraceRequest) (*workflow.StackTrace, error)
	DescribeTaskQueue(ctx context.Context, namespace, taskQueue string, queueType workflow.TaskQueueType) (*workflow.TaskQueueInfo, error)
}

// ConnectionService reports and switches the Temporal connection.
type ConnectionService interface {
	Config() config.TemporalConfig
	Status() temporal.Status
	Connect(ctx context.Context, cfg config.TemporalConfig) (temporal.Status, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	History    HistoryService
	Compare    CompareService
	Workflows  WorkflowService
	Connection ConnectionService
}

// Handler dispatches MCP commands.
type Handler struct {
	services Services
	logger   *slog.Logger
}

// NewHandler creates a new MCP handler.
func NewHandler(services Services, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{services: services, logger: logger}
}

// Handle dispatches MCP requests to domain services.
func (h *Handler) Handle(ctx context.Context, callerID, sessionID, method string, params json.RawMessage) (any, error) {
	h.logger.Debug("handling tool call", "method", method, "caller_id", callerID, "session_id", sessionID)

	switch method {
	case "list_workflows":
		var req ListWorkflowsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		result, err := h.services.Workflows.List(ctx, workflow.ListRequest{
			Namespace:     req.Namespace,
			WorkflowType:  req.WorkflowType,
			WorkflowID:    req.WorkflowID,
			Status:        req.Status,
			Query:         req.Query,
			StartTimeFrom: req.StartTimeFrom,
			StartTimeTo:   req.StartTimeTo,
			Limit:         req.Limit,
		})
		if err != nil {
			return nil, mapError(err, req.WorkflowID)
		}
		return result, nil
	case "get_workflow_history":
		var req GetWorkflowHistoryParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if req.WorkflowID == "" {
			return nil, mapError(fmt.Errorf("%w: workflow_id", workflow.ErrMissingArgument), "")
		}
		fidelity, err := history.ParseFidelity(req.DetailLevel)
		if err != nil {
			return nil, mapError(err, req.WorkflowID)
		}
		result, err := h.services.History.Get(ctx, history.GetRequest{
			Namespace:  req.Namespace,
			WorkflowID: req.WorkflowID,
			RunID:      req.RunID,
			Options:    history.Options{Fidelity: fidelity, EventTypes: req.EventTypes},
		})
		if err != nil {
			return nil, mapError(err, req.WorkflowID)
		}
		return result, nil
	case "get_workflow_stack_trace":
		var req GetWorkflowStackTraceParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		result, err := h.services.Workflows.StackTrace(ctx, workflow.StackTraceRequest{
			Namespace:  req.Namespace,
			WorkflowID: req.WorkflowID,
			RunID:      req.RunID,
		})
		if err != nil {
			return nil, mapError(err, req.WorkflowID)
		}
		return result, nil
	case "compare_executions":
		var req CompareExecutionsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if req.WorkflowIDA == "" || req.WorkflowIDB == "" {
			return nil, mapError(fmt.Errorf("%w: workflow_id_a and workflow_id_b", workflow.ErrMissingArgument), "")
		}
		result, err := h.services.Compare.Compare(ctx, diff.CompareRequest{
			Namespace:   req.Namespace,
			WorkflowIDA: req.WorkflowIDA,
			RunIDA:      req.RunIDA,
			WorkflowIDB: req.WorkflowIDB,
			RunIDB:      req.RunIDB,
		})
		if err != nil {
			return nil, mapError(err, "")
		}
		return result, nil
	case "describe_task_queue":
		var req DescribeTaskQueueParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		result, err := h.services.Workflows.DescribeTaskQueue(ctx, req.Namespace, req.TaskQueue, workflow.TaskQueueType(req.TaskQueueType))
		if err != nil {
			return nil, mapError(err, "")
		}
		return result, nil
	case "search_workflow_data":
		var req SearchWorkflowDataParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		result, err := h.services.Workflows.Search(ctx, workflow.SearchRequest{
			Namespace:    req.Namespace,
			WorkflowType: req.WorkflowType,
			Query:        req.Query,
			Aggregate:    workflow.Aggregate(req.Aggregate),
			Limit:        req.Limit,
		})
		if err != nil {
			return nil, mapError(err, "")
		}
		return result, nil
	case "temporal_connection":
		var req TemporalConnectionParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.connection(ctx, req)
	default:
		return nil, fmt.Errorf("%w: %s", transport.ErrUnknownMethod, method)
	}
}

func (h *Handler) connection(ctx context.Context, req TemporalConnectionParams) (any, error) {
	switch req.Action {
	case "", "status":
		return h.services.Connection.Status(), nil
	case "connect":
	default:
		return nil, mapError(fmt.Errorf("%w: %q", ErrInvalidAction, req.Action), "")
	}

	if req.Address == "" && req.Namespace == "" {
		return nil, &APIError{
			Code:    "INVALID_ARGUMENT",
			Message: "Provide at least an address or namespace to connect. Example: { action: 'connect', address: 'localhost:7233', namespace: 'default' }",
		}
	}

	cfg := h.services.Connection.Config()
	if req.Address != "" {
		cfg.Address = req.Address
	}
	if req.Namespace != "" {
		cfg.Namespace = req.Namespace
	}
	if req.APIKey != "" {
		cfg.APIKey = req.APIKey
	}
	if req.TLSCertPath != "" {
		cfg.TLSCertPath = req.TLSCertPath
	}
	if req.TLSKeyPath != "" {
		cfg.TLSKeyPath = req.TLSKeyPath
	}

	status, err := h.services.Connection.Connect(ctx, cfg)
	if err != nil {
		return nil, mapError(err, "")
	}
	h.logger.Info("temporal connection changed", "address", status.Address, "namespace", status.Namespace, "auth_type", status.AuthType)
	return status, nil
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return fmt.Errorf("%w: %w", transport.ErrBadParams, err)
	}
	return nil
}
