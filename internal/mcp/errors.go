package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/temporal-xray/internal/domain/diff"
	"github.com/rpggio/temporal-xray/internal/domain/history"
	"github.com/rpggio/temporal-xray/internal/domain/workflow"
	"github.com/rpggio/temporal-xray/internal/temporal"
)

// ErrInvalidAction is returned for an unknown temporal_connection action.
var ErrInvalidAction = errors.New("action must be status or connect")

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) CodeValue() string {
	return e.Code
}

func (e *APIError) RecoveryHintValue() string {
	return e.RecoveryHint
}

// MapError maps domain and Temporal errors to MCP error codes. workflowID
// names the execution in not-found messages when the error does not carry
// one itself.
func MapError(err error, workflowID string) *APIError {
	if err == nil {
		return nil
	}
	var fetchErr *diff.FetchError
	if errors.As(err, &fetchErr) {
		workflowID = fetchErr.WorkflowID
	}
	switch {
	case errors.Is(err, history.ErrExecutionNotFound):
		return &APIError{
			Code:         "WORKFLOW_NOT_FOUND",
			Message:      fmt.Sprintf("No workflow found with ID '%s'. The workflow may have been archived or the ID may be incorrect.", workflowID),
			RecoveryHint: "Use list_workflows to find the execution",
		}
	case errors.Is(err, temporal.ErrPermissionDenied):
		return &APIError{
			Code:    "PERMISSION_DENIED",
			Message: "Permission denied. The configured credentials don't have read access to this namespace.",
		}
	case errors.Is(err, temporal.ErrUnavailable):
		return &APIError{
			Code:         "TEMPORAL_UNAVAILABLE",
			Message:      "Cannot connect to Temporal server. Verify TEMPORAL_ADDRESS is correct and the server is running.",
			RecoveryHint: "Check the connection with temporal_connection",
		}
	case errors.Is(err, temporal.ErrNamespaceNotFound):
		return &APIError{
			Code:    "NAMESPACE_NOT_FOUND",
			Message: "Namespace not found. Verify TEMPORAL_NAMESPACE is correct.",
		}
	case errors.Is(err, history.ErrInvalidFidelity),
		errors.Is(err, workflow.ErrInvalidLimit),
		errors.Is(err, workflow.ErrInvalidAggregate),
		errors.Is(err, workflow.ErrInvalidTaskQueueType),
		errors.Is(err, workflow.ErrMissingArgument),
		errors.Is(err, ErrInvalidAction):
		return &APIError{Code: "INVALID_ARGUMENT", Message: err.Error()}
	default:
		return nil
	}
}

func mapError(err error, workflowID string) error {
	if apiErr := MapError(err, workflowID); apiErr != nil {
		return apiErr
	}
	return err
}
