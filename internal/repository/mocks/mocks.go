package mocks

import (
	"context"
	"time"

	"github.com/rpggio/temporal-xray/internal/domain/event"
	"github.com/rpggio/temporal-xray/internal/domain/history"
	"github.com/rpggio/temporal-xray/internal/domain/workflow"
	"github.com/stretchr/testify/mock"
)

// HistoryCache is a mock for repository.HistoryCacheRepository.
type HistoryCache struct {
	mock.Mock
}

func (m *HistoryCache) Get(ctx context.Context, key history.CacheKey) ([]event.RawEvent, bool, error) {
	args := m.Called(ctx, key)
	if events, ok := args.Get(0).([]event.RawEvent); ok {
		return events, args.Bool(1), args.Error(2)
	}
	return nil, args.Bool(1), args.Error(2)
}

func (m *HistoryCache) Put(ctx context.Context, key history.CacheKey, events []event.RawEvent) error {
	args := m.Called(ctx, key, events)
	return args.Error(0)
}

func (m *HistoryCache) Purge(ctx context.Context, olderThan time.Time) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

// HistoryProvider is a mock for history.Provider.
type HistoryProvider struct {
	mock.Mock
}

func (m *HistoryProvider) ResolveNamespace(namespace string) string {
	args := m.Called(namespace)
	return args.String(0)
}

func (m *HistoryProvider) DescribeExecution(ctx context.Context, namespace, workflowID, runID string) (*history.Execution, error) {
	args := m.Called(ctx, namespace, workflowID, runID)
	if exec, ok := args.Get(0).(*history.Execution); ok {
		return exec, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *HistoryProvider) FetchHistory(ctx context.Context, namespace, workflowID, runID string) ([]event.RawEvent, error) {
	args := m.Called(ctx, namespace, workflowID, runID)
	if events, ok := args.Get(0).([]event.RawEvent); ok {
		return events, args.Error(1)
	}
	return nil, args.Error(1)
}

// WorkflowProvider is a mock for workflow.Provider.
type WorkflowProvider struct {
	mock.Mock
}

func (m *WorkflowProvider) ResolveNamespace(namespace string) string {
	args := m.Called(namespace)
	return args.String(0)
}

func (m *WorkflowProvider) ListExecutions(ctx context.Context, namespace, query string, limit int) ([]workflow.Summary, bool, error) {
	args := m.Called(ctx, namespace, query, limit)
	if list, ok := args.Get(0).([]workflow.Summary); ok {
		return list, args.Bool(1), args.Error(2)
	}
	return nil, args.Bool(1), args.Error(2)
}

func (m *WorkflowProvider) CountExecutions(ctx context.Context, namespace, query string) (int64, error) {
	args := m.Called(ctx, namespace, query)
	return args.Get(0).(int64), args.Error(1)
}

func (m *WorkflowProvider) DescribeWorkflow(ctx context.Context, namespace, workflowID, runID string) (*workflow.Description, error) {
	args := m.Called(ctx, namespace, workflowID, runID)
	if desc, ok := args.Get(0).(*workflow.Description); ok {
		return desc, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *WorkflowProvider) QueryStackTrace(ctx context.Context, namespace, workflowID, runID string) (string, error) {
	args := m.Called(ctx, namespace, workflowID, runID)
	return args.String(0), args.Error(1)
}

func (m *WorkflowProvider) DescribeTaskQueue(ctx context.Context, namespace, taskQueue string, queueType workflow.TaskQueueType) ([]workflow.Poller, error) {
	args := m.Called(ctx, namespace, taskQueue, queueType)
	if pollers, ok := args.Get(0).([]workflow.Poller); ok {
		return pollers, args.Error(1)
	}
	return nil, args.Error(1)
}

// APIKeyRepository is a mock for repository.APIKeyRepository.
type APIKeyRepository struct {
	mock.Mock
}

func (m *APIKeyRepository) Create(ctx context.Context, keyHash, callerID, description string) error {
	args := m.Called(ctx, keyHash, callerID, description)
	return args.Error(0)
}

func (m *APIKeyRepository) Resolve(ctx context.Context, keyHash string) (string, error) {
	args := m.Called(ctx, keyHash)
	return args.String(0), args.Error(1)
}
