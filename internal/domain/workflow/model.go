package workflow

import "time"

// Summary is one execution as returned by a visibility listing.
type Summary struct {
	WorkflowID       string         `json:"workflow_id"`
	RunID            string         `json:"run_id"`
	WorkflowType     string         `json:"workflow_type"`
	Status           string         `json:"status"`
	StartTime        string         `json:"start_time"`
	CloseTime        *string        `json:"close_time"`
	DurationMS       *int64         `json:"duration_ms"`
	TaskQueue        string         `json:"task_queue"`
	SearchAttributes map[string]any `json:"search_attributes"`
}

// ListResult is a page of execution summaries.
type ListResult struct {
	Workflows  []Summary `json:"workflows"`
	TotalCount int       `json:"total_count"`
	HasMore    bool      `json:"has_more"`
}

// Description is the describe-level state of an execution.
type Description struct {
	WorkflowID        string
	RunID             string
	WorkflowType      string
	Status            string
	StartTime         time.Time
	PendingActivities []PendingActivity
}

// PendingActivity is an activity the execution is waiting on.
type PendingActivity struct {
	ActivityType  string  `json:"activity_type"`
	State         string  `json:"state"`
	ScheduledTime string  `json:"scheduled_time"`
	Attempt       int32   `json:"attempt"`
	LastFailure   *string `json:"last_failure"`
}

// StackTrace is the live state of a running execution.
type StackTrace struct {
	WorkflowID        string            `json:"workflow_id"`
	Status            string            `json:"status"`
	RunningSince      string            `json:"running_since"`
	DurationSoFarMS   int64             `json:"duration_so_far_ms"`
	StackTrace        string            `json:"stack_trace"`
	PendingActivities []PendingActivity `json:"pending_activities"`
}

// TaskQueueType selects the workflow or activity side of a task queue.
type TaskQueueType string

const (
	TaskQueueWorkflow TaskQueueType = "workflow"
	TaskQueueActivity TaskQueueType = "activity"
)

// Poller is a worker polling a task queue.
type Poller struct {
	Identity       string  `json:"identity"`
	LastAccessTime string  `json:"last_access_time"`
	RatePerSecond  float64 `json:"rate_per_second"`
	WorkerVersion  *string `json:"worker_version"`
}

// TaskQueueInfo describes worker health on a task queue.
type TaskQueueInfo struct {
	TaskQueue      string   `json:"task_queue"`
	Pollers        []Poller `json:"pollers"`
	BacklogCount   int64    `json:"backlog_count"`
	VersionsActive []string `json:"versions_active"`
}

// Aggregate selects how search results are reported.
type Aggregate string

const (
	AggregateCount  Aggregate = "count"
	AggregateList   Aggregate = "list"
	AggregateSample Aggregate = "sample"
)

// SearchResult is the outcome of a visibility search.
type SearchResult struct {
	Query             string    `json:"query"`
	Count             int       `json:"count"`
	TimeRange         string    `json:"time_range"`
	SampleWorkflowIDs []string  `json:"sample_workflow_ids"`
	Workflows         []Summary `json:"workflows,omitempty"`
}
