package workflow

// ListRequest filters a visibility listing. A non-empty Query overrides
// every other filter.
type ListRequest struct {
	Namespace     string
	WorkflowType  string
	WorkflowID    string
	Status        string
	Query         string
	StartTimeFrom string
	StartTimeTo   string
	Limit         int
}

// SearchRequest scopes a visibility query to one workflow type.
type SearchRequest struct {
	Namespace    string
	WorkflowType string
	Query        string
	Aggregate    Aggregate
	Limit        int
}

// StackTraceRequest identifies a running execution.
type StackTraceRequest struct {
	Namespace  string
	WorkflowID string
	RunID      string
}

const (
	DefaultListLimit   = 10
	DefaultSearchLimit = 20
	MaxLimit           = 50
	sampleLimit        = 5
	countSampleIDs     = 3
	timeRangeQuery     = "query-defined"
)
