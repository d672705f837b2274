package history

// Workflow-level statuses derived from the terminal event.
const (
	StatusRunning     = "RUNNING"
	StatusCompleted   = "COMPLETED"
	StatusFailed      = "FAILED"
	StatusTimedOut    = "TIMED_OUT"
	StatusCanceled    = "CANCELED"
	StatusTerminated  = "TERMINATED"
	StatusFullHistory = "FULL_HISTORY"
)

// StepStatusEvent is the status of every step at full fidelity.
const StepStatusEvent = "event"

// WorkflowHistory is the summarized form of one execution.
type WorkflowHistory struct {
	WorkflowID      string          `json:"workflow_id"`
	RunID           string          `json:"run_id"`
	WorkflowType    string          `json:"workflow_type"`
	TaskQueue       string          `json:"task_queue,omitempty"`
	Status          string          `json:"status"`
	StartTime       string          `json:"start_time"`
	CloseTime       *string         `json:"close_time"`
	Input           any             `json:"input"`
	Result          any             `json:"result"`
	Timeline        []TimelineStep  `json:"timeline"`
	SignalsReceived []Signal        `json:"signals_received"`
	TimersFired     []Timer         `json:"timers_fired"`
	ChildWorkflows  []ChildWorkflow `json:"child_workflows"`
	Failure         *Failure        `json:"failure"`
	Warning         string          `json:"warning,omitempty"`
}

// TimelineStep is one row of the activity timeline. At summary fidelity the
// summaries are set; otherwise Input and Output carry the decoded values.
type TimelineStep struct {
	Step          int     `json:"step"`
	Activity      string  `json:"activity"`
	Status        string  `json:"status"`
	DurationMS    *int64  `json:"duration_ms"`
	Retries       int     `json:"retries,omitempty"`
	InputSummary  *string `json:"input_summary,omitempty"`
	OutputSummary *string `json:"output_summary,omitempty"`
	Input         any     `json:"input,omitempty"`
	Output        any     `json:"output,omitempty"`
	Failure       string  `json:"failure,omitempty"`
	LastFailure   string  `json:"last_failure,omitempty"`
}

// ComparableInput returns Input, or InputSummary when no full value is set.
func (s TimelineStep) ComparableInput() any {
	if s.Input != nil {
		return s.Input
	}
	if s.InputSummary != nil {
		return *s.InputSummary
	}
	return nil
}

// ComparableOutput returns Output, or OutputSummary when no full value is set.
func (s TimelineStep) ComparableOutput() any {
	if s.Output != nil {
		return s.Output
	}
	if s.OutputSummary != nil {
		return *s.OutputSummary
	}
	return nil
}

// Signal is one received signal.
type Signal struct {
	Name  string `json:"name"`
	Time  string `json:"time"`
	Input any    `json:"input"`
}

// Timer is one fired timer.
type Timer struct {
	TimerID   string `json:"timer_id"`
	Duration  string `json:"duration"`
	FiredTime string `json:"fired_time"`
}

// Child workflow statuses.
const (
	ChildInitiated = "initiated"
	ChildStarted   = "started"
	ChildCompleted = "completed"
	ChildFailed    = "failed"
)

// ChildWorkflow is the last known state of a child execution.
type ChildWorkflow struct {
	WorkflowID   string `json:"workflow_id"`
	WorkflowType string `json:"workflow_type"`
	Status       string `json:"status"`
}

// Failure describes a workflow failure and its cause chain.
type Failure struct {
	Message    string   `json:"message"`
	Type       string   `json:"type"`
	StackTrace string   `json:"stackTrace"`
	Cause      *Failure `json:"cause"`
}

// Execution is the describe-level view of an execution used to pin run ids
// and decide cacheability.
type Execution struct {
	Namespace    string
	WorkflowID   string
	RunID        string
	WorkflowType string
	Status       string
	Running      bool
}
