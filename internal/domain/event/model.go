package event

import (
	"time"

	"github.com/rpggio/temporal-xray/internal/domain/payload"
)

// RawEvent is one entry of an execution's append-only history.
type RawEvent struct {
	ID         int64      `json:"event_id"`
	Type       int32      `json:"event_type"`
	Time       time.Time  `json:"event_time"`
	Attributes Attributes `json:"attributes"`
}

// Kind returns the semantic kind of the event.
func (e RawEvent) Kind() Kind {
	return Classify(e.Type)
}

// HasTime reports whether the event carries a timestamp.
func (e RawEvent) HasTime() bool {
	return !e.Time.IsZero()
}

// Attributes is the union of the type-specific attribute fields the
// summarizer reads. Fields not used by an event's kind stay zero.
type Attributes struct {
	WorkflowType string            `json:"workflow_type,omitempty"`
	TaskQueue    string            `json:"task_queue,omitempty"`
	Input        []payload.Payload `json:"input,omitempty"`
	Result       []payload.Payload `json:"result,omitempty"`
	Failure      *Failure          `json:"failure,omitempty"`
	Identity     string            `json:"identity,omitempty"`
	Reason       string            `json:"reason,omitempty"`

	ActivityID       string   `json:"activity_id,omitempty"`
	ActivityType     string   `json:"activity_type,omitempty"`
	ScheduledEventID int64    `json:"scheduled_event_id,omitempty"`
	StartedEventID   int64    `json:"started_event_id,omitempty"`
	Attempt          int32    `json:"attempt,omitempty"`
	LastFailure      *Failure `json:"last_failure,omitempty"`

	SignalName string `json:"signal_name,omitempty"`

	TimerID            string         `json:"timer_id,omitempty"`
	StartToFireTimeout *time.Duration `json:"start_to_fire_timeout,omitempty"`

	ChildWorkflowID   string `json:"child_workflow_id,omitempty"`
	ChildWorkflowType string `json:"child_workflow_type,omitempty"`
	InitiatedEventID  int64  `json:"initiated_event_id,omitempty"`

	MarkerName string `json:"marker_name,omitempty"`
}

// Failure is a failure record attached to an event, with an optional cause chain.
type Failure struct {
	Message    string   `json:"message,omitempty"`
	Type       string   `json:"type,omitempty"`
	Source     string   `json:"source,omitempty"`
	StackTrace string   `json:"stack_trace,omitempty"`
	Cause      *Failure `json:"cause,omitempty"`
}
