package temporal

import (
	"time"

	"github.com/rpggio/temporal-xray/internal/domain/event"
	"github.com/rpggio/temporal-xray/internal/domain/history"
	"github.com/rpggio/temporal-xray/internal/domain/payload"
	commonpb "go.temporal.io/api/common/v1"
	"go.temporal.io/api/enums/v1"
	failurepb "go.temporal.io/api/failure/v1"
	historypb "go.temporal.io/api/history/v1"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// ConvertEvents converts wire history events, in order.
func ConvertEvents(events []*historypb.HistoryEvent) []event.RawEvent {
	out := make([]event.RawEvent, 0, len(events))
	for _, e := range events {
		out = append(out, ConvertEvent(e))
	}
	return out
}

// ConvertEvent flattens the type-specific attributes of a wire event into
// a RawEvent.
func ConvertEvent(e *historypb.HistoryEvent) event.RawEvent {
	raw := event.RawEvent{
		ID:   e.GetEventId(),
		Type: int32(e.GetEventType()),
		Time: asTime(e.GetEventTime()),
	}
	a := &raw.Attributes

	switch e.GetEventType() {
	case enums.EVENT_TYPE_WORKFLOW_EXECUTION_STARTED:
		attrs := e.GetWorkflowExecutionStartedEventAttributes()
		a.WorkflowType = attrs.GetWorkflowType().GetName()
		a.TaskQueue = attrs.GetTaskQueue().GetName()
		a.Input = convertPayloads(attrs.GetInput())
		a.Identity = attrs.GetIdentity()
		a.Attempt = attrs.GetAttempt()
	case enums.EVENT_TYPE_WORKFLOW_EXECUTION_COMPLETED:
		a.Result = convertPayloads(e.GetWorkflowExecutionCompletedEventAttributes().GetResult())
	case enums.EVENT_TYPE_WORKFLOW_EXECUTION_FAILED:
		a.Failure = convertFailure(e.GetWorkflowExecutionFailedEventAttributes().GetFailure())
	case enums.EVENT_TYPE_WORKFLOW_EXECUTION_TERMINATED:
		attrs := e.GetWorkflowExecutionTerminatedEventAttributes()
		a.Reason = attrs.GetReason()
		a.Identity = attrs.GetIdentity()
	case enums.EVENT_TYPE_WORKFLOW_EXECUTION_CONTINUED_AS_NEW:
		attrs := e.GetWorkflowExecutionContinuedAsNewEventAttributes()
		a.WorkflowType = attrs.GetWorkflowType().GetName()
		a.TaskQueue = attrs.GetTaskQueue().GetName()
		a.Input = convertPayloads(attrs.GetInput())
		a.Failure = convertFailure(attrs.GetFailure())
	case enums.EVENT_TYPE_WORKFLOW_TASK_FAILED:
		a.Failure = convertFailure(e.GetWorkflowTaskFailedEventAttributes().GetFailure())

	case enums.EVENT_TYPE_ACTIVITY_TASK_SCHEDULED:
		attrs := e.GetActivityTaskScheduledEventAttributes()
		a.ActivityID = attrs.GetActivityId()
		a.ActivityType = attrs.GetActivityType().GetName()
		a.TaskQueue = attrs.GetTaskQueue().GetName()
		a.Input = convertPayloads(attrs.GetInput())
	case enums.EVENT_TYPE_ACTIVITY_TASK_STARTED:
		attrs := e.GetActivityTaskStartedEventAttributes()
		a.ScheduledEventID = attrs.GetScheduledEventId()
		a.Identity = attrs.GetIdentity()
		a.Attempt = attrs.GetAttempt()
		a.LastFailure = convertFailure(attrs.GetLastFailure())
	case enums.EVENT_TYPE_ACTIVITY_TASK_COMPLETED:
		attrs := e.GetActivityTaskCompletedEventAttributes()
		a.ScheduledEventID = attrs.GetScheduledEventId()
		a.StartedEventID = attrs.GetStartedEventId()
		a.Identity = attrs.GetIdentity()
		a.Result = convertPayloads(attrs.GetResult())
	case enums.EVENT_TYPE_ACTIVITY_TASK_FAILED:
		attrs := e.GetActivityTaskFailedEventAttributes()
		a.ScheduledEventID = attrs.GetScheduledEventId()
		a.StartedEventID = attrs.GetStartedEventId()
		a.Identity = attrs.GetIdentity()
		a.Failure = convertFailure(attrs.GetFailure())
	case enums.EVENT_TYPE_ACTIVITY_TASK_TIMED_OUT:
		attrs := e.GetActivityTaskTimedOutEventAttributes()
		a.ScheduledEventID = attrs.GetScheduledEventId()
		a.StartedEventID = attrs.GetStartedEventId()
		a.Failure = convertFailure(attrs.GetFailure())
	case enums.EVENT_TYPE_ACTIVITY_TASK_CANCEL_REQUESTED:
		a.ScheduledEventID = e.GetActivityTaskCancelRequestedEventAttributes().GetScheduledEventId()
	case enums.EVENT_TYPE_ACTIVITY_TASK_CANCELED:
		attrs := e.GetActivityTaskCanceledEventAttributes()
		a.ScheduledEventID = attrs.GetScheduledEventId()
		a.StartedEventID = attrs.GetStartedEventId()
		a.Identity = attrs.GetIdentity()

	case enums.EVENT_TYPE_TIMER_STARTED:
		attrs := e.GetTimerStartedEventAttributes()
		a.TimerID = attrs.GetTimerId()
		if d := attrs.GetStartToFireTimeout(); d != nil {
			v := d.AsDuration()
			a.StartToFireTimeout = &v
		}
	case enums.EVENT_TYPE_TIMER_FIRED:
		attrs := e.GetTimerFiredEventAttributes()
		a.TimerID = attrs.GetTimerId()
		a.StartedEventID = attrs.GetStartedEventId()
	case enums.EVENT_TYPE_TIMER_CANCELED:
		attrs := e.GetTimerCanceledEventAttributes()
		a.TimerID = attrs.GetTimerId()
		a.StartedEventID = attrs.GetStartedEventId()
		a.Identity = attrs.GetIdentity()

	case enums.EVENT_TYPE_WORKFLOW_EXECUTION_SIGNALED:
		attrs := e.GetWorkflowExecutionSignaledEventAttributes()
		a.SignalName = attrs.GetSignalName()
		a.Input = convertPayloads(attrs.GetInput())
		a.Identity = attrs.GetIdentity()
	case enums.EVENT_TYPE_MARKER_RECORDED:
		attrs := e.GetMarkerRecordedEventAttributes()
		a.MarkerName = attrs.GetMarkerName()
		a.Failure = convertFailure(attrs.GetFailure())

	case enums.EVENT_TYPE_START_CHILD_WORKFLOW_EXECUTION_INITIATED:
		attrs := e.GetStartChildWorkflowExecutionInitiatedEventAttributes()
		a.ChildWorkflowID = attrs.GetWorkflowId()
		a.ChildWorkflowType = attrs.GetWorkflowType().GetName()
		a.TaskQueue = attrs.GetTaskQueue().GetName()
		a.Input = convertPayloads(attrs.GetInput())
	case enums.EVENT_TYPE_START_CHILD_WORKFLOW_EXECUTION_FAILED:
		attrs := e.GetStartChildWorkflowExecutionFailedEventAttributes()
		a.ChildWorkflowID = attrs.GetWorkflowId()
		a.ChildWorkflowType = attrs.GetWorkflowType().GetName()
		a.InitiatedEventID = attrs.GetInitiatedEventId()
	case enums.EVENT_TYPE_CHILD_WORKFLOW_EXECUTION_STARTED:
		attrs := e.GetChildWorkflowExecutionStartedEventAttributes()
		a.ChildWorkflowID = attrs.GetWorkflowExecution().GetWorkflowId()
		a.ChildWorkflowType = attrs.GetWorkflowType().GetName()
		a.InitiatedEventID = attrs.GetInitiatedEventId()
	case enums.EVENT_TYPE_CHILD_WORKFLOW_EXECUTION_COMPLETED:
		attrs := e.GetChildWorkflowExecutionCompletedEventAttributes()
		a.ChildWorkflowID = attrs.GetWorkflowExecution().GetWorkflowId()
		a.ChildWorkflowType = attrs.GetWorkflowType().GetName()
		a.InitiatedEventID = attrs.GetInitiatedEventId()
		a.StartedEventID = attrs.GetStartedEventId()
		a.Result = convertPayloads(attrs.GetResult())
	case enums.EVENT_TYPE_CHILD_WORKFLOW_EXECUTION_FAILED:
		attrs := e.GetChildWorkflowExecutionFailedEventAttributes()
		a.ChildWorkflowID = attrs.GetWorkflowExecution().GetWorkflowId()
		a.ChildWorkflowType = attrs.GetWorkflowType().GetName()
		a.InitiatedEventID = attrs.GetInitiatedEventId()
		a.StartedEventID = attrs.GetStartedEventId()
		a.Failure = convertFailure(attrs.GetFailure())
	case enums.EVENT_TYPE_CHILD_WORKFLOW_EXECUTION_CANCELED:
		attrs := e.GetChildWorkflowExecutionCanceledEventAttributes()
		a.ChildWorkflowID = attrs.GetWorkflowExecution().GetWorkflowId()
		a.ChildWorkflowType = attrs.GetWorkflowType().GetName()
		a.InitiatedEventID = attrs.GetInitiatedEventId()
		a.StartedEventID = attrs.GetStartedEventId()
	case enums.EVENT_TYPE_CHILD_WORKFLOW_EXECUTION_TIMED_OUT:
		attrs := e.GetChildWorkflowExecutionTimedOutEventAttributes()
		a.ChildWorkflowID = attrs.GetWorkflowExecution().GetWorkflowId()
		a.ChildWorkflowType = attrs.GetWorkflowType().GetName()
		a.InitiatedEventID = attrs.GetInitiatedEventId()
		a.StartedEventID = attrs.GetStartedEventId()
	case enums.EVENT_TYPE_CHILD_WORKFLOW_EXECUTION_TERMINATED:
		attrs := e.GetChildWorkflowExecutionTerminatedEventAttributes()
		a.ChildWorkflowID = attrs.GetWorkflowExecution().GetWorkflowId()
		a.ChildWorkflowType = attrs.GetWorkflowType().GetName()
		a.InitiatedEventID = attrs.GetInitiatedEventId()
		a.StartedEventID = attrs.GetStartedEventId()
	}

	return raw
}

func convertPayloads(p *commonpb.Payloads) []payload.Payload {
	if p == nil {
		return nil
	}
	out := make([]payload.Payload, 0, len(p.GetPayloads()))
	for _, item := range p.GetPayloads() {
		out = append(out, convertPayload(item))
	}
	return out
}

func convertPayload(p *commonpb.Payload) payload.Payload {
	return payload.Payload{Metadata: p.GetMetadata(), Data: p.GetData()}
}

func convertFailure(f *failurepb.Failure) *event.Failure {
	if f == nil {
		return nil
	}
	return &event.Failure{
		Message:    f.GetMessage(),
		Type:       failureType(f),
		Source:     f.GetSource(),
		StackTrace: f.GetStackTrace(),
		Cause:      convertFailure(f.GetCause()),
	}
}

func failureType(f *failurepb.Failure) string {
	switch {
	case f.GetApplicationFailureInfo() != nil:
		return f.GetApplicationFailureInfo().GetType()
	case f.GetTimeoutFailureInfo() != nil:
		return "TimeoutError"
	case f.GetCanceledFailureInfo() != nil:
		return "CanceledError"
	case f.GetTerminatedFailureInfo() != nil:
		return "TerminatedError"
	case f.GetServerFailureInfo() != nil:
		return "ServerError"
	case f.GetActivityFailureInfo() != nil:
		return "ActivityError"
	case f.GetChildWorkflowExecutionFailureInfo() != nil:
		return "ChildWorkflowError"
	}
	return ""
}

func asTime(ts *timestamppb.Timestamp) time.Time {
	if ts == nil {
		return time.Time{}
	}
	return ts.AsTime()
}

// executionStatus maps a wire execution status onto its upper-case name.
func executionStatus(s enums.WorkflowExecutionStatus) string {
	switch s {
	case enums.WORKFLOW_EXECUTION_STATUS_RUNNING:
		return history.StatusRunning
	case enums.WORKFLOW_EXECUTION_STATUS_COMPLETED:
		return history.StatusCompleted
	case enums.WORKFLOW_EXECUTION_STATUS_FAILED:
		return history.StatusFailed
	case enums.WORKFLOW_EXECUTION_STATUS_CANCELED:
		return history.StatusCanceled
	case enums.WORKFLOW_EXECUTION_STATUS_TERMINATED:
		return history.StatusTerminated
	case enums.WORKFLOW_EXECUTION_STATUS_CONTINUED_AS_NEW:
		return "CONTINUED_AS_NEW"
	case enums.WORKFLOW_EXECUTION_STATUS_TIMED_OUT:
		return history.StatusTimedOut
	}
	return "UNSPECIFIED"
}

func pendingActivityState(s enums.PendingActivityState) string {
	switch s {
	case enums.PENDING_ACTIVITY_STATE_UNSPECIFIED:
		return "UNSPECIFIED"
	case enums.PENDING_ACTIVITY_STATE_SCHEDULED:
		return "SCHEDULED"
	case enums.PENDING_ACTIVITY_STATE_STARTED:
		return "STARTED"
	case enums.PENDING_ACTIVITY_STATE_CANCEL_REQUESTED:
		return "CANCEL_REQUESTED"
	}
	return "UNKNOWN"
}
