package event

import "fmt"

// Kind is the stable name of an event type.
type Kind string

const (
	KindWorkflowExecutionStarted                        Kind = "WorkflowExecutionStarted"
	KindWorkflowExecutionCompleted                      Kind = "WorkflowExecutionCompleted"
	KindWorkflowExecutionFailed                         Kind = "WorkflowExecutionFailed"
	KindWorkflowExecutionTimedOut                       Kind = "WorkflowExecutionTimedOut"
	KindWorkflowTaskScheduled                           Kind = "WorkflowTaskScheduled"
	KindWorkflowTaskStarted                             Kind = "WorkflowTaskStarted"
	KindWorkflowTaskCompleted                           Kind = "WorkflowTaskCompleted"
	KindWorkflowTaskTimedOut                            Kind = "WorkflowTaskTimedOut"
	KindWorkflowTaskFailed                              Kind = "WorkflowTaskFailed"
	KindActivityTaskScheduled                           Kind = "ActivityTaskScheduled"
	KindActivityTaskStarted                             Kind = "ActivityTaskStarted"
	KindActivityTaskCompleted                           Kind = "ActivityTaskCompleted"
	KindActivityTaskFailed                              Kind = "ActivityTaskFailed"
	KindActivityTaskTimedOut                            Kind = "ActivityTaskTimedOut"
	KindActivityTaskCancelRequested                     Kind = "ActivityTaskCancelRequested"
	KindActivityTaskCanceled                            Kind = "ActivityTaskCanceled"
	KindTimerStarted                                    Kind = "TimerStarted"
	KindTimerFired                                      Kind = "TimerFired"
	KindTimerCanceled                                   Kind = "TimerCanceled"
	KindWorkflowExecutionCancelRequested                Kind = "WorkflowExecutionCancelRequested"
	KindWorkflowExecutionCanceled                       Kind = "WorkflowExecutionCanceled"
	KindRequestCancelExternalWorkflowExecutionInitiated Kind = "RequestCancelExternalWorkflowExecutionInitiated"
	KindRequestCancelExternalWorkflowExecutionFailed    Kind = "RequestCancelExternalWorkflowExecutionFailed"
	KindExternalWorkflowExecutionCancelRequested        Kind = "ExternalWorkflowExecutionCancelRequested"
	KindMarkerRecorded                                  Kind = "MarkerRecorded"
	KindWorkflowExecutionSignaled                       Kind = "WorkflowExecutionSignaled"
	KindWorkflowExecutionTerminated                     Kind = "WorkflowExecutionTerminated"
	KindWorkflowExecutionContinuedAsNew                 Kind = "WorkflowExecutionContinuedAsNew"
	KindStartChildWorkflowExecutionInitiated            Kind = "StartChildWorkflowExecutionInitiated"
	KindStartChildWorkflowExecutionFailed               Kind = "StartChildWorkflowExecutionFailed"
	KindChildWorkflowExecutionStarted                   Kind = "ChildWorkflowExecutionStarted"
	KindChildWorkflowExecutionCompleted                 Kind = "ChildWorkflowExecutionCompleted"
	KindChildWorkflowExecutionFailed                    Kind = "ChildWorkflowExecutionFailed"
	KindChildWorkflowExecutionCanceled                  Kind = "ChildWorkflowExecutionCanceled"
	KindChildWorkflowExecutionTimedOut                  Kind = "ChildWorkflowExecutionTimedOut"
	KindChildWorkflowExecutionTerminated                Kind = "ChildWorkflowExecutionTerminated"
	KindSignalExternalWorkflowExecutionInitiated        Kind = "SignalExternalWorkflowExecutionInitiated"
	KindSignalExternalWorkflowExecutionFailed           Kind = "SignalExternalWorkflowExecutionFailed"
	KindExternalWorkflowExecutionSignaled               Kind = "ExternalWorkflowExecutionSignaled"
	KindUpsertWorkflowSearchAttributes                  Kind = "UpsertWorkflowSearchAttributes"
)

// kindsByCode is indexed by type code; index 0 is unused.
var kindsByCode = [...]Kind{
	"",
	KindWorkflowExecutionStarted,
	KindWorkflowExecutionCompleted,
	KindWorkflowExecutionFailed,
	KindWorkflowExecutionTimedOut,
	KindWorkflowTaskScheduled,
	KindWorkflowTaskStarted,
	KindWorkflowTaskCompleted,
	KindWorkflowTaskTimedOut,
	KindWorkflowTaskFailed,
	KindActivityTaskScheduled,
	KindActivityTaskStarted,
	KindActivityTaskCompleted,
	KindActivityTaskFailed,
	KindActivityTaskTimedOut,
	KindActivityTaskCancelRequested,
	KindActivityTaskCanceled,
	KindTimerStarted,
	KindTimerFired,
	KindTimerCanceled,
	KindWorkflowExecutionCancelRequested,
	KindWorkflowExecutionCanceled,
	KindRequestCancelExternalWorkflowExecutionInitiated,
	KindRequestCancelExternalWorkflowExecutionFailed,
	KindExternalWorkflowExecutionCancelRequested,
	KindMarkerRecorded,
	KindWorkflowExecutionSignaled,
	KindWorkflowExecutionTerminated,
	KindWorkflowExecutionContinuedAsNew,
	KindStartChildWorkflowExecutionInitiated,
	KindStartChildWorkflowExecutionFailed,
	KindChildWorkflowExecutionStarted,
	KindChildWorkflowExecutionCompleted,
	KindChildWorkflowExecutionFailed,
	KindChildWorkflowExecutionCanceled,
	KindChildWorkflowExecutionTimedOut,
	KindChildWorkflowExecutionTerminated,
	KindSignalExternalWorkflowExecutionInitiated,
	KindSignalExternalWorkflowExecutionFailed,
	KindExternalWorkflowExecutionSignaled,
	KindUpsertWorkflowSearchAttributes,
}

// Classify maps a numeric event type code to its kind. Codes outside the
// known range yield a synthesized UnknownEventType(N) name.
func Classify(code int32) Kind {
	if code > 0 && int(code) < len(kindsByCode) {
		return kindsByCode[code]
	}
	return Kind(fmt.Sprintf("UnknownEventType(%d)", code))
}

// Code returns the numeric type code of a known kind, or 0.
func (k Kind) Code() int32 {
	for i, known := range kindsByCode {
		if i > 0 && known == k {
			return int32(i)
		}
	}
	return 0
}

// Internal reports whether the kind is workflow-task bookkeeping.
func (k Kind) Internal() bool {
	switch k {
	case KindWorkflowTaskScheduled,
		KindWorkflowTaskStarted,
		KindWorkflowTaskCompleted,
		KindWorkflowTaskFailed,
		KindWorkflowTaskTimedOut:
		return true
	}
	return false
}
