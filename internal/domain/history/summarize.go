package history

import (
	"fmt"
	"time"

	"github.com/rpggio/temporal-xray/internal/domain/activity"
	"github.com/rpggio/temporal-xray/internal/domain/event"
	"github.com/rpggio/temporal-xray/internal/domain/payload"
)

// terminalKinds are checked in priority order; the first present wins.
var terminalKinds = []struct {
	kind   event.Kind
	status string
}{
	{event.KindWorkflowExecutionCompleted, StatusCompleted},
	{event.KindWorkflowExecutionFailed, StatusFailed},
	{event.KindWorkflowExecutionTimedOut, StatusTimedOut},
	{event.KindWorkflowExecutionCanceled, StatusCanceled},
	{event.KindWorkflowExecutionTerminated, StatusTerminated},
}

// Summarize turns a raw event list into a WorkflowHistory. It is pure and
// returns ErrExecutionNotFound for an empty event list.
func Summarize(workflowID, runID string, events []event.RawEvent, opts Options) (*WorkflowHistory, error) {
	if len(events) == 0 {
		return nil, ErrExecutionNotFound
	}
	if opts.fidelity() == FidelityFull {
		return summarizeFull(workflowID, runID, events), nil
	}

	truncateAt := opts.truncateAt()
	start, _ := event.First(events, event.KindWorkflowExecutionStarted)

	h := &WorkflowHistory{
		WorkflowID:   workflowID,
		RunID:        runID,
		WorkflowType: workflowType(start),
		TaskQueue:    start.Attributes.TaskQueue,
		Status:       StatusRunning,
		StartTime:    formatTime(start.Time),
		Input:        payload.DecodeOneOrMany(start.Attributes.Input, truncateAt).Plain(),
	}

	for _, terminal := range terminalKinds {
		e, ok := event.First(events, terminal.kind)
		if !ok {
			continue
		}
		h.Status = terminal.status
		closeTime := formatTime(e.Time)
		h.CloseTime = &closeTime
		switch terminal.status {
		case StatusCompleted:
			h.Result = payload.DecodeOneOrMany(e.Attributes.Result, truncateAt).Plain()
		case StatusFailed:
			h.Failure = convertFailure(e.Attributes.Failure)
		}
		break
	}

	basis := event.FilterToTypes(events, opts.EventTypes)
	h.Timeline = buildTimeline(activity.GroupEvents(basis), opts.fidelity(), truncateAt)
	h.SignalsReceived = extractSignals(events, truncateAt)
	h.TimersFired = extractTimers(events)
	h.ChildWorkflows = extractChildWorkflows(events)

	if len(events) > LargeHistoryEvents {
		h.Warning = fmt.Sprintf("This workflow has %d events. The summary may take a moment to generate.", len(events))
	}

	return h, nil
}

func summarizeFull(workflowID, runID string, events []event.RawEvent) *WorkflowHistory {
	start, _ := event.First(events, event.KindWorkflowExecutionStarted)
	filtered := event.FilterInternal(events)

	timeline := make([]TimelineStep, 0, len(filtered))
	for i, e := range filtered {
		timeline = append(timeline, TimelineStep{
			Step:     i + 1,
			Activity: string(e.Kind()),
			Status:   StepStatusEvent,
			Input:    e,
		})
	}

	return &WorkflowHistory{
		WorkflowID:      workflowID,
		RunID:           runID,
		WorkflowType:    workflowType(start),
		TaskQueue:       start.Attributes.TaskQueue,
		Status:          StatusFullHistory,
		StartTime:       formatTime(start.Time),
		Input:           payload.DecodeOneOrMany(start.Attributes.Input, 0).Plain(),
		Timeline:        timeline,
		SignalsReceived: []Signal{},
		TimersFired:     []Timer{},
		ChildWorkflows:  []ChildWorkflow{},
		Warning:         fmt.Sprintf("Full history with %d events (%d after filtering internal events).", len(events), len(filtered)),
	}
}

func buildTimeline(groups *activity.Groups, fidelity Fidelity, truncateAt int) []TimelineStep {
	timeline := make([]TimelineStep, 0, groups.Len())
	for i, g := range groups.List() {
		step := TimelineStep{
			Step:       i + 1,
			Activity:   g.ActivityType,
			Status:     string(g.Status()),
			DurationMS: activityDuration(g),
		}

		var input, output any
		if g.Scheduled != nil {
			input = payload.DecodeOneOrMany(g.Scheduled.Attributes.Input, truncateAt).Plain()
		}
		if g.Completed != nil {
			output = payload.DecodeOneOrMany(g.Completed.Attributes.Result, truncateAt).Plain()
		}

		switch g.Status() {
		case activity.SlotFailed:
			step.Failure = failureMessage(g.Failed.Attributes.Failure)
		case activity.SlotTimedOut:
			if f := g.TimedOut.Attributes.Failure; f != nil {
				step.Failure = f.Message
			}
		}
		if g.Started != nil && g.Started.Attributes.LastFailure != nil {
			step.LastFailure = g.Started.Attributes.LastFailure.Message
		}

		if attempt := g.Attempt(); attempt > 1 {
			step.Retries = int(attempt - 1)
		}

		if fidelity == FidelitySummary {
			inputSummary := summarizeValue(input)
			outputSummary := summarizeValue(output)
			step.InputSummary = &inputSummary
			step.OutputSummary = &outputSummary
		} else {
			step.Input = input
			step.Output = output
		}

		timeline = append(timeline, step)
	}
	return timeline
}

// activityDuration measures from scheduling to the terminal event, or to
// the start when the activity has not finished.
func activityDuration(g *activity.Group) *int64 {
	if g.Scheduled == nil || !g.Scheduled.HasTime() {
		return nil
	}
	end := g.End()
	if end == nil {
		end = g.Started
	}
	if end == nil || !end.HasTime() {
		return nil
	}
	ms := end.Time.Sub(g.Scheduled.Time).Milliseconds()
	return &ms
}

func extractSignals(events []event.RawEvent, truncateAt int) []Signal {
	signals := []Signal{}
	for _, e := range events {
		if e.Kind() != event.KindWorkflowExecutionSignaled {
			continue
		}
		name := e.Attributes.SignalName
		if name == "" {
			name = "unknown"
		}
		signals = append(signals, Signal{
			Name:  name,
			Time:  formatTime(e.Time),
			Input: payload.DecodeOneOrMany(e.Attributes.Input, truncateAt).Plain(),
		})
	}
	return signals
}

func extractTimers(events []event.RawEvent) []Timer {
	starts := make(map[string]event.RawEvent)
	for _, e := range events {
		if e.Kind() == event.KindTimerStarted {
			starts[e.Attributes.TimerID] = e
		}
	}

	timers := []Timer{}
	for _, e := range events {
		if e.Kind() != event.KindTimerFired {
			continue
		}
		id := e.Attributes.TimerID
		var timeout *time.Duration
		if start, ok := starts[id]; ok {
			timeout = start.Attributes.StartToFireTimeout
		}
		if id == "" {
			id = "unknown"
		}
		timers = append(timers, Timer{
			TimerID:   id,
			Duration:  formatDuration(timeout),
			FiredTime: formatTime(e.Time),
		})
	}
	return timers
}

func extractChildWorkflows(events []event.RawEvent) []ChildWorkflow {
	var order []string
	children := make(map[string]*ChildWorkflow)

	for _, e := range events {
		id := e.Attributes.ChildWorkflowID
		var status string
		switch e.Kind() {
		case event.KindStartChildWorkflowExecutionInitiated:
			childType := e.Attributes.ChildWorkflowType
			if childType == "" {
				childType = "Unknown"
			}
			if _, ok := children[id]; !ok {
				order = append(order, id)
			}
			children[id] = &ChildWorkflow{WorkflowID: id, WorkflowType: childType, Status: ChildInitiated}
			continue
		case event.KindChildWorkflowExecutionStarted:
			status = ChildStarted
		case event.KindChildWorkflowExecutionCompleted:
			status = ChildCompleted
		case event.KindChildWorkflowExecutionFailed:
			status = ChildFailed
		default:
			continue
		}
		if child, ok := children[id]; ok {
			child.Status = status
		}
	}

	list := make([]ChildWorkflow, 0, len(order))
	for _, id := range order {
		list = append(list, *children[id])
	}
	return list
}

func workflowType(start event.RawEvent) string {
	if start.Attributes.WorkflowType == "" {
		return "Unknown"
	}
	return start.Attributes.WorkflowType
}

func convertFailure(f *event.Failure) *Failure {
	if f == nil {
		return nil
	}
	failureType := f.Type
	if failureType == "" {
		failureType = f.Source
	}
	if failureType == "" {
		failureType = "unknown"
	}
	return &Failure{
		Message:    failureMessage(f),
		Type:       failureType,
		StackTrace: f.StackTrace,
		Cause:      convertFailure(f.Cause),
	}
}

func failureMessage(f *event.Failure) string {
	if f == nil || f.Message == "" {
		return "Unknown error"
	}
	return f.Message
}
