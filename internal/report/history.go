package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rpggio/temporal-xray/internal/domain/history"
)

// History renders a summarized execution as a timeline.
func History(w io.Writer, h *history.WorkflowHistory) {
	headerStyle.Fprintf(w, "%s", h.WorkflowType)
	fmt.Fprintf(w, "  %s  run %s\n", h.WorkflowID, h.RunID)
	fmt.Fprintf(w, "  status:  %s\n", statusText(h.Status))
	fmt.Fprintf(w, "  started: %s\n", h.StartTime)
	if h.CloseTime != nil {
		fmt.Fprintf(w, "  closed:  %s\n", *h.CloseTime)
	}
	if h.TaskQueue != "" {
		fmt.Fprintf(w, "  queue:   %s\n", h.TaskQueue)
	}
	if h.Warning != "" {
		warningStyle.Fprintf(w, "  ! %s\n", h.Warning)
	}

	if len(h.Timeline) > 0 {
		fmt.Fprintln(w)
		headerStyle.Fprintln(w, "Timeline")
		for _, step := range h.Timeline {
			timelineStep(w, step)
		}
	}

	if len(h.SignalsReceived) > 0 {
		fmt.Fprintln(w)
		headerStyle.Fprintln(w, "Signals")
		for _, s := range h.SignalsReceived {
			fmt.Fprintf(w, "  %s %s  %s\n", bullet, s.Name, mutedStyle.Sprint(s.Time))
		}
	}

	if len(h.TimersFired) > 0 {
		fmt.Fprintln(w)
		headerStyle.Fprintln(w, "Timers")
		for _, t := range h.TimersFired {
			fmt.Fprintf(w, "  %s %s  %s  %s\n", bullet, t.TimerID, t.Duration, mutedStyle.Sprint(t.FiredTime))
		}
	}

	if len(h.ChildWorkflows) > 0 {
		fmt.Fprintln(w)
		headerStyle.Fprintln(w, "Child workflows")
		for _, c := range h.ChildWorkflows {
			fmt.Fprintf(w, "  %s %s (%s)  %s\n", bullet, c.WorkflowID, c.WorkflowType, c.Status)
		}
	}

	if h.Failure != nil {
		fmt.Fprintln(w)
		failStyle.Fprintln(w, "Failure")
		for f, depth := h.Failure, 0; f != nil; f, depth = f.Cause, depth+1 {
			indent := strings.Repeat("  ", depth+1)
			if f.Type != "" {
				fmt.Fprintf(w, "%s%s: %s\n", indent, f.Type, f.Message)
			} else {
				fmt.Fprintf(w, "%s%s\n", indent, f.Message)
			}
		}
	}
}

func timelineStep(w io.Writer, step history.TimelineStep) {
	duration := "-"
	if step.DurationMS != nil {
		duration = fmt.Sprintf("%dms", *step.DurationMS)
	}
	fmt.Fprintf(w, "  %3d  %-28s %s  %s", step.Step, step.Activity, statusText(step.Status), mutedStyle.Sprint(duration))
	if step.Retries > 0 {
		warningStyle.Fprintf(w, "  retries=%d", step.Retries)
	}
	fmt.Fprintln(w)

	if in := step.ComparableInput(); in != nil {
		fmt.Fprintf(w, "       in  %s\n", compact(in))
	}
	if out := step.ComparableOutput(); out != nil {
		fmt.Fprintf(w, "       out %s\n", compact(out))
	}
	if step.Failure != "" {
		failStyle.Fprintf(w, "       %s %s\n", xmark, step.Failure)
	} else if step.LastFailure != "" {
		warningStyle.Fprintf(w, "       last failure: %s\n", step.LastFailure)
	}
}

func statusText(status string) string {
	switch strings.ToUpper(status) {
	case "COMPLETED":
		return okStyle.Sprint(checkmark + " " + status)
	case "FAILED", "TIMED_OUT", "TERMINATED", "CANCELED":
		return failStyle.Sprint(xmark + " " + status)
	case "RUNNING", "SCHEDULED", "STARTED":
		return warningStyle.Sprint(status)
	default:
		return status
	}
}

func compact(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
