package activity

import "github.com/rpggio/temporal-xray/internal/domain/event"

// Slot names one lifecycle position inside a Group.
type Slot string

const (
	SlotScheduled Slot = "scheduled"
	SlotStarted   Slot = "started"
	SlotCompleted Slot = "completed"
	SlotFailed    Slot = "failed"
	SlotTimedOut  Slot = "timed_out"
	SlotCanceled  Slot = "canceled"
)

// Group collects the lifecycle events of one scheduled activity.
type Group struct {
	ActivityID   string
	ActivityType string

	Scheduled *event.RawEvent
	Started   *event.RawEvent
	Completed *event.RawEvent
	Failed    *event.RawEvent
	TimedOut  *event.RawEvent
	Canceled  *event.RawEvent
}

// End returns the terminal event, checked completed, failed, timed out,
// then canceled.
func (g *Group) End() *event.RawEvent {
	switch {
	case g.Completed != nil:
		return g.Completed
	case g.Failed != nil:
		return g.Failed
	case g.TimedOut != nil:
		return g.TimedOut
	case g.Canceled != nil:
		return g.Canceled
	}
	return nil
}

// Status returns the most advanced populated slot.
func (g *Group) Status() Slot {
	switch {
	case g.Completed != nil:
		return SlotCompleted
	case g.Failed != nil:
		return SlotFailed
	case g.TimedOut != nil:
		return SlotTimedOut
	case g.Canceled != nil:
		return SlotCanceled
	case g.Started != nil:
		return SlotStarted
	}
	return SlotScheduled
}

// Attempt returns the started event's attempt number, or 1.
func (g *Group) Attempt() int32 {
	if g.Started == nil || g.Started.Attributes.Attempt < 1 {
		return 1
	}
	return g.Started.Attributes.Attempt
}

func (g *Group) set(slot Slot, e *event.RawEvent) {
	switch slot {
	case SlotStarted:
		g.Started = e
	case SlotCompleted:
		g.Completed = e
	case SlotFailed:
		g.Failed = e
	case SlotTimedOut:
		g.TimedOut = e
	case SlotCanceled:
		g.Canceled = e
	}
}
