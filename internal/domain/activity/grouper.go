package activity

import "github.com/rpggio/temporal-xray/internal/domain/event"

var lifecycleSlots = map[event.Kind]Slot{
	event.KindActivityTaskStarted:   SlotStarted,
	event.KindActivityTaskCompleted: SlotCompleted,
	event.KindActivityTaskFailed:    SlotFailed,
	event.KindActivityTaskTimedOut:  SlotTimedOut,
	event.KindActivityTaskCanceled:  SlotCanceled,
}

// Groups is an insertion-ordered set of activity groups keyed by activity id.
type Groups struct {
	order       []string
	byID        map[string]*Group
	byScheduled map[int64]string
}

// Len returns the number of groups.
func (gs *Groups) Len() int {
	return len(gs.order)
}

// Get returns the group for an activity id.
func (gs *Groups) Get(activityID string) (*Group, bool) {
	g, ok := gs.byID[activityID]
	return g, ok
}

// List returns the groups in first-scheduled order.
func (gs *Groups) List() []*Group {
	list := make([]*Group, 0, len(gs.order))
	for _, id := range gs.order {
		list = append(list, gs.byID[id])
	}
	return list
}

// GroupEvents correlates activity events in one linear pass. A scheduled
// event creates (or refreshes) the group for its activity id; later events
// attach through their scheduled event id. Scheduled events without an
// activity id are skipped, so their lifecycle events are dropped along with
// any event referencing an unknown scheduled event. A repeated slot keeps
// the last event.
func GroupEvents(events []event.RawEvent) *Groups {
	gs := &Groups{
		byID:        make(map[string]*Group),
		byScheduled: make(map[int64]string),
	}

	for i := range events {
		e := &events[i]
		kind := e.Kind()

		if kind == event.KindActivityTaskScheduled {
			id := e.Attributes.ActivityID
			if id == "" {
				continue
			}
			g, ok := gs.byID[id]
			if !ok {
				activityType := e.Attributes.ActivityType
				if activityType == "" {
					activityType = "Unknown"
				}
				g = &Group{ActivityID: id, ActivityType: activityType}
				gs.byID[id] = g
				gs.order = append(gs.order, id)
			}
			g.Scheduled = e
			gs.byScheduled[e.ID] = id
			continue
		}

		slot, ok := lifecycleSlots[kind]
		if !ok {
			continue
		}
		id, ok := gs.byScheduled[e.Attributes.ScheduledEventID]
		if !ok {
			continue
		}
		gs.byID[id].set(slot, e)
	}

	return gs
}
