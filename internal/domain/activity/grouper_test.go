package activity_test

import (
	"testing"

	"github.com/rpggio/temporal-xray/internal/domain/activity"
	"github.com/rpggio/temporal-xray/internal/domain/event"
	"github.com/stretchr/testify/require"
)

func scheduled(id int64, activityID, activityType string) event.RawEvent {
	return event.RawEvent{
		ID:   id,
		Type: event.KindActivityTaskScheduled.Code(),
		Attributes: event.Attributes{
			ActivityID:   activityID,
			ActivityType: activityType,
		},
	}
}

func lifecycle(id int64, kind event.Kind, scheduledID int64) event.RawEvent {
	return event.RawEvent{
		ID:         id,
		Type:       kind.Code(),
		Attributes: event.Attributes{ScheduledEventID: scheduledID},
	}
}

func TestGroupEvents_CorrelatesLifecycle(t *testing.T) {
	events := []event.RawEvent{
		scheduled(5, "1", "Charge"),
		scheduled(6, "2", "Notify"),
		lifecycle(7, event.KindActivityTaskStarted, 5),
		lifecycle(8, event.KindActivityTaskCompleted, 5),
		lifecycle(9, event.KindActivityTaskStarted, 6),
		lifecycle(10, event.KindActivityTaskFailed, 6),
	}

	groups := activity.GroupEvents(events)
	require.Equal(t, 2, groups.Len())

	list := groups.List()
	require.Equal(t, "Charge", list[0].ActivityType)
	require.Equal(t, "Notify", list[1].ActivityType)

	charge, ok := groups.Get("1")
	require.True(t, ok)
	require.Equal(t, int64(5), charge.Scheduled.ID)
	require.Equal(t, int64(7), charge.Started.ID)
	require.Equal(t, int64(8), charge.Completed.ID)
	require.Equal(t, activity.SlotCompleted, charge.Status())
	require.Equal(t, int64(8), charge.End().ID)

	notify, ok := groups.Get("2")
	require.True(t, ok)
	require.Equal(t, activity.SlotFailed, notify.Status())
	require.Nil(t, notify.Completed)
}

func TestGroupEvents_DropsUnknownReference(t *testing.T) {
	events := []event.RawEvent{
		scheduled(5, "1", "Charge"),
		lifecycle(6, event.KindActivityTaskStarted, 99),
		lifecycle(7, event.KindActivityTaskCompleted, 42),
	}

	groups := activity.GroupEvents(events)
	require.Equal(t, 1, groups.Len())

	g, _ := groups.Get("1")
	require.Nil(t, g.Started)
	require.Nil(t, g.Completed)
	require.Equal(t, activity.SlotScheduled, g.Status())
	require.Nil(t, g.End())
}

func TestGroupEvents_RepeatedSlotOverwrites(t *testing.T) {
	events := []event.RawEvent{
		scheduled(5, "1", "Charge"),
		lifecycle(6, event.KindActivityTaskStarted, 5),
		lifecycle(7, event.KindActivityTaskStarted, 5),
	}

	g, _ := activity.GroupEvents(events).Get("1")
	require.Equal(t, int64(7), g.Started.ID)
	require.Equal(t, activity.SlotStarted, g.Status())
}

func TestGroupEvents_StatusPriority(t *testing.T) {
	events := []event.RawEvent{
		scheduled(1, "a", "A"),
		lifecycle(2, event.KindActivityTaskCanceled, 1),
		lifecycle(3, event.KindActivityTaskTimedOut, 1),
		scheduled(4, "b", "B"),
		lifecycle(5, event.KindActivityTaskCanceled, 4),
	}

	groups := activity.GroupEvents(events)
	a, _ := groups.Get("a")
	require.Equal(t, activity.SlotTimedOut, a.Status())
	b, _ := groups.Get("b")
	require.Equal(t, activity.SlotCanceled, b.Status())
}

func TestGroupEvents_SkipsScheduledWithoutActivityID(t *testing.T) {
	groups := activity.GroupEvents([]event.RawEvent{
		scheduled(1, "", "Orphan"),
		lifecycle(2, event.KindActivityTaskStarted, 1),
		lifecycle(3, event.KindActivityTaskCompleted, 1),
		scheduled(4, "charge", "Charge"),
		lifecycle(5, event.KindActivityTaskCompleted, 4),
	})

	require.Equal(t, 1, groups.Len())
	_, ok := groups.Get("")
	require.False(t, ok)
	g, ok := groups.Get("charge")
	require.True(t, ok)
	require.Equal(t, activity.SlotCompleted, g.Status())
}

func TestGroupEvents_UnknownTypeName(t *testing.T) {
	groups := activity.GroupEvents([]event.RawEvent{scheduled(1, "x", "")})
	g, ok := groups.Get("x")
	require.True(t, ok)
	require.Equal(t, "Unknown", g.ActivityType)
}

func TestGroup_Attempt(t *testing.T) {
	started := lifecycle(2, event.KindActivityTaskStarted, 1)
	started.Attributes.Attempt = 3
	events := []event.RawEvent{scheduled(1, "a", "A"), started}

	g, _ := activity.GroupEvents(events).Get("a")
	require.Equal(t, int32(3), g.Attempt())

	g, _ = activity.GroupEvents(events[:1]).Get("a")
	require.Equal(t, int32(1), g.Attempt())
}
