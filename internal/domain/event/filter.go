package event

import "strings"

// FilterToTypes keeps events whose kind matches one of names,
// case-insensitively. An empty allow-list keeps everything.
func FilterToTypes(events []RawEvent, names []string) []RawEvent {
	if len(names) == 0 {
		return events
	}
	allowed := make(map[string]struct{}, len(names))
	for _, name := range names {
		allowed[strings.ToLower(name)] = struct{}{}
	}
	filtered := make([]RawEvent, 0, len(events))
	for _, e := range events {
		if _, ok := allowed[strings.ToLower(string(e.Kind()))]; ok {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// FilterInternal drops workflow-task bookkeeping events.
func FilterInternal(events []RawEvent) []RawEvent {
	filtered := make([]RawEvent, 0, len(events))
	for _, e := range events {
		if !e.Kind().Internal() {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// First returns the first event of the given kind.
func First(events []RawEvent, kind Kind) (RawEvent, bool) {
	for _, e := range events {
		if e.Kind() == kind {
			return e, true
		}
	}
	return RawEvent{}, false
}
