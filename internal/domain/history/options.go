package history

import (
	"fmt"
	"strings"
)

// Fidelity selects how much detail a summary carries.
type Fidelity string

const (
	FidelitySummary  Fidelity = "summary"
	FidelityStandard Fidelity = "standard"
	FidelityFull     Fidelity = "full"
)

// SummaryTruncateBytes is the payload truncation threshold at summary fidelity.
const SummaryTruncateBytes = 10240

// LargeHistoryEvents is the event count above which a warning is attached.
const LargeHistoryEvents = 10000

// ParseFidelity parses a fidelity name; empty means summary.
func ParseFidelity(s string) (Fidelity, error) {
	switch Fidelity(strings.ToLower(strings.TrimSpace(s))) {
	case "", FidelitySummary:
		return FidelitySummary, nil
	case FidelityStandard:
		return FidelityStandard, nil
	case FidelityFull:
		return FidelityFull, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidFidelity, s)
}

// Options controls summarization.
type Options struct {
	Fidelity Fidelity
	// EventTypes restricts the activity timeline to these event kinds.
	EventTypes []string
}

func (o Options) truncateAt() int {
	if o.fidelity() == FidelitySummary {
		return SummaryTruncateBytes
	}
	return 0
}

func (o Options) fidelity() Fidelity {
	if o.Fidelity == "" {
		return FidelitySummary
	}
	return o.Fidelity
}
