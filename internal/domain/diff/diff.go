package diff

import (
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
	"sort"
	"strconv"

	"github.com/rpggio/temporal-xray/internal/domain/history"
)

// Pair is one aligned pair of steps. Either side may be nil.
type Pair struct {
	A *history.TimelineStep
	B *history.TimelineStep
}

// Align pairs each step of a with the first unused step of b that has the
// same activity name. Unmatched steps pair with nil. Repeated names are
// matched greedily in order, not by optimal sequence alignment.
func Align(a, b []history.TimelineStep) []Pair {
	used := make([]bool, len(b))
	pairs := make([]Pair, 0, len(a)+len(b))

	for i := range a {
		pair := Pair{A: &a[i]}
		for j := range b {
			if !used[j] && b[j].Activity == a[i].Activity {
				used[j] = true
				pair.B = &b[j]
				break
			}
		}
		pairs = append(pairs, pair)
	}
	for j := range b {
		if !used[j] {
			pairs = append(pairs, Pair{B: &b[j]})
		}
	}
	return pairs
}

// Diff compares two summarized histories.
func Diff(a, b *history.WorkflowHistory) Report {
	return Report{
		Divergences:           dataDivergences(a.Timeline, b.Timeline),
		StructuralDifferences: structuralDifferences(a.Timeline, b.Timeline),
		Signals:               signalDifferences(a.SignalsReceived, b.SignalsReceived),
	}
}

func dataDivergences(a, b []history.TimelineStep) []Divergence {
	divergences := []Divergence{}
	for _, pair := range Align(a, b) {
		if pair.A == nil || pair.B == nil {
			continue
		}
		sa, sb := pair.A, pair.B

		found := deepDiff(sa.ComparableInput(), sb.ComparableInput(), "input")
		found = append(found, deepDiff(sa.ComparableOutput(), sb.ComparableOutput(), "output")...)
		for _, d := range found {
			d.Step = sa.Step
			d.Activity = sa.Activity
			divergences = append(divergences, d)
		}

		if sa.Status != sb.Status {
			divergences = append(divergences, Divergence{
				Step:     sa.Step,
				Activity: sa.Activity,
				Field:    "status",
				ValueA:   sa.Status,
				ValueB:   sb.Status,
				Note:     fmt.Sprintf("Activity %s has different status in each execution", sa.Activity),
			})
		}

		if sa.Retries != sb.Retries {
			divergences = append(divergences, Divergence{
				Step:     sa.Step,
				Activity: sa.Activity,
				Field:    "retries",
				ValueA:   sa.Retries,
				ValueB:   sb.Retries,
				Note:     fmt.Sprintf("Different retry counts for %s", sa.Activity),
			})
		}
	}
	return divergences
}

// deepDiff recurses into objects by key and lists by index. Any other
// difference is reported at path.
func deepDiff(a, b any, path string) []Divergence {
	if reflect.DeepEqual(a, b) {
		return nil
	}
	if equal, ok := numbersEqual(a, b); ok && equal {
		return nil
	}

	ma, aIsMap := a.(map[string]any)
	mb, bIsMap := b.(map[string]any)
	if aIsMap && bIsMap {
		var found []Divergence
		for _, key := range unionKeys(ma, mb) {
			found = append(found, deepDiff(ma[key], mb[key], path+"."+key)...)
		}
		return found
	}

	la, aIsList := a.([]any)
	lb, bIsList := b.([]any)
	if aIsList && bIsList {
		var found []Divergence
		for i := 0; i < max(len(la), len(lb)); i++ {
			found = append(found, deepDiff(index(la, i), index(lb, i), fmt.Sprintf("%s[%d]", path, i))...)
		}
		return found
	}

	return []Divergence{{
		Field:  path,
		ValueA: a,
		ValueB: b,
		Note:   fmt.Sprintf("Different values at %s", path),
	}}
}

// numbersEqual compares two numeric leaves by value, so 1, 1.0 and 1e0 are
// equal. ok is false unless both sides are numbers.
func numbersEqual(a, b any) (equal, ok bool) {
	na, aOK := numberText(a)
	nb, bOK := numberText(b)
	if !aOK || !bOK {
		return false, false
	}

	ia, aInt := new(big.Int).SetString(na, 10)
	ib, bInt := new(big.Int).SetString(nb, 10)
	if aInt && bInt {
		return ia.Cmp(ib) == 0, true
	}

	fa, _, errA := big.ParseFloat(na, 10, 256, big.ToNearestEven)
	fb, _, errB := big.ParseFloat(nb, 10, 256, big.ToNearestEven)
	if errA != nil || errB != nil {
		return false, false
	}
	return fa.Cmp(fb) == 0, true
}

func numberText(v any) (string, bool) {
	switch n := v.(type) {
	case json.Number:
		return n.String(), true
	case float64:
		return strconv.FormatFloat(n, 'g', -1, 64), true
	case int:
		return strconv.Itoa(n), true
	case int64:
		return strconv.FormatInt(n, 10), true
	}
	return "", false
}

func unionKeys(a, b map[string]any) []string {
	keys := make([]string, 0, len(a)+len(b))
	for k := range a {
		keys = append(keys, k)
	}
	for k := range b {
		if _, ok := a[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func index(list []any, i int) any {
	if i < len(list) {
		return list[i]
	}
	return nil
}

func structuralDifferences(a, b []history.TimelineStep) StructuralDifferences {
	namesA := activityNames(a)
	namesB := activityNames(b)
	setA := toSet(namesA)
	setB := toSet(namesB)

	commonA := keepIn(namesA, setB)
	commonB := keepIn(namesB, setA)

	return StructuralDifferences{
		ActivitiesOnlyInA:       uniqueNotIn(namesA, setB),
		ActivitiesOnlyInB:       uniqueNotIn(namesB, setA),
		DifferentExecutionOrder: len(commonA) > 0 && !reflect.DeepEqual(commonA, commonB),
	}
}

func signalDifferences(a, b []history.Signal) SignalDifferences {
	namesA := signalNames(a)
	namesB := signalNames(b)
	return SignalDifferences{
		SignalsOnlyInA: uniqueNotIn(namesA, toSet(namesB)),
		SignalsOnlyInB: uniqueNotIn(namesB, toSet(namesA)),
	}
}

func activityNames(steps []history.TimelineStep) []string {
	names := make([]string, len(steps))
	for i, s := range steps {
		names[i] = s.Activity
	}
	return names
}

func signalNames(signals []history.Signal) []string {
	names := make([]string, len(signals))
	for i, s := range signals {
		names[i] = s.Name
	}
	return names
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

func keepIn(names []string, set map[string]struct{}) []string {
	kept := []string{}
	for _, n := range names {
		if _, ok := set[n]; ok {
			kept = append(kept, n)
		}
	}
	return kept
}

// uniqueNotIn returns names absent from exclude, deduplicated in
// first-occurrence order.
func uniqueNotIn(names []string, exclude map[string]struct{}) []string {
	out := []string{}
	seen := make(map[string]struct{})
	for _, n := range names {
		if _, ok := exclude[n]; ok {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
