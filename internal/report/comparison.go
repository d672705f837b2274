package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/rpggio/temporal-xray/internal/domain/diff"
)

// Comparison renders a divergence report. Structured values that differ are
// shown as a unified diff of their indented JSON.
func Comparison(w io.Writer, c *diff.Comparison) {
	headerStyle.Fprintln(w, "Comparison")
	fmt.Fprintf(w, "  A: %s  %s  %s\n", c.ExecutionA.WorkflowID, c.ExecutionA.WorkflowType, statusText(c.ExecutionA.Status))
	fmt.Fprintf(w, "  B: %s  %s  %s\n", c.ExecutionB.WorkflowID, c.ExecutionB.WorkflowType, statusText(c.ExecutionB.Status))
	if !c.SameWorkflowType {
		warningStyle.Fprintln(w, "  ! executions have different workflow types")
	}

	if c.Identical() {
		fmt.Fprintln(w)
		okStyle.Fprintf(w, "%s No differences in the compared fields\n", checkmark)
		return
	}

	if len(c.Divergences) > 0 {
		fmt.Fprintln(w)
		headerStyle.Fprintf(w, "Divergences (%d)\n", len(c.Divergences))
		for _, d := range c.Divergences {
			divergence(w, d)
		}
	}

	s := c.StructuralDifferences
	if len(s.ActivitiesOnlyInA) > 0 || len(s.ActivitiesOnlyInB) > 0 || s.DifferentExecutionOrder {
		fmt.Fprintln(w)
		headerStyle.Fprintln(w, "Structure")
		for _, name := range s.ActivitiesOnlyInA {
			removedStyle.Fprintf(w, "  - %s (only in A)\n", name)
		}
		for _, name := range s.ActivitiesOnlyInB {
			addedStyle.Fprintf(w, "  + %s (only in B)\n", name)
		}
		if s.DifferentExecutionOrder {
			warningStyle.Fprintln(w, "  ~ shared activities ran in a different order")
		}
	}

	if len(c.Signals.SignalsOnlyInA) > 0 || len(c.Signals.SignalsOnlyInB) > 0 {
		fmt.Fprintln(w)
		headerStyle.Fprintln(w, "Signals")
		for _, name := range c.Signals.SignalsOnlyInA {
			removedStyle.Fprintf(w, "  - %s (only in A)\n", name)
		}
		for _, name := range c.Signals.SignalsOnlyInB {
			addedStyle.Fprintf(w, "  + %s (only in B)\n", name)
		}
	}
}

func divergence(w io.Writer, d diff.Divergence) {
	fmt.Fprintf(w, "  step %d  %s  %s\n", d.Step, d.Activity, d.Field)
	mutedStyle.Fprintf(w, "    %s\n", d.Note)

	a, b := indented(d.ValueA), indented(d.ValueB)
	if !strings.Contains(a, "\n") && !strings.Contains(b, "\n") {
		fmt.Fprintf(w, "    %s %s %s\n", removedStyle.Sprint(a), arrow, addedStyle.Sprint(b))
		return
	}
	for _, line := range unifiedLines(a, b) {
		switch {
		case strings.HasPrefix(line, "+"):
			addedStyle.Fprintf(w, "    %s\n", line)
		case strings.HasPrefix(line, "-"):
			removedStyle.Fprintf(w, "    %s\n", line)
		default:
			fmt.Fprintf(w, "    %s\n", line)
		}
	}
}

// unifiedLines diffs a against b, dropping the file header lines.
func unifiedLines(a, b string) []string {
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(a + "\n"),
		B:        difflib.SplitLines(b + "\n"),
		FromFile: "A",
		ToFile:   "B",
		Context:  2,
	})
	if err != nil {
		return []string{"-" + a, "+" + b}
	}
	var lines []string
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		if strings.HasPrefix(line, "---") || strings.HasPrefix(line, "+++") {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func indented(v any) string {
	if v == nil {
		return "null"
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
