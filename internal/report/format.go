package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rpggio/temporal-xray/internal/domain/workflow"
)

// Format selects the rendering of a command's result.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("invalid format %q: want text or json", s)
}

// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// Workflows renders a visibility listing as a table.
func Workflows(w io.Writer, res *workflow.ListResult) {
	if len(res.Workflows) == 0 {
		mutedStyle.Fprintln(w, "No workflows matched.")
		return
	}
	headerStyle.Fprintf(w, "%-36s %-24s %-12s %s\n", "WORKFLOW ID", "TYPE", "STATUS", "STARTED")
	for _, s := range res.Workflows {
		fmt.Fprintf(w, "%-36s %-24s %-12s %s\n", s.WorkflowID, s.WorkflowType, s.Status, s.StartTime)
	}
	if res.HasMore {
		mutedStyle.Fprintf(w, "%d shown, more available (raise --limit)\n", res.TotalCount)
	}
}
