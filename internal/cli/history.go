package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rpggio/temporal-xray/internal/domain/history"
	"github.com/rpggio/temporal-xray/internal/report"
	"github.com/rpggio/temporal-xray/internal/temporal"
	"github.com/spf13/cobra"
)

var (
	historyFile        string
	historyRunID       string
	historyDetailLevel string
	historyEventTypes  []string
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringVar(&historyFile, "file", "", "Read an exported history instead of querying the server")
	historyCmd.Flags().StringVar(&historyRunID, "run-id", "", "Run ID (defaults to the latest run)")
	historyCmd.Flags().StringVarP(&historyDetailLevel, "detail-level", "d", "summary", "Detail level (summary|standard|full)")
	historyCmd.Flags().StringSliceVar(&historyEventTypes, "event-types", nil, "Only show these event types, e.g. ActivityTaskFailed")
}

var historyCmd = &cobra.Command{
	Use:   "history [workflow-id]",
	Short: "Summarize one workflow execution",
	Long:  "Fetches an execution's event history and renders its activity timeline,\nsignals, timers, child workflows and failure.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	fidelity, err := history.ParseFidelity(historyDetailLevel)
	if err != nil {
		return err
	}
	opts := history.Options{Fidelity: fidelity, EventTypes: historyEventTypes}

	var workflowID string
	if len(args) == 1 {
		workflowID = args[0]
	}

	var h *history.WorkflowHistory
	if historyFile != "" {
		if workflowID == "" {
			workflowID = fileWorkflowID(historyFile)
		}
		h, err = summarizeFile(historyFile, workflowID, historyRunID, opts)
		if err != nil {
			return err
		}
	} else {
		if workflowID == "" {
			return fmt.Errorf("workflow id is required unless --file is set")
		}
		l, err := openLive()
		if err != nil {
			return err
		}
		defer l.Close()

		h, err = l.history.Get(cmd.Context(), history.GetRequest{
			Namespace:  namespace,
			WorkflowID: workflowID,
			RunID:      historyRunID,
			Options:    opts,
		})
		if err != nil {
			return friendly(err, workflowID)
		}
	}

	if format == report.FormatJSON {
		return report.JSON(cmd.OutOrStdout(), h)
	}
	report.History(cmd.OutOrStdout(), h)
	return nil
}

func summarizeFile(path, workflowID, runID string, opts history.Options) (*history.WorkflowHistory, error) {
	events, err := temporal.LoadHistoryFile(path)
	if err != nil {
		return nil, err
	}
	h, err := history.Summarize(workflowID, runID, events, opts)
	if err != nil {
		return nil, fmt.Errorf("summarize %s: %w", path, err)
	}
	return h, nil
}

// fileWorkflowID names an exported history after its file.
func fileWorkflowID(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
