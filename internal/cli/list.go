package cli

import (
	"github.com/rpggio/temporal-xray/internal/domain/workflow"
	"github.com/rpggio/temporal-xray/internal/report"
	"github.com/spf13/cobra"
)

var (
	listType   string
	listStatus string
	listQuery  string
	listFrom   string
	listTo     string
	listLimit  int
)

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVarP(&listType, "type", "t", "", "Filter by workflow type")
	listCmd.Flags().StringVarP(&listStatus, "status", "s", "", "Filter by status (running|completed|failed|timed_out|cancelled|terminated|all)")
	listCmd.Flags().StringVarP(&listQuery, "query", "q", "", "Raw visibility query; overrides the other filters")
	listCmd.Flags().StringVar(&listFrom, "from", "", "Only executions started after this ISO time")
	listCmd.Flags().StringVar(&listTo, "to", "", "Only executions started before this ISO time")
	listCmd.Flags().IntVarP(&listLimit, "limit", "l", workflow.DefaultListLimit, "Number of results (max 50)")
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List workflow executions",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, _ []string) error {
	l, err := openLive()
	if err != nil {
		return err
	}
	defer l.Close()

	res, err := l.workflows.List(cmd.Context(), workflow.ListRequest{
		Namespace:     namespace,
		WorkflowType:  listType,
		Status:        listStatus,
		Query:         listQuery,
		StartTimeFrom: listFrom,
		StartTimeTo:   listTo,
		Limit:         listLimit,
	})
	if err != nil {
		return friendly(err, "")
	}

	if format == report.FormatJSON {
		return report.JSON(cmd.OutOrStdout(), res)
	}
	report.Workflows(cmd.OutOrStdout(), res)
	return nil
}
