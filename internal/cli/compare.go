package cli

import (
	"fmt"

	"github.com/rpggio/temporal-xray/internal/domain/diff"
	"github.com/rpggio/temporal-xray/internal/domain/history"
	"github.com/rpggio/temporal-xray/internal/report"
	"github.com/spf13/cobra"
)

var (
	compareFileA string
	compareFileB string
	compareRunA  string
	compareRunB  string
)

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().StringVar(&compareFileA, "file-a", "", "Exported history of execution A")
	compareCmd.Flags().StringVar(&compareFileB, "file-b", "", "Exported history of execution B")
	compareCmd.Flags().StringVar(&compareRunA, "run-id-a", "", "Run ID for execution A")
	compareCmd.Flags().StringVar(&compareRunB, "run-id-b", "", "Run ID for execution B")
	compareCmd.MarkFlagsRequiredTogether("file-a", "file-b")
}

var compareCmd = &cobra.Command{
	Use:   "compare [workflow-id-a workflow-id-b]",
	Short: "Find where two executions diverge",
	Long: "Compares the activity inputs and outputs, activity structure and signals of two\n" +
		"executions. Pass the succeeding execution as A and the failing one as B.",
	Args: cobra.RangeArgs(0, 2),
	RunE: runCompare,
}

func runCompare(cmd *cobra.Command, args []string) error {
	var cmp *diff.Comparison

	if compareFileA != "" {
		opts := history.Options{Fidelity: history.FidelityStandard}
		a, err := summarizeFile(compareFileA, fileWorkflowID(compareFileA), compareRunA, opts)
		if err != nil {
			return err
		}
		b, err := summarizeFile(compareFileB, fileWorkflowID(compareFileB), compareRunB, opts)
		if err != nil {
			return err
		}
		cmp = diff.Compare(a, b)
	} else {
		if len(args) != 2 {
			return fmt.Errorf("two workflow ids are required unless --file-a and --file-b are set")
		}
		l, err := openLive()
		if err != nil {
			return err
		}
		defer l.Close()

		cmp, err = l.diff.Compare(cmd.Context(), diff.CompareRequest{
			Namespace:   namespace,
			WorkflowIDA: args[0],
			RunIDA:      compareRunA,
			WorkflowIDB: args[1],
			RunIDB:      compareRunB,
		})
		if err != nil {
			return friendly(err, "")
		}
	}

	if format == report.FormatJSON {
		return report.JSON(cmd.OutOrStdout(), cmp)
	}
	report.Comparison(cmd.OutOrStdout(), cmp)
	return nil
}
