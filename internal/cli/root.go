package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/rpggio/temporal-xray/internal/mcp"
	"github.com/rpggio/temporal-xray/internal/report"
	"github.com/spf13/cobra"
)

var (
	outputFormat string
	namespace    string
	address      string
	noColor      bool

	format report.Format
)

var rootCmd = &cobra.Command{
	Use:   "xray",
	Short: "Inspect and compare Temporal workflow executions",
	Long: "Summarizes Temporal workflow histories into activity timelines and finds where two\n" +
		"executions diverge. Works against a live server or histories exported with\n" +
		"`temporal workflow show -o json`.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		f, err := report.ParseFormat(outputFormat)
		if err != nil {
			return err
		}
		format = f
		report.SetColor(!noColor && isatty.IsTerminal(os.Stdout.Fd()))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "text", "Output format (text|json)")
	rootCmd.PersistentFlags().StringVarP(&namespace, "namespace", "n", "", "Temporal namespace (defaults to TEMPORAL_NAMESPACE)")
	rootCmd.PersistentFlags().StringVar(&address, "address", "", "Temporal frontend address (defaults to TEMPORAL_ADDRESS)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// friendly replaces fetch errors with the message an operator can act on.
func friendly(err error, workflowID string) error {
	if apiErr := mcp.MapError(err, workflowID); apiErr != nil {
		return errors.New(apiErr.Message)
	}
	return err
}
