package cmd

import (
	"github.com/spf13/cobra"

	"invoices/internal/logger"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all invoices",
	Long: `Read the whole invoice collection from the service and print it as a table,
or as a JSON array with --json.`,
	Example: `  # Show all invoices
  invoices list

  # Machine-readable output
  invoices list --json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("list")

	ctx, cancel := commandContext(cmd)
	defer cancel()

	orch, _, err := newOrchestrator(cmd)
	if err != nil {
		return handleServiceError(err, log)
	}

	view := orch.List.Activate(ctx)
	if err := outcomeError(view.Load, log); err != nil {
		return err
	}

	log.Info().Int("count", view.Count).Msg("Invoices listed")

	if jsonOutput(cmd) {
		return writeJSON(cmd.OutOrStdout(), view.Invoices)
	}
	return renderInvoices(cmd.OutOrStdout(), view.Invoices)
}
