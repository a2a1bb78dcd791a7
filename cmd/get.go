package cmd

import (
	"github.com/spf13/cobra"

	"invoices/internal/logger"
)

var getCmd = &cobra.Command{
	Use:   "get [invoice-id]",
	Short: "Show a single invoice",
	Long: `Look up one invoice by its identifier and print a summary with its line
entries, or the full record with --json.`,
	Example: `  # Show an invoice
  invoices get 4f1c2a9e-6d0b-4f55-8f2e-0a7b3c9d1e22

  # Print the full JSON record
  invoices get 4f1c2a9e-6d0b-4f55-8f2e-0a7b3c9d1e22 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	log := logger.WithInvoice("get", args[0])
	if err := requireID(args[0]); err != nil {
		return handleServiceError(err, log)
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	orch, _, err := newOrchestrator(cmd)
	if err != nil {
		return handleServiceError(err, log)
	}

	view := orch.FindByID.Submit(ctx, args[0])
	if err := outcomeError(view.Status, log); err != nil {
		return err
	}

	if jsonOutput(cmd) {
		return writeJSON(cmd.OutOrStdout(), view.Invoice)
	}
	return renderInvoice(cmd.OutOrStdout(), view.Invoice)
}
