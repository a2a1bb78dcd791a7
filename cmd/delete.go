package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"invoices/internal/logger"
)

var deleteCmd = &cobra.Command{
	Use:     "delete [invoice-id]",
	Aliases: []string{"rm"},
	Short:   "Delete an invoice and show the remaining list",
	Long: `Delete one invoice. Once the service confirms the removal the collection is
read again and printed; when the delete fails the list is not read.`,
	Example: `  invoices delete 4f1c2a9e-6d0b-4f55-8f2e-0a7b3c9d1e22`,
	Args:    cobra.ExactArgs(1),
	RunE:    runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	id := args[0]
	log := logger.WithInvoice("delete", id)
	if err := requireID(id); err != nil {
		return handleServiceError(err, log)
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	orch, _, err := newOrchestrator(cmd)
	if err != nil {
		return handleServiceError(err, log)
	}

	view := orch.List.Remove(ctx, id)
	if err := outcomeError(view.Removal, log); err != nil {
		return err
	}
	if err := outcomeError(view.Load, log); err != nil {
		return fmt.Errorf("invoice %s was deleted but the list could not be read: %w", id, err)
	}

	if jsonOutput(cmd) {
		return writeJSON(cmd.OutOrStdout(), view.Invoices)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted invoice %s\n\n", id)
	return renderInvoices(cmd.OutOrStdout(), view.Invoices)
}
