package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"invoices/internal/logger"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an invoice from JSON text",
	Long: `Submit invoice JSON text to the service as a new invoice. The text is read from
--file (or stdin with --file -), or the built-in sample invoice is used with --sample.

The text is sent exactly as written. The service assigns the identifier and
validates the content; its validation messages are printed when it rejects it.`,
	Example: `  # Create from a file
  invoices create --file invoice.json

  # Pipe text in
  cat invoice.json | invoices create --file -

  # Submit the sample invoice
  invoices create --sample`,
	Args: cobra.NoArgs,
	RunE: runCreate,
}

func init() {
	rootCmd.AddCommand(createCmd)

	createCmd.Flags().StringP("file", "f", "", "Read the invoice text from this file (- for stdin)")
	createCmd.Flags().Bool("sample", false, "Submit the sample invoice")
	createCmd.MarkFlagsMutuallyExclusive("file", "sample")
	createCmd.MarkFlagsOneRequired("file", "sample")
}

func runCreate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("create")

	filePath, _ := cmd.Flags().GetString("file")
	useSample, _ := cmd.Flags().GetBool("sample")

	ctx, cancel := commandContext(cmd)
	defer cancel()

	orch, _, err := newOrchestrator(cmd)
	if err != nil {
		return handleServiceError(err, log)
	}

	content := orch.Create.LoadSample().Content
	if !useSample {
		if content, err = readText(cmd, filePath, log); err != nil {
			return err
		}
	}
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("invoice text is empty")
	}

	view := orch.Create.Submit(ctx, content)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "status: %d\n", view.Status.Marker())
	if err := outcomeError(view.Status, log); err != nil {
		return err
	}

	if created := view.Status.Payload; created != nil {
		if jsonOutput(cmd) {
			return writeJSON(out, created)
		}
		if created.ID != "" {
			fmt.Fprintf(out, "Created invoice %s\n", created.ID)
		}
	}
	return nil
}
