package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"invoices/internal/logger"
)

var pdfCmd = &cobra.Command{
	Use:   "pdf [invoice-id]",
	Short: "Open or download the PDF rendering of an invoice",
	Long: `Open the PDF rendering of an invoice in the default browser. The document is
served by the invoice service at <api-url>/pdf/<id>.

With --output the document is downloaded to a file instead.`,
	Example: `  # Open in the browser
  invoices pdf 4f1c2a9e-6d0b-4f55-8f2e-0a7b3c9d1e22

  # Save to a file
  invoices pdf 4f1c2a9e-6d0b-4f55-8f2e-0a7b3c9d1e22 -o invoice.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runPDF,
}

func init() {
	rootCmd.AddCommand(pdfCmd)

	pdfCmd.Flags().StringP("output", "o", "", "Write the PDF to this file instead of opening it")
}

func runPDF(cmd *cobra.Command, args []string) error {
	id := args[0]
	log := logger.WithInvoice("pdf", id)
	if err := requireID(id); err != nil {
		return handleServiceError(err, log)
	}

	outputPath, _ := cmd.Flags().GetString("output")

	orch, client, err := newOrchestrator(cmd)
	if err != nil {
		return handleServiceError(err, log)
	}

	if outputPath == "" {
		if err := orch.List.ViewPDF(id); err != nil {
			return fmt.Errorf("failed to open %s: %w", client.Endpoints().PDF(id), err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Opened %s\n", client.Endpoints().PDF(id))
		return nil
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	written, err := client.DownloadPDF(ctx, id, file)
	if closeErr := file.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		if removeErr := os.Remove(outputPath); removeErr != nil {
			log.Warn().Err(removeErr).Str("file", outputPath).Msg("Failed to remove partial download")
		}
		return handleServiceError(err, log)
	}

	log.Info().Str("file", outputPath).Int64("bytes", written).Msg("Invoice PDF downloaded")
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%d bytes)\n", outputPath, written)
	return nil
}
