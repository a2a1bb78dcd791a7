package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"invoices/internal/draft"
	"invoices/internal/logger"
)

var draftCmd = &cobra.Command{
	Use:   "draft [pdf-file]",
	Short: "Turn a scanned invoice PDF into draft invoice text using Google Document AI",
	Long: `Process a scanned invoice with Google Document AI's invoice parser and print
the recognized fields as editable invoice text. Values are copied from the
document as they are; amounts are not recomputed, so review the draft before
submitting it with 'invoices create --file'.

With --submit the draft is sent to the invoice service right away.

Required environment variables:
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS - Inline JSON credentials string
  GOOGLE_CLOUD_PROJECT - Your Google Cloud project ID
  GOOGLE_CLOUD_LOCATION - Processing location (us, eu, etc.)
  DOCUMENT_AI_PROCESSOR_ID - Your Document AI invoice processor ID`,
	Example: `  # Print a draft
  invoices draft scan.pdf

  # Save the draft and review it
  invoices draft scan.pdf -o draft.json

  # Show confidence scores and submit immediately
  invoices draft scan.pdf --confidence --submit`,
	Args: cobra.ExactArgs(1),
	RunE: runDraft,
}

func init() {
	rootCmd.AddCommand(draftCmd)

	draftCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	draftCmd.Flags().Bool("confidence", false, "Print confidence scores to stderr")
	draftCmd.Flags().Bool("submit", false, "Create the invoice from the draft")
	draftCmd.Flags().Duration("process-timeout", 60*time.Second, "Document AI processing timeout")
}

func runDraft(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("draft")

	outputPath, _ := cmd.Flags().GetString("output")
	showConfidence, _ := cmd.Flags().GetBool("confidence")
	submit, _ := cmd.Flags().GetBool("submit")
	processTimeout, _ := cmd.Flags().GetDuration("process-timeout")

	pdfPath := args[0]

	if err := cfg.RequireDocumentAI(); err != nil {
		return err
	}

	fileInfo, err := validateInputFile(pdfPath, log)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	scanner, err := draft.NewDocumentAIScanner(ctx, draft.Config{
		ProjectID:        cfg.GoogleCloudProject,
		Location:         cfg.GoogleCloudLocation,
		ProcessorID:      cfg.DocumentAIProcessorID,
		ProcessorVersion: cfg.DocumentAIProcessorVersion,
		Timeout:          processTimeout,
	})
	if err != nil {
		return handleDraftError(err, log)
	}
	defer func() {
		if closeErr := scanner.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("Failed to close Document AI client")
		}
	}()

	pdfFile, err := os.Open(pdfPath)
	if err != nil {
		return fmt.Errorf("failed to open PDF file: %w", err)
	}
	defer pdfFile.Close()

	log.Info().
		Str("file", pdfPath).
		Int64("size", fileInfo.Size()).
		Msg("Scanning invoice PDF with Document AI")

	result, err := scanner.Scan(ctx, pdfFile)
	if err != nil {
		return handleDraftError(err, log)
	}

	text, err := result.Text()
	if err != nil {
		return err
	}

	if showConfidence {
		for field, confidence := range result.Confidence {
			fmt.Fprintf(cmd.ErrOrStderr(), "%-24s %.2f\n", field, confidence)
		}
	}
	for _, skipped := range result.Skipped {
		fmt.Fprintf(cmd.ErrOrStderr(), "not read: %s\n", skipped)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, []byte(text+"\n"), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		log.Info().Str("output", outputPath).Msg("Draft written")
	} else if !submit {
		fmt.Fprintln(cmd.OutOrStdout(), text)
	}

	if !submit {
		return nil
	}

	orch, _, err := newOrchestrator(cmd)
	if err != nil {
		return handleServiceError(err, log)
	}
	view := orch.Create.Submit(ctx, text)
	fmt.Fprintf(cmd.OutOrStdout(), "status: %d\n", view.Status.Marker())
	if err := outcomeError(view.Status, log); err != nil {
		return err
	}
	if created := view.Status.Payload; created != nil && created.ID != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Created invoice %s\n", created.ID)
	}
	return nil
}
