package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"invoices/internal/logger"
	"invoices/internal/sheets"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the invoice list to a Google Sheet",
	Long: `Read the invoice collection and write one row per invoice to a worksheet of a
Google Sheet. The worksheet is created with a header row when missing; earlier
exported rows are replaced.

Required environment variables:
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS - Inline JSON credentials string
  GOOGLE_SHEET_URL - URL of the target spreadsheet
  GOOGLE_SHEET_WORKSHEET - Worksheet name (default: Invoices)`,
	Example: `  invoices export
  invoices export --sheet "Invoices 2024"`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().String("sheet", "", "Worksheet name (default: GOOGLE_SHEET_WORKSHEET)")
}

func runExport(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("export")

	if err := cfg.RequireSheets(); err != nil {
		return err
	}
	sheetName, _ := cmd.Flags().GetString("sheet")
	if sheetName == "" {
		sheetName = cfg.GoogleSheetWorksheet
	}

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

	service, err := sheets.NewSheetsService(ctx, cfg.GoogleSheetURL)
	if err != nil {
		return fmt.Errorf("failed to connect to Google Sheets: %w", err)
	}
	if err := service.WriteInvoices(ctx, view.Invoices, sheetName); err != nil {
		return fmt.Errorf("failed to export invoices: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d invoice(s) to worksheet %q\n", view.Count, sheetName)
	return nil
}
