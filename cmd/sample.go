package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"invoices/internal/sample"
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Print the sample invoice text",
	Long: `Print the sample invoice as editable JSON text, a starting point for composing
a new invoice. With --with-id the legacy variant carrying an identifier is printed.`,
	Example: `  invoices sample > invoice.json`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		withID, _ := cmd.Flags().GetBool("with-id")
		if !cmd.Flags().Changed("with-id") {
			withID = cfg.SampleWithID
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), sample.JSON(sample.Options{WithID: withID}))
		return err
	},
}

func init() {
	rootCmd.AddCommand(sampleCmd)

	sampleCmd.Flags().Bool("with-id", false, "Include the legacy identifier (default: INVOICES_SAMPLE_WITH_ID)")
}
