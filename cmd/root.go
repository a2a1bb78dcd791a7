package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"invoices/internal/api"
	"invoices/internal/config"
	"invoices/internal/logger"
	"invoices/internal/orchestrator"
)

var version = "1.0.0"

// cfg is the configuration loaded by main before the command tree runs.
var cfg = config.Default()

var rootCmd = &cobra.Command{
	Use:   "invoices",
	Short: "Invoices CLI - list, inspect, edit and create invoices on an invoice service",
	Long: `Invoices CLI works with a REST invoice service. It lists invoices, shows and
deletes single invoices, opens or downloads their PDF rendering, edits an invoice
as JSON text and creates new invoices from JSON text or the built-in sample.

It can also run a local sandbox of the invoice service, turn scanned invoices
into drafts with Google Document AI and export the invoice list to Google Sheets.

The service address comes from --api-url or INVOICES_API_URL and defaults to
` + config.DefaultAPIURL + `.`,
	Version:      version,
	SilenceUsage: true,
}

// Execute runs the command tree with the given configuration.
func Execute(c *config.Config) {
	log := logger.WithComponent("cmd")

	if c != nil {
		cfg = c
	}

	if err := rootCmd.Execute(); err != nil {
		log.Debug().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("api-url", "", "Invoice collection URL (default: INVOICES_API_URL or "+config.DefaultAPIURL+")")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Per-request timeout, e.g. 10s (default: INVOICES_HTTP_TIMEOUT, none)")
	rootCmd.PersistentFlags().Bool("json", false, "Print machine-readable JSON instead of text")
}

// newClient builds the invoice service client from configuration and global flags.
func newClient(cmd *cobra.Command) (*api.Client, error) {
	baseURL := cfg.APIURL
	if flag, _ := cmd.Flags().GetString("api-url"); flag != "" {
		baseURL = flag
	}

	timeout := cfg.HTTPTimeout
	if cmd.Flags().Changed("timeout") {
		timeout, _ = cmd.Flags().GetDuration("timeout")
	}

	clientLogger := logger.GetLogger()
	client, err := api.NewClient(api.ClientConfig{
		BaseURL:        baseURL,
		Timeout:        timeout,
		StrictDecoding: cfg.StrictDecoding,
		Logger:         &clientLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create invoice client: %w", err)
	}
	return client, nil
}

// newOrchestrator builds the handlers on top of a fresh client.
func newOrchestrator(cmd *cobra.Command, opts ...orchestrator.Option) (*orchestrator.Orchestrator, *api.Client, error) {
	client, err := newClient(cmd)
	if err != nil {
		return nil, nil, err
	}

	base := []orchestrator.Option{
		orchestrator.WithLogger(logger.GetLogger()),
		orchestrator.WithSampleID(cfg.SampleWithID),
	}
	if cfg.RequestFencing {
		base = append(base, orchestrator.WithRequestFencing())
	}
	return orchestrator.New(client, append(base, opts...)...), client, nil
}

// commandContext returns a context canceled on interrupt or termination.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}

func jsonOutput(cmd *cobra.Command) bool {
	b, _ := cmd.Flags().GetBool("json")
	return b
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
