package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"invoices/internal/logger"
	"invoices/internal/sample"
	"invoices/internal/sandbox"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local sandbox of the invoice service",
	Long: `Run a local invoice service speaking the same REST API as the service of
record, mounted at /invoices. It validates and stores invoices and renders them
as PDF documents.

Invoices are kept in memory unless --db (or SANDBOX_DB_PATH) names a bbolt
database file, in which case they survive restarts.`,
	Example: `  # In-memory sandbox on the default address
  invoices serve

  # Persistent sandbox with one sample invoice
  invoices serve --addr :9090 --db invoices.db --seed

  # Point the other commands at it
  invoices list --api-url http://127.0.0.1:9090/invoices`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "Listen address (default: SANDBOX_ADDR or :8080)")
	serveCmd.Flags().String("db", "", "bbolt database file (default: SANDBOX_DB_PATH, in-memory when empty)")
	serveCmd.Flags().Bool("seed", false, "Store the sample invoice on startup")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("serve")

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = cfg.SandboxAddr
	}
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		dbPath = cfg.SandboxDBPath
	}
	seed, _ := cmd.Flags().GetBool("seed")

	var store sandbox.Store = sandbox.NewMemoryStore()
	if dbPath != "" {
		boltStore, err := sandbox.OpenBoltStore(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open sandbox database: %w", err)
		}
		store = boltStore
		log.Info().Str("db", dbPath).Msg("Using persistent sandbox store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close sandbox store")
		}
	}()

	server := sandbox.NewServer(store, logger.GetLogger())
	if seed {
		id, err := server.Seed(sample.Invoice(sample.Options{}))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Seeded sample invoice %s\n", id)
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	fmt.Fprintf(cmd.OutOrStdout(), "Invoice sandbox listening on %s%s\n", addr, sandbox.BasePath)
	return server.ListenAndServe(ctx, addr)
}
