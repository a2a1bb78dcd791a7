package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"invoices/internal/logger"
	"invoices/internal/orchestrator"
)

var editCmd = &cobra.Command{
	Use:   "edit [invoice-id]",
	Short: "Edit an invoice as JSON text",
	Long: `Fetch an invoice as editable JSON text and send the edited text back to the
service. The text is sent exactly as written; the service decides whether it is
valid and its validation messages are printed when it is not.

Without --file or --editor the editable text is printed, ready to be saved,
changed and passed back with --file. Both the fetch and the update status
markers are printed (200 after success, 400 after a rejection, 0 otherwise).`,
	Example: `  # Print the editable text
  invoices edit 4f1c2a9e-6d0b-4f55-8f2e-0a7b3c9d1e22 > invoice.json

  # Send edited text back
  invoices edit 4f1c2a9e-6d0b-4f55-8f2e-0a7b3c9d1e22 --file invoice.json

  # Edit interactively with $EDITOR
  invoices edit 4f1c2a9e-6d0b-4f55-8f2e-0a7b3c9d1e22 --editor`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)

	editCmd.Flags().StringP("file", "f", "", "Read the new invoice text from this file (- for stdin)")
	editCmd.Flags().BoolP("editor", "e", false, "Open the invoice in $EDITOR and commit the result")
	editCmd.MarkFlagsMutuallyExclusive("file", "editor")
}

func runEdit(cmd *cobra.Command, args []string) error {
	id := args[0]
	log := logger.WithInvoice("edit", id)
	if err := requireID(id); err != nil {
		return handleServiceError(err, log)
	}

	filePath, _ := cmd.Flags().GetString("file")
	useEditor, _ := cmd.Flags().GetBool("editor")

	ctx, cancel := commandContext(cmd)
	defer cancel()

	orch, _, err := newOrchestrator(cmd)
	if err != nil {
		return handleServiceError(err, log)
	}
	out := cmd.OutOrStdout()

	if filePath != "" {
		text, err := readText(cmd, filePath, log)
		if err != nil {
			return err
		}
		view := orch.Update.Commit(ctx, id, text)
		return reportUpdate(out, view, log)
	}

	view := orch.Update.Fetch(ctx, id)
	if !useEditor {
		if err := outcomeError(view.Find, log); err != nil {
			return err
		}
		_, err := fmt.Fprintln(out, view.Text)
		return err
	}

	if err := outcomeError(view.Find, log); err != nil {
		fmt.Fprintf(out, "find: %d\n", view.Find.Marker())
		return err
	}

	edited, err := editInEditor(view.Text, log)
	if err != nil {
		return err
	}
	if edited == view.Text {
		fmt.Fprintf(out, "find: %d\n", view.Find.Marker())
		fmt.Fprintln(out, "No changes made")
		return nil
	}

	view = orch.Update.Commit(ctx, id, edited)
	return reportUpdate(out, view, log)
}

func reportUpdate(out io.Writer, view orchestrator.UpdateView, log zerolog.Logger) error {
	fmt.Fprintf(out, "find: %d\n", view.Find.Marker())
	fmt.Fprintf(out, "update: %d\n", view.Update.Marker())
	return outcomeError(view.Update, log)
}

// readText reads invoice text from path, or from stdin when path is "-".
func readText(cmd *cobra.Command, path string, log zerolog.Logger) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	if _, err := validateInputFile(path, log); err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// editInEditor writes text to a temporary file, opens it in $VISUAL or $EDITOR and
// returns the saved content.
func editInEditor(text string, log zerolog.Logger) (string, error) {
	editor := strings.TrimSpace(os.Getenv("VISUAL"))
	if editor == "" {
		editor = strings.TrimSpace(os.Getenv("EDITOR"))
	}
	if editor == "" {
		editor = "vi"
	}

	file, err := os.CreateTemp("", "invoice-*.json")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}
	path := file.Name()
	defer func() {
		if err := os.Remove(path); err != nil {
			log.Warn().Err(err).Str("file", path).Msg("Failed to remove temporary file")
		}
	}()

	if _, err := file.WriteString(text); err != nil {
		file.Close()
		return "", fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to write temporary file: %w", err)
	}

	parts := strings.Fields(editor)
	editorCmd := exec.Command(parts[0], append(parts[1:], path)...)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	log.Debug().Str("editor", editor).Str("file", path).Msg("Opening editor")
	if err := editorCmd.Run(); err != nil {
		return "", fmt.Errorf("editor %q failed: %w", editor, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read edited file: %w", err)
	}
	return string(bytes.TrimRight(data, "\n")), nil
}
