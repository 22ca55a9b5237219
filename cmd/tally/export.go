// ABOUTME: Export command for generating markdown, YAML and JSON output
// ABOUTME: Writes to stdout or a file

package main

import (
	"fmt"
	"os"

	"github.com/harper/tally/internal/models"
	"github.com/harper/tally/internal/storage"
	"github.com/spf13/cobra"
)

var exportFormats = map[string]func([]models.Item) ([]byte, error){
	"markdown": storage.ExportToMarkdown,
	"yaml":     storage.ExportToYAML,
	"json":     storage.ExportToJSON,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export items in various formats",
	Long: `Export items as Markdown, YAML or JSON.

Examples:
  tally export --format markdown
  tally export --format json --output items.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		encode, ok := exportFormats[format]
		if !ok {
			return fmt.Errorf("unsupported format: %s (use 'markdown', 'yaml', or 'json')", format)
		}

		data, err := encode(sess.coord.Store().All())
		if err != nil {
			return fmt.Errorf("failed to generate %s: %w", format, err)
		}

		output, _ := cmd.Flags().GetString("output")
		if output != "" {
			if err := os.WriteFile(output, data, 0644); err != nil { //nolint:gosec // 0644 is intentional for data export files
				return fmt.Errorf("failed to write file: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s to %s\n", format, output)
			return nil
		}

		_, _ = cmd.OutOrStdout().Write(data)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("format", "f", "markdown", "output format (markdown, yaml, json)")
	exportCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")

	rootCmd.AddCommand(exportCmd)
}
