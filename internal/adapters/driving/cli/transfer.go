package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export <table>",
	Short: "Print every record of a table",
	Long: `Print every record of a table as a key/value document.

The output can be fed back to import, into the same or another table.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <table> [file]",
	Short: "Store every key of a YAML or JSON document",
	Long: `Store every top-level key of a YAML or JSON mapping in a table.

Existing keys are overwritten. When the file is omitted the document
is read from stdin.

Examples:
  simplestorage export prefs > prefs.yaml
  simplestorage import prefs-copy prefs.yaml`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runImport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "yaml", "output format (yaml or json)")
	rootCmd.AddCommand(exportCmd, importCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	if err := requireStorage(); err != nil {
		return err
	}
	table := args[0]

	keys, err := storageService.Keys(cmd.Context(), table)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	records := make(map[string]any, len(keys))
	for _, key := range keys {
		var value any
		if _, err := storageService.Lookup(cmd.Context(), table, key, &value); err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		records[key] = value
	}

	out := cmd.OutOrStdout()
	switch exportFormat {
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(out)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	default:
		return fmt.Errorf("unknown format %q (want yaml or json)", exportFormat)
	}
}

func runImport(cmd *cobra.Command, args []string) error {
	if err := requireStorage(); err != nil {
		return err
	}
	table := args[0]

	data, err := readDocument(cmd, args)
	if err != nil {
		return err
	}

	var records map[string]any
	if err := yaml.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("parsing document: %w", err)
	}

	keys := make([]string, 0, len(records))
	for key := range records {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if _, err := storageService.Set(cmd.Context(), table, key, records[key]); err != nil {
			return fmt.Errorf("import failed at %q: %w", key, err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "imported %d keys into %s\n", len(keys), table)
	return nil
}

// readDocument reads the file argument, or stdin when it is omitted.
func readDocument(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 2 {
		data, err := os.ReadFile(args[1])
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", args[1], err)
		}
		return data, nil
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	return data, nil
}
