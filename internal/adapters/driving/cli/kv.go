package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/simple-storage/internal/core/domain"
)

var getJSON bool

var getCmd = &cobra.Command{
	Use:   "get <table> <key>",
	Short: "Print the value stored under a key",
	Long: `Print the value stored under a key.

Strings are printed as-is; other values are printed as JSON.
Use --json to always print JSON. A missing key is an error.`,
	Args: cobra.ExactArgs(2),
	RunE: runGet,
}

var setCmd = &cobra.Command{
	Use:   "set <table> <key> [value]",
	Short: "Store a value under a key",
	Long: `Store a value under a key.

The value is parsed as JSON; anything that is not valid JSON is stored
as a string. When the value is omitted it is read from piped stdin.

Examples:
  simplestorage set prefs theme dark
  simplestorage set prefs window '{"width": 800, "height": 600}'
  echo '[1, 2, 3]' | simplestorage set prefs recent`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runSet,
}

var hasCmd = &cobra.Command{
	Use:   "has <table> <key>",
	Short: "Report whether a key exists",
	Args:  cobra.ExactArgs(2),
	RunE:  runHas,
}

var removeCmd = &cobra.Command{
	Use:     "remove <table> <key>",
	Aliases: []string{"rm"},
	Short:   "Delete a key",
	Args:    cobra.ExactArgs(2),
	RunE:    runRemove,
}

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List storage tables",
	Args:  cobra.NoArgs,
	RunE:  runTables,
}

var keysCmd = &cobra.Command{
	Use:   "keys <table>",
	Short: "List the keys of a table",
	Args:  cobra.ExactArgs(1),
	RunE:  runKeys,
}

func init() {
	getCmd.Flags().BoolVar(&getJSON, "json", false, "print the value as JSON")
	rootCmd.AddCommand(getCmd, setCmd, hasCmd, removeCmd, tablesCmd, keysCmd)
}

func requireStorage() error {
	if storageService == nil {
		return errors.New("storage service not configured")
	}
	return nil
}

func runGet(cmd *cobra.Command, args []string) error {
	if err := requireStorage(); err != nil {
		return err
	}
	table, key := args[0], args[1]

	var raw json.RawMessage
	found, err := storageService.Lookup(cmd.Context(), table, key, &raw)
	if err != nil {
		return fmt.Errorf("get failed: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: %s[%q]", domain.ErrNotFound, table, key)
	}

	fmt.Fprintln(cmd.OutOrStdout(), formatValue(raw, getJSON))
	return nil
}

// formatValue prints strings bare unless asJSON is set.
func formatValue(raw json.RawMessage, asJSON bool) string {
	if !asJSON && len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

func runSet(cmd *cobra.Command, args []string) error {
	if err := requireStorage(); err != nil {
		return err
	}
	table, key := args[0], args[1]

	input, err := readValue(cmd, args)
	if err != nil {
		return err
	}

	added, err := storageService.Set(cmd.Context(), table, key, parseValue(input))
	if err != nil {
		return fmt.Errorf("set failed: %w", err)
	}

	if added {
		fmt.Fprintf(cmd.OutOrStdout(), "added %s[%q]\n", table, key)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "updated %s[%q]\n", table, key)
	}
	return nil
}

// readValue returns the value argument, or piped stdin when it is omitted.
func readValue(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 3 {
		return args[2], nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "", errors.New("no value given: pass it as an argument or pipe it on stdin")
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

// parseValue decodes s as JSON, falling back to the string itself.
// Numbers keep their literal form.
func parseValue(s string) any {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return s
	}
	// Trailing data means s was not a single JSON value.
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return s
	}
	return v
}

func runHas(cmd *cobra.Command, args []string) error {
	if err := requireStorage(); err != nil {
		return err
	}

	exists, err := storageService.Has(cmd.Context(), args[0], args[1])
	if err != nil {
		return fmt.Errorf("has failed: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), exists)
	return nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	if err := requireStorage(); err != nil {
		return err
	}
	table, key := args[0], args[1]

	removed, err := storageService.Remove(cmd.Context(), table, key)
	if err != nil {
		return fmt.Errorf("remove failed: %w", err)
	}

	if removed {
		fmt.Fprintf(cmd.OutOrStdout(), "removed %s[%q]\n", table, key)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "%s[%q] not found\n", table, key)
	}
	return nil
}

func runTables(cmd *cobra.Command, _ []string) error {
	if err := requireStorage(); err != nil {
		return err
	}

	tables, err := storageService.Tables(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing tables failed: %w", err)
	}
	for _, t := range tables {
		fmt.Fprintln(cmd.OutOrStdout(), t)
	}
	return nil
}

func runKeys(cmd *cobra.Command, args []string) error {
	if err := requireStorage(); err != nil {
		return err
	}

	keys, err := storageService.Keys(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("listing keys failed: %w", err)
	}
	for _, k := range keys {
		fmt.Fprintln(cmd.OutOrStdout(), k)
	}
	return nil
}
