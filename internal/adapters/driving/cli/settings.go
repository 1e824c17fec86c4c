package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/simple-storage/internal/core/services"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change settings stored in config.toml.

Settings:
  storage.data_dir          directory holding simple_storage.sqlite
  storage.busy_timeout_ms   how long SQLite waits on a locked database
  log.verbose               enable debug logging
  mcp.requests_per_second   MCP tool-call rate
  mcp.burst                 MCP tool-call burst`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	dataDir := settings.DataDir
	if dataDir == "" {
		dataDir = "(default)"
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Current Settings")
	fmt.Fprintln(out, "================")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "[Storage]")
	fmt.Fprintf(out, "  Data directory: %s\n", dataDir)
	fmt.Fprintf(out, "  Busy timeout: %s\n", settings.BusyTimeout)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "[Log]")
	fmt.Fprintf(out, "  Verbose: %t\n", settings.Verbose)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "[MCP]")
	fmt.Fprintf(out, "  Requests per second: %g\n", settings.MCP.RequestsPerSecond)
	fmt.Fprintf(out, "  Burst: %d\n", settings.MCP.Burst)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Config file: %s\n", settingsService.ConfigPath())
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("%w (valid keys: %v)", err, services.SettingKeys)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], args[1])
	return nil
}
