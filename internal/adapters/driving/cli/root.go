// Package cli provides the simplestorage command tree.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/simple-storage/internal/core/ports/driving"
	"github.com/custodia-labs/simple-storage/internal/logger"
)

// version is set at build time.
var version = "dev"

// Services used by the commands. Set by SetServices or the initializer.
var (
	storageService  driving.StorageService
	settingsService driving.SettingsService
)

// GlobalOptions holds the persistent flags shared by every command.
type GlobalOptions struct {
	Verbose   bool
	Memory    bool
	DataDir   string
	ConfigDir string
}

// Initializer builds the services once flags are parsed.
type Initializer func(opts GlobalOptions) error

// ConfigWatcher watches the configuration until ctx is done and calls
// onChange after every reload.
type ConfigWatcher func(ctx context.Context, onChange func()) error

var (
	globalOpts    GlobalOptions
	initializer   Initializer
	configWatcher ConfigWatcher
)

var rootCmd = &cobra.Command{
	Use:   "simplestorage",
	Short: "Persistent key/value tables backed by SQLite",
	Long: `simplestorage stores JSON values under string keys in named tables.

All tables live in a single SQLite file in the private data directory.
Tables are created on first use.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if globalOpts.Verbose {
			logger.SetVerbose(true)
		}
		if initializer == nil {
			return nil
		}
		return initializer(globalOpts)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&globalOpts.Verbose, "verbose", "v", false, "enable debug logging")
	flags.BoolVar(&globalOpts.Memory, "memory", false, "keep tables in memory for this run only")
	flags.StringVar(&globalOpts.DataDir, "data-dir", "", "directory holding simple_storage.sqlite")
	flags.StringVar(&globalOpts.ConfigDir, "config-dir", "", "directory holding config.toml (default ~/.simplestorage)")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetServices injects the services used by the commands.
func SetServices(storage driving.StorageService, settings driving.SettingsService) {
	storageService = storage
	settingsService = settings
}

// SetInitializer installs the function that builds services from flags.
func SetInitializer(fn Initializer) {
	initializer = fn
}

// SetConfigWatcher installs the watcher used by long-running commands.
func SetConfigWatcher(w ConfigWatcher) {
	configWatcher = w
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// watchConfig starts the config watcher, if any, calling apply on change.
func watchConfig(ctx context.Context, apply func()) {
	if configWatcher == nil {
		return
	}
	if err := configWatcher(ctx, apply); err != nil {
		logger.Warn("config changes will not be applied: %v", err)
	}
}

// applyLogSettings re-reads settings and applies the verbose flag.
func applyLogSettings() {
	if settingsService == nil {
		return
	}
	settings, err := settingsService.Get()
	if err != nil {
		logger.Warn("reading settings: %v", err)
		return
	}
	logger.SetVerbose(globalOpts.Verbose || settings.Verbose)
}
