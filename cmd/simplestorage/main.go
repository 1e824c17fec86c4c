// Command simplestorage manages persistent key/value tables stored in SQLite.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/custodia-labs/simple-storage/internal/adapters/driven/config/file"
	"github.com/custodia-labs/simple-storage/internal/adapters/driven/profile"
	"github.com/custodia-labs/simple-storage/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/simple-storage/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/simple-storage/internal/adapters/driving/cli"
	"github.com/custodia-labs/simple-storage/internal/core/ports/driven"
	"github.com/custodia-labs/simple-storage/internal/core/services"
	"github.com/custodia-labs/simple-storage/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// closeTimeout bounds how long shutdown waits for pending writes.
const closeTimeout = 10 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var storage *services.StorageService

	cli.SetVersion(version)
	cli.SetInitializer(func(opts cli.GlobalOptions) error {
		configStore, err := file.NewConfigStore(opts.ConfigDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		settingsService := services.NewSettingsService(configStore)

		settings, err := settingsService.Get()
		if err != nil {
			return fmt.Errorf("reading settings: %w", err)
		}
		logger.SetVerbose(opts.Verbose || settings.Verbose)

		dataDir := opts.DataDir
		if dataDir == "" {
			dataDir = settings.DataDir
		}

		var store driven.KVStore
		if opts.Memory {
			store = memory.NewKVStore()
		} else {
			store = sqlite.NewStore(profile.New(dataDir), sqlite.WithBusyTimeout(settings.BusyTimeout))
		}
		storage = services.NewStorageService(store)

		cli.SetServices(storage, settingsService)
		cli.SetConfigWatcher(configStore.Watch)
		logger.Debug("config %s, data dir %q", configStore.Path(), dataDir)
		return nil
	})

	code := 0
	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		code = 1
	}

	if storage != nil {
		closeCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		if err := storage.Close(closeCtx); err != nil {
			logger.Error("closing storage: %v", err)
			code = 1
		}
	}

	return code
}
