package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"golang.org/x/term"

	"media-catalog/internal/database"
	"media-catalog/internal/filesystem"
	"media-catalog/internal/logging"
	"media-catalog/internal/memory"
	"media-catalog/internal/metrics"
	"media-catalog/internal/startup"
)

type rootFlags struct {
	configFile  string
	envFile     string
	mediaDir    string
	databaseDir string
	logLevel    string
	logFile     string
	devMode     *bool
}

type commandContext struct {
	flags *rootFlags

	// stdinIsTerminal is replaced in tests.
	stdinIsTerminal func() bool

	configOnce sync.Once
	config     *startup.Config
	configErr  error
}

func newCommandContext(flags *rootFlags) *commandContext {
	return &commandContext{
		flags: flags,
		stdinIsTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	}
}

// ensureConfig loads configuration once and wires logging and metrics
// from it.
func (c *commandContext) ensureConfig() (*startup.Config, error) {
	c.configOnce.Do(func() {
		cfg, err := startup.LoadConfig(startup.Overrides{
			ConfigFile:  c.flags.configFile,
			EnvFile:     c.flags.envFile,
			MediaDir:    c.flags.mediaDir,
			DatabaseDir: c.flags.databaseDir,
			LogLevel:    c.flags.logLevel,
			LogFile:     c.flags.logFile,
			DevMode:     c.flags.devMode,
		})
		if err != nil {
			c.configErr = fmt.Errorf("configuration error: %w", err)
			return
		}

		if err := logging.Configure(cfg.LoggingOptions()); err != nil {
			c.configErr = err
			return
		}

		memory.Apply(cfg.MemorySettings())
		metrics.InitializeMetrics()
		metrics.AppInfo.WithLabelValues(startup.Version, startup.Commit, runtime.Version()).Set(1)
		filesystem.SetObserver(metrics.NewFilesystemObserver())

		startup.LogConfig(cfg)
		c.config = cfg
	})
	return c.config, c.configErr
}

// openCatalog opens the store and makes sure the schema exists.
func openCatalog(ctx context.Context, cfg *startup.Config) (*database.Database, error) {
	start := time.Now()

	db, err := database.New(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	startup.LogDatabaseInit(time.Since(start))
	return db, nil
}
