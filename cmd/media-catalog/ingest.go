package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"media-catalog/internal/indexer"
	"media-catalog/internal/logging"
	"media-catalog/internal/startup"
)

func newIngestCommand(ctx *commandContext) *cobra.Command {
	var (
		dev     bool
		yes     bool
		profile bool
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "ingest [root]",
		Short: "Catalog every media file under root (default $MEDIA_DIR)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				ctx.flags.mediaDir = args[0]
			}
			if cmd.Flags().Changed("dev") {
				ctx.flags.devMode = &dev
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			if profile {
				stop, err := startProfile(profileFile)
				if err != nil {
					return err
				}
				defer stop()
			}

			lock, err := startup.AcquireRunLock(cfg.LockPath)
			if err != nil {
				return err
			}
			defer lock.Release()

			runCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			exclude := cfg.CatalogFiles()
			if profile {
				exclude = append(exclude, profileFile)
			}

			report, err := runIngest(runCtx, ctx, cmd, cfg, exclude, yes)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			_, err = fmt.Fprintln(out, indexer.RenderReport(report))
			return err
		},
	}

	cmd.Flags().BoolVar(&dev, "dev", false, "Drop and recreate the catalog schema before ingesting")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask before dropping the schema")
	cmd.Flags().BoolVar(&profile, "profile", false, "Write a CPU profile to "+profileFile)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the run report as JSON")

	return cmd
}

func runIngest(ctx context.Context, cc *commandContext, cmd *cobra.Command, cfg *startup.Config, exclude []string, yes bool) (indexer.Report, error) {
	db, err := openCatalog(ctx, cfg)
	if err != nil {
		return indexer.Report{}, err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Warn("failed to close database: %v", err)
		}
	}()

	if cfg.DevMode {
		ok, err := cc.confirmDrop(cmd, cfg.DatabasePath, yes)
		if err != nil {
			return indexer.Report{}, err
		}
		if !ok {
			return indexer.Report{}, errAborted
		}
		logging.Warn("Development mode: recreating catalog schema in %s", cfg.DatabasePath)
		if err := db.DropSchema(ctx); err != nil {
			return indexer.Report{}, err
		}
		if err := db.EnsureSchema(ctx); err != nil {
			return indexer.Report{}, err
		}
	}

	startup.LogProbeInit(cfg.ProbeBinary)
	startup.LogIngestStarted(cfg.MediaDir)

	idx := indexer.New(indexer.Config{
		Root:    cfg.MediaDir,
		Media:   cfg.MediaOptions(),
		Exclude: exclude,
	}, db)
	return idx.Run(ctx)
}
