package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	return buildRootCommand(newCommandContext(&rootFlags{}))
}

func buildRootCommand(ctx *commandContext) *cobra.Command {
	flags := ctx.flags

	rootCmd := &cobra.Command{
		Use:           "media-catalog",
		Short:         "Catalog media files and their metadata into SQLite",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.configFile, "config", "c", "", "TOML configuration file (default $CATALOG_CONFIG)")
	pf.StringVar(&flags.envFile, "env-file", "", "Load variables from this .env file (default ./.env if present)")
	pf.StringVar(&flags.databaseDir, "database-dir", "", "Directory holding the catalog database")
	pf.StringVar(&flags.logLevel, "log-level", "", "Console log level: debug, info, warn, error")
	pf.StringVar(&flags.logFile, "log-file", "", `Rotating debug log file, or "none"`)

	rootCmd.AddCommand(newIngestCommand(ctx))
	rootCmd.AddCommand(newSchemaCommand(ctx))
	rootCmd.AddCommand(newServeCommand(ctx))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}
