package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"media-catalog/internal/database"
	"media-catalog/internal/logging"
	"media-catalog/internal/startup"
)

func newSchemaCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Manage the catalog schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "ensure",
		Short: "Create any missing catalog tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCatalog(cmd, ctx, func(db *database.Database) error {
				if err := db.EnsureSchema(cmd.Context()); err != nil {
					return err
				}
				return printTables(cmd, db)
			})
		},
	})

	var yes bool
	drop := &cobra.Command{
		Use:   "drop",
		Short: "Drop every catalog table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCatalog(cmd, ctx, func(db *database.Database) error {
				ok, err := ctx.confirmDrop(cmd, db.Path(), yes)
				if err != nil {
					return err
				}
				if !ok {
					return errAborted
				}
				if err := db.DropSchema(cmd.Context()); err != nil {
					return err
				}
				return printTables(cmd, db)
			})
		},
	}
	drop.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	cmd.AddCommand(drop)

	return cmd
}

// withCatalog opens the store under the run lock without touching the schema.
func withCatalog(cmd *cobra.Command, ctx *commandContext, fn func(*database.Database) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}

	lock, err := startup.AcquireRunLock(cfg.LockPath)
	if err != nil {
		return err
	}
	defer lock.Release()

	db, err := database.New(cmd.Context(), cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Warn("failed to close database: %v", err)
		}
	}()

	return fn(db)
}

func printTables(cmd *cobra.Command, db *database.Database) error {
	out := cmd.OutOrStdout()
	for _, table := range db.Tables() {
		exists, err := db.TableExists(cmd.Context(), table.Name)
		if err != nil {
			return err
		}
		state := "absent"
		if exists {
			state = "present"
		}
		if _, err := fmt.Fprintf(out, "%-8s %s\n", table.Name, state); err != nil {
			return err
		}
	}
	return nil
}
