package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"blog-schema/internal/migration"
)

func DownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Revert the last migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := setup(cmd)
			if err != nil {
				return err
			}
			m, err := newMigrator(cfg, db)
			if err != nil {
				return err
			}

			reverted, err := m.Down()
			if errors.Is(err, migration.ErrNoAppliedMigrations) {
				fmt.Fprintln(cmd.OutOrStdout(), "No migrations to revert")
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Successfully reverted migration: %s (%s)\n", reverted.Name, reverted.Version)
			return nil
		},
	}
}
