package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"blog-schema/internal/migration"
)

func InitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize migration tracking table in the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := setup(cmd)
			if err != nil {
				return err
			}

			migrationsDir, err := getMigrationsDir(cfg)
			if err != nil {
				return err
			}

			if err := migration.NewMigrator(db).Init(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Migration system initialized successfully in %s\n", migrationsDir)
			return nil
		},
	}
}
