package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"blog-schema/internal/database"
)

func AutoMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "automigrate",
		Short: "Create or update the schema straight from the models, without migration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := setup(cmd)
			if err != nil {
				return err
			}
			if err := database.AutoMigrate(db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schema migrated")
			return nil
		},
	}
}
