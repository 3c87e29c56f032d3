package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"blog-schema/internal/migration/generator"
)

func CreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create [name]",
		Short: "Create an empty migration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			migrationsDir, err := getMigrationsDir(cfg)
			if err != nil {
				return err
			}

			path, err := generator.NewGenerator(migrationsDir).CreateEmptyMigration(args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created migration: %s\n", path)
			return nil
		},
	}
}
