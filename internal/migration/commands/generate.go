package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"blog-schema/internal/migration/diff"
	"blog-schema/internal/migration/generator"
	"blog-schema/internal/models"
	"blog-schema/internal/schema"
)

func GenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [name]",
		Short: "Generate a migration from model changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			out := cmd.OutOrStdout()

			cfg, db, err := setup(cmd)
			if err != nil {
				return err
			}

			sch, err := schema.Load(models.All()...)
			if err != nil {
				return fmt.Errorf("failed to parse models: %w", err)
			}

			var changes *diff.SchemaDiff
			if full, _ := cmd.Flags().GetBool("full"); full {
				changes, err = diff.Full(sch)
			} else {
				changes, err = diff.Compare(db, sch)
			}
			if err != nil {
				return fmt.Errorf("failed to compare schemas: %w", err)
			}

			for _, table := range changes.ExtraTables {
				fmt.Fprintf(out, "Warning: table %s is not declared by any model\n", table)
			}

			migrationsDir, err := getMigrationsDir(cfg)
			if err != nil {
				return err
			}

			gen := generator.NewGenerator(migrationsDir)
			gen.SetSchemaDiff(changes)

			path, err := gen.CreateMigration(name)
			if errors.Is(err, generator.ErrNoChanges) {
				fmt.Fprintln(out, "No schema changes detected")
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to generate migration: %w", err)
			}

			fmt.Fprintf(out, "Generated migration: %s\n", path)
			return nil
		},
	}

	cmd.Flags().Bool("full", false, "Generate the whole schema instead of the difference with the database")

	return cmd
}
