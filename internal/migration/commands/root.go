// Package commands implements the blog-schema command line.
package commands

import (
	"github.com/spf13/cobra"

	"blog-schema/internal/config"
)

// NewRootCmd returns the blog-schema command with every subcommand attached
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "blog-schema",
		Short:         "Blog schema, migrations and queries",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "YAML config file (default blog-schema.yaml if present, env BLOG_CONFIG)")
	flags.String("database-url", "", "Database URL, postgres://... or a SQLite file (env DATABASE_URL)")
	flags.String("migrations-path", config.DefaultMigrationsPath, "Directory holding migration files (env MIGRATIONS_PATH)")
	flags.String("models-path", config.DefaultModelsPath, "Directory holding the GORM models (env GORM_MODELS_PATH)")
	flags.Bool("debug", false, "Log SQL and loader details")

	rootCmd.AddCommand(
		InitCmd(),
		CreateCmd(),
		GenerateCmd(),
		UpCmd(),
		DownCmd(),
		StatusCmd(),
		HistoryCmd(),
		ValidateCmd(),
		GenerateRegistryCmd(),
		AutoMigrateCmd(),
		DescribeCmd(),
		SeedCmd(),
		RenameUserCmd(),
		ListUsersCmd(),
	)
	return rootCmd
}
