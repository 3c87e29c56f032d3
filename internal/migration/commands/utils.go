package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"blog-schema/internal/config"
	"blog-schema/internal/database"
	"blog-schema/internal/migration"
	"blog-schema/internal/migration/file"
)

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return config.Load(cmd.Flags())
}

// setup loads the config and opens the database in one go, which is what
// most commands need.
func setup(cmd *cobra.Command) (*config.Config, *gorm.DB, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	db, err := database.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

func validateMigrationsPath(path string) (string, error) {
	cleanPath := filepath.Clean(path)

	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return "", fmt.Errorf("invalid migrations path: %w", err)
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}

	if absPath != wd && !strings.HasPrefix(absPath, wd+string(filepath.Separator)) {
		return "", fmt.Errorf("migrations path must be within working directory")
	}

	if err := os.MkdirAll(absPath, 0755); err != nil {
		return "", fmt.Errorf("migrations path is not writable: %w", err)
	}

	return absPath, nil
}

func getMigrationsDir(cfg *config.Config) (string, error) {
	dir, err := validateMigrationsPath(cfg.MigrationsPath)
	if err != nil {
		return "", fmt.Errorf("failed to validate migrations directory %s: %w", cfg.MigrationsPath, err)
	}
	return dir, nil
}

func getMigrationLoader(cfg *config.Config) (*file.MigrationLoader, error) {
	dir, err := getMigrationsDir(cfg)
	if err != nil {
		return nil, err
	}
	template := &file.MigrationTemplate{
		Version: "20060102150405",
	}
	loader := file.NewMigrationLoader(dir, template)
	loader.SetDebug(cfg.Debug)
	return loader, nil
}

// newMigrator returns a migrator that knows the compiled-in migrations and
// the files in the migrations directory.
func newMigrator(cfg *config.Config, db *gorm.DB) (*migration.Migrator, error) {
	loader, err := getMigrationLoader(cfg)
	if err != nil {
		return nil, err
	}
	migrations, err := loader.LoadMigrations()
	if err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}

	m := migration.NewMigrator(db)
	for _, mig := range migrations {
		m.Register(mig)
	}
	return m, nil
}

func newTable(w io.Writer, header ...interface{}) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row(header))
	return t
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
