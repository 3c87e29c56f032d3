package file

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"blog-schema/internal/migration"
)

// MigrationFile is a migration parsed from <version>_<name>.go
type MigrationFile struct {
	Path      string
	Version   string
	Name      string
	CreatedAt time.Time
	UpSQL     []string
	DownSQL   []string
}

// Migration turns the file into a migration that executes its statements
func (f *MigrationFile) Migration() *migration.Migration {
	return &migration.Migration{
		Version:   f.Version,
		Name:      f.Name,
		CreatedAt: f.CreatedAt,
		Up:        execStatements(f.UpSQL),
		Down:      execStatements(f.DownSQL),
	}
}

func execStatements(statements []string) func(*gorm.DB) error {
	return func(db *gorm.DB) error {
		for _, stmt := range statements {
			if err := db.Exec(stmt).Error; err != nil {
				return fmt.Errorf("failed to execute SQL: %w", err)
			}
		}
		return nil
	}
}

// MigrationTemplate defines the format for migration files
type MigrationTemplate struct {
	Version string // time layout of the version prefix
}

// MigrationLoader reads migration files from a directory
type MigrationLoader struct {
	directory string
	template  *MigrationTemplate
	debug     bool
}

// NewMigrationLoader creates a new migration loader
func NewMigrationLoader(directory string, template *MigrationTemplate) *MigrationLoader {
	if template == nil {
		template = &MigrationTemplate{
			Version: "20060102150405",
		}
	}
	return &MigrationLoader{
		directory: directory,
		template:  template,
	}
}

// SetDebug enables or disables debug output
func (l *MigrationLoader) SetDebug(debug bool) {
	l.debug = debug
}
