package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"blog-schema/internal/models"
	"blog-schema/internal/schema"
)

// AutoMigrate creates or updates the blog tables with gorm's migrator. On
// Postgres the enum types have to exist before the tables that use them.
func AutoMigrate(db *gorm.DB) error {
	sch, err := schema.Load(models.All()...)
	if err != nil {
		return err
	}

	if Dialect(db) == DialectPostgres {
		for _, enum := range sch.Enums {
			if err := db.Exec(CreateEnumIfMissingSQL(enum)).Error; err != nil {
				return fmt.Errorf("failed to create enum %s: %w", enum.Name, err)
			}
		}
	}

	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate models: %w", err)
	}
	return nil
}

// CreateEnumIfMissingSQL renders an idempotent CREATE TYPE for Postgres.
func CreateEnumIfMissingSQL(enum *schema.Enum) string {
	values := make([]string, len(enum.Values))
	for i, v := range enum.Values {
		values[i] = "'" + strings.ReplaceAll(v, "'", "''") + "'"
	}
	return fmt.Sprintf(`DO $$ BEGIN
	CREATE TYPE %q AS ENUM (%s);
EXCEPTION
	WHEN duplicate_object THEN null;
END $$;`, enum.Name, strings.Join(values, ", "))
}
