// Package testutil opens migrated databases for tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"blog-schema/internal/config"
	"blog-schema/internal/database"
)

// OpenSQLite returns a gorm connection to a fresh SQLite file with the blog
// schema applied.
func OpenSQLite(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := &config.Config{DatabaseURL: filepath.Join(t.TempDir(), "blog.db")}
	db, err := database.Open(cfg)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

// OpenPostgres connects to TEST_DATABASE_URL and resets its public schema.
// The test is skipped when the variable is not set.
//
// It is destructive: every table in the public schema is dropped.
func OpenPostgres(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping Postgres tests")
	}

	db, err := database.Open(&config.Config{DatabaseURL: dsn})
	if err != nil {
		t.Fatalf("connect postgres: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if err := db.Exec("DROP SCHEMA IF EXISTS public CASCADE").Error; err != nil {
		t.Fatalf("reset schema: %v", err)
	}
	if err := db.Exec("CREATE SCHEMA public").Error; err != nil {
		t.Fatalf("reset schema: %v", err)
	}
	return db
}
