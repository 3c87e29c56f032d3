package file_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"blog-schema/internal/config"
	"blog-schema/internal/database"
	"blog-schema/internal/migration"
	"blog-schema/internal/migration/file"
)

const migrationSource = `package migrations

import (
	"time"

	"gorm.io/gorm"

	"blog-schema/internal/migration"
)

func init() {
	migration.RegisterMigration(&migration.Migration{
		Version:   "%[1]s",
		Name:      "%[2]s",
		CreatedAt: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC),
		Up: func(db *gorm.DB) error {
			if err := db.Exec(` + "`" + `CREATE TABLE "%[3]s" (
	"id" integer PRIMARY KEY,
	"title" text NOT NULL
);` + "`" + `).Error; err != nil {
				return err
			}
			if err := db.Exec(` + "`" + `CREATE INDEX "%[3]s_title" ON "%[3]s" ("title");` + "`" + `).Error; err != nil {
				return err
			}
			return nil
		},
		Down: func(db *gorm.DB) error {
			if err := db.Exec(` + "`" + `DROP TABLE IF EXISTS "%[3]s";` + "`" + `).Error; err != nil {
				return err
			}
			return nil
		},
	})
}
`

func writeMigration(t *testing.T, dir, version, name, table string) string {
	t.Helper()
	path := filepath.Join(dir, version+"_"+name+".go")
	src := []byte(fmt.Sprintf(migrationSource, version, name, table))
	require.NoError(t, os.WriteFile(path, src, 0644))
	return path
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := writeMigration(t, dir, "20240315120000", "create_notes", "notes")

	f, err := file.NewMigrationLoader(dir, nil).ParseFile(path)
	require.NoError(t, err)

	assert.Equal(t, "20240315120000", f.Version)
	assert.Equal(t, "create_notes", f.Name)
	assert.Equal(t, time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC), f.CreatedAt)
	require.Len(t, f.UpSQL, 2)
	assert.Equal(t, "CREATE TABLE \"notes\" (\n\t\"id\" integer PRIMARY KEY,\n\t\"title\" text NOT NULL\n);", f.UpSQL[0])
	assert.Equal(t, `CREATE INDEX "notes_title" ON "notes" ("title");`, f.UpSQL[1])
	assert.Equal(t, []string{`DROP TABLE IF EXISTS "notes";`}, f.DownSQL)
}

func TestParseFile_VersionLayout(t *testing.T) {
	dir := t.TempDir()
	path := writeMigration(t, dir, "20240315", "create_notes", "notes")

	_, err := file.NewMigrationLoader(dir, nil).ParseFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid migration version")

	f, err := file.NewMigrationLoader(dir, &file.MigrationTemplate{Version: "20060102"}).ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "20240315", f.Version)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), f.CreatedAt)
}

func TestParseFile_InvalidName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.go")
	require.NoError(t, os.WriteFile(path, []byte("package migrations\n"), 0644))

	_, err := file.NewMigrationLoader(dir, nil).ParseFile(path)
	assert.Error(t, err)

	path = filepath.Join(dir, "yesterday_notes.go")
	require.NoError(t, os.WriteFile(path, []byte("package migrations\n"), 0644))
	_, err = file.NewMigrationLoader(dir, nil).ParseFile(path)
	assert.Error(t, err)
}

func TestLoadMigrations(t *testing.T) {
	migration.ResetMigrations()
	t.Cleanup(migration.ResetMigrations)

	dir := t.TempDir()
	writeMigration(t, dir, "20240316000000", "create_tags", "tags")
	writeMigration(t, dir, "20240315000000", "create_notes", "notes")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("migrations"), 0644))

	loader := file.NewMigrationLoader(dir, nil)
	migrations, err := loader.LoadMigrations()
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Equal(t, "create_notes", migrations[0].Name)
	assert.Equal(t, "create_tags", migrations[1].Name)

	db, err := database.Open(&config.Config{DatabaseURL: filepath.Join(t.TempDir(), "loader.db")})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	m := migration.NewMigrator(db)
	for _, mig := range migrations {
		m.Register(mig)
	}
	_, err = m.Up()
	require.NoError(t, err)
	assert.True(t, db.Migrator().HasTable("notes"))
	assert.True(t, db.Migrator().HasIndex("notes", "notes_title"))
	assert.True(t, db.Migrator().HasTable("tags"))

	_, err = m.Down()
	require.NoError(t, err)
	assert.False(t, db.Migrator().HasTable("tags"))
}

func TestLoadMigrations_PrefersRegistered(t *testing.T) {
	migration.ResetMigrations()
	t.Cleanup(migration.ResetMigrations)

	called := false
	migration.RegisterMigration(&migration.Migration{
		Version: "20240315000000",
		Name:    "create_notes",
		Up: func(*gorm.DB) error {
			called = true
			return nil
		},
	})

	dir := t.TempDir()
	writeMigration(t, dir, "20240315000000", "create_notes", "notes")

	migrations, err := file.NewMigrationLoader(dir, nil).LoadMigrations()
	require.NoError(t, err)
	require.Len(t, migrations, 1)
	require.NoError(t, migrations[0].Up(nil))
	assert.True(t, called)
}

func TestLoadFiles_Duplicates(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "20240315000000", "create_notes", "notes")
	writeMigration(t, dir, "20240315000000", "create_tags", "tags")

	_, err := file.NewMigrationLoader(dir, nil).LoadFiles()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate migration version")
}

func TestLoadFiles_MissingDirectory(t *testing.T) {
	files, err := file.NewMigrationLoader(filepath.Join(t.TempDir(), "missing"), nil).LoadFiles()
	require.NoError(t, err)
	assert.Empty(t, files)
}
