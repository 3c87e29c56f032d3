package diff_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"blog-schema/internal/config"
	"blog-schema/internal/database"
	"blog-schema/internal/migration/diff"
	"blog-schema/internal/models"
	"blog-schema/internal/schema"
)

func openEmpty(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(&config.Config{DatabaseURL: filepath.Join(t.TempDir(), "diff.db")})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func loadSchema(t *testing.T) *schema.Schema {
	t.Helper()
	sch, err := schema.Load(models.All()...)
	require.NoError(t, err)
	return sch
}

func tableNames(tables []*schema.Table) []string {
	var names []string
	for _, table := range tables {
		names = append(names, table.TableName())
	}
	return names
}

func TestCompare_EmptyDatabase(t *testing.T) {
	db := openEmpty(t)

	d, err := diff.Compare(db, loadSchema(t))
	require.NoError(t, err)

	require.Len(t, d.TablesToCreate, 5)
	names := tableNames(d.TablesToCreate)
	assert.Equal(t, "users", names[0])
	assert.Equal(t, "posts_categories", names[4])
	assert.Empty(t, d.TablesToModify)
	assert.Empty(t, d.ExtraTables)
	// enums only exist on postgres
	assert.Empty(t, d.EnumsToCreate)
	assert.False(t, d.IsEmpty())
}

func TestCompare_AfterAutoMigrate(t *testing.T) {
	db := openEmpty(t)
	require.NoError(t, database.AutoMigrate(db))

	d, err := diff.Compare(db, loadSchema(t))
	require.NoError(t, err)
	assert.True(t, d.IsEmpty(), "unexpected diff: %+v", d)
	assert.Empty(t, d.ExtraTables)
}

func TestCompare_MissingPieces(t *testing.T) {
	db := openEmpty(t)
	require.NoError(t, database.AutoMigrate(db))
	require.NoError(t, db.Migrator().DropIndex("users", "email_index"))
	require.NoError(t, db.Exec("CREATE TABLE legacy (id INTEGER PRIMARY KEY)").Error)

	d, err := diff.Compare(db, loadSchema(t))
	require.NoError(t, err)

	assert.Empty(t, d.TablesToCreate)
	require.Len(t, d.TablesToModify, 1)
	users := d.TablesToModify[0]
	assert.Equal(t, "users", users.Table.TableName())
	require.Len(t, users.IndexesToAdd, 1)
	assert.Equal(t, "email_index", users.IndexesToAdd[0].Name)
	assert.Empty(t, users.ColumnsToAdd)
	assert.Empty(t, users.UniquesToAdd)

	assert.Equal(t, []string{"legacy"}, d.ExtraTables)
}

func TestCompare_MissingColumn(t *testing.T) {
	db := openEmpty(t)
	require.NoError(t, db.Exec(`CREATE TABLE categories (id uuid PRIMARY KEY)`).Error)

	d, err := diff.Compare(db, loadSchema(t))
	require.NoError(t, err)

	assert.NotContains(t, tableNames(d.TablesToCreate), "categories")
	require.Len(t, d.TablesToModify, 1)
	categories := d.TablesToModify[0]
	require.Len(t, categories.ColumnsToAdd, 1)
	assert.Equal(t, "name", categories.ColumnsToAdd[0].DBName)
}

func TestFull(t *testing.T) {
	d, err := diff.Full(loadSchema(t))
	require.NoError(t, err)

	require.Len(t, d.EnumsToCreate, 1)
	assert.Equal(t, "user_role", d.EnumsToCreate[0].Name)
	assert.Len(t, d.TablesToCreate, 5)
	assert.Empty(t, d.TablesToModify)
}
