// Package diff compares the declared schema with a live database.
package diff

import (
	"fmt"
	"sort"

	"gorm.io/gorm"

	"blog-schema/internal/migration"
	"blog-schema/internal/schema"
)

// SchemaComparer inspects a database through gorm's migrator
type SchemaComparer struct {
	db *gorm.DB
}

func NewSchemaComparer(db *gorm.DB) *SchemaComparer {
	return &SchemaComparer{db: db}
}

// Compare is a shorthand for NewSchemaComparer(db).Compare(sch).
func Compare(db *gorm.DB, sch *schema.Schema) (*SchemaDiff, error) {
	return NewSchemaComparer(db).Compare(sch)
}

// Compare reports the enums, tables, columns, indexes, unique constraints
// and foreign keys of sch that are missing from the database. Tables are
// returned in foreign key order.
func (c *SchemaComparer) Compare(sch *schema.Schema) (*SchemaDiff, error) {
	tables, err := sch.SortedTables()
	if err != nil {
		return nil, err
	}

	d := &SchemaDiff{}
	if c.db.Dialector.Name() == "postgres" {
		for _, enum := range sch.Enums {
			ok, err := c.hasEnum(enum.Name)
			if err != nil {
				return nil, err
			}
			if !ok {
				d.EnumsToCreate = append(d.EnumsToCreate, enum)
			}
		}
	}

	m := c.db.Migrator()
	for _, table := range tables {
		if !m.HasTable(table.TableName()) {
			d.TablesToCreate = append(d.TablesToCreate, table)
			continue
		}
		td := c.compareTable(table)
		if !td.IsEmpty() {
			d.TablesToModify = append(d.TablesToModify, td)
		}
	}

	existing, err := m.GetTables()
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	for _, name := range existing {
		if _, ok := sch.Table(name); ok || name == (migration.MigrationRecord{}).TableName() {
			continue
		}
		d.ExtraTables = append(d.ExtraTables, name)
	}
	sort.Strings(d.ExtraTables)

	return d, nil
}

func (c *SchemaComparer) compareTable(table *schema.Table) *TableDiff {
	m := c.db.Migrator()
	name := table.TableName()
	td := &TableDiff{Table: table}

	for _, col := range table.Columns {
		if !m.HasColumn(name, col.DBName) {
			td.ColumnsToAdd = append(td.ColumnsToAdd, col)
		}
	}
	for _, idx := range table.Indexes {
		if !m.HasIndex(name, idx.Name) {
			td.IndexesToAdd = append(td.IndexesToAdd, idx)
		}
	}
	for _, u := range table.Uniques {
		if !c.hasUnique(table, u) {
			td.UniquesToAdd = append(td.UniquesToAdd, u)
		}
	}
	for _, fk := range table.ForeignKeys {
		if !m.HasConstraint(name, fk.Name) {
			td.ForeignKeysToAdd = append(td.ForeignKeysToAdd, fk)
		}
	}
	return td
}

// hasUnique looks for the constraint by name first. Single column uniques
// created inline by AutoMigrate get a name chosen by the database, so those
// are also matched by column.
func (c *SchemaComparer) hasUnique(table *schema.Table, u *schema.Index) bool {
	m := c.db.Migrator()
	name := table.TableName()
	if m.HasIndex(name, u.Name) || m.HasConstraint(name, u.Name) {
		return true
	}
	if len(u.Columns) != 1 || !m.HasColumn(name, u.Columns[0]) {
		return false
	}
	ok, err := c.hasUniqueColumn(name, u.Columns[0])
	return err == nil && ok
}

func (c *SchemaComparer) hasUniqueColumn(table, column string) (bool, error) {
	switch c.db.Dialector.Name() {
	case "postgres":
		var count int64
		err := c.db.Raw(`
	SELECT count(*)
	FROM pg_index ix
	JOIN pg_class t ON t.oid = ix.indrelid
	JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = ix.indkey[0]
	WHERE t.relname = ? AND a.attname = ?
		AND ix.indisunique AND NOT ix.indisprimary AND ix.indnatts = 1`, table, column).Scan(&count).Error
		return count > 0, err
	case "sqlite":
		return c.hasSQLiteUniqueColumn(table, column)
	}
	return false, nil
}

func (c *SchemaComparer) hasSQLiteUniqueColumn(table, column string) (bool, error) {
	rows, err := c.db.Raw(`SELECT name FROM pragma_index_list(?) WHERE "unique" = 1`, table).Rows()
	if err != nil {
		return false, err
	}
	var indexes []string
	for rows.Next() {
		var idx string
		if err := rows.Scan(&idx); err != nil {
			rows.Close()
			return false, err
		}
		indexes = append(indexes, idx)
	}
	rows.Close()

	for _, idx := range indexes {
		var cols []string
		rows, err := c.db.Raw("SELECT name FROM pragma_index_info(?)", idx).Rows()
		if err != nil {
			return false, err
		}
		for rows.Next() {
			var col string
			if err := rows.Scan(&col); err != nil {
				rows.Close()
				return false, err
			}
			cols = append(cols, col)
		}
		rows.Close()
		if len(cols) == 1 && cols[0] == column {
			return true, nil
		}
	}
	return false, nil
}

func (c *SchemaComparer) hasEnum(name string) (bool, error) {
	var count int64
	if err := c.db.Raw("SELECT count(*) FROM pg_type WHERE typname = ?", name).Scan(&count).Error; err != nil {
		return false, fmt.Errorf("failed to look up enum %s: %w", name, err)
	}
	return count > 0, nil
}
