// Package generator renders Postgres DDL for a schema diff and writes it out
// as a registered migration.
package generator

import (
	"errors"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"blog-schema/internal/migration/diff"
	"blog-schema/internal/schema"
)

const VersionLayout = "20060102150405"

var (
	ErrNoChanges   = errors.New("no schema changes detected")
	migrationName  = regexp.MustCompile(`^[a-z0-9_]+$`)
	importPath     = "blog-schema/internal/migration"
	fileTemplate   = `package migrations

import (
	"time"

	"gorm.io/gorm"

	"%s"
)

func init() {
	migration.RegisterMigration(&migration.Migration{
		Version:   "%s",
		Name:      "%s",
		CreatedAt: time.Date(%d, %d, %d, %d, %d, %d, 0, time.UTC),
		Up: func(db *gorm.DB) error {
			%s
			return nil
		},
		Down: func(db *gorm.DB) error {
			%s
			return nil
		},
	})
}
`
)

// Generator creates migration files
type Generator struct {
	MigrationsDir string
	SchemaDiff    *diff.SchemaDiff
	// Now is used for the version; tests pin it.
	Now func() time.Time
}

// NewGenerator creates a new migration generator
func NewGenerator(migrationsDir string) *Generator {
	return &Generator{
		MigrationsDir: migrationsDir,
		Now:           time.Now,
	}
}

// SetSchemaDiff sets the schema diff for the generator
func (g *Generator) SetSchemaDiff(d *diff.SchemaDiff) {
	g.SchemaDiff = d
}

// CreateMigration writes <version>_<name>.go holding the up and down SQL of
// the schema diff and returns its path.
func (g *Generator) CreateMigration(name string) (string, error) {
	if g.SchemaDiff == nil {
		return "", fmt.Errorf("schema diff not set")
	}
	if g.SchemaDiff.IsEmpty() {
		return "", ErrNoChanges
	}
	if err := validateSchemaDiff(g.SchemaDiff); err != nil {
		return "", fmt.Errorf("invalid schema diff: %w", err)
	}

	up, err := g.UpStatements()
	if err != nil {
		return "", err
	}
	down, err := g.DownStatements()
	if err != nil {
		return "", err
	}
	return g.write(name, up, down)
}

// CreateEmptyMigration writes a migration with empty up and down functions
// for hand-written changes.
func (g *Generator) CreateEmptyMigration(name string) (string, error) {
	return g.write(name, nil, nil)
}

func (g *Generator) write(name string, up, down []string) (string, error) {
	if !migrationName.MatchString(name) {
		return "", fmt.Errorf("invalid migration name %q: use lowercase letters, digits and underscores", name)
	}
	if err := os.MkdirAll(g.MigrationsDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create migrations directory: %w", err)
	}

	now := g.Now().UTC()
	version := now.Format(VersionLayout)
	path := filepath.Join(g.MigrationsDir, fmt.Sprintf("%s_%s.go", version, name))
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("migration file %s already exists", path)
	}

	content := fmt.Sprintf(fileTemplate, importPath, version, name,
		now.Year(), int(now.Month()), now.Day(), now.Hour(), now.Minute(), now.Second(),
		formatSQLAsExec(up), formatSQLAsExec(down))
	src, err := format.Source([]byte(content))
	if err != nil {
		return "", fmt.Errorf("failed to format migration file: %w", err)
	}

	if err := os.WriteFile(path, src, 0644); err != nil {
		return "", fmt.Errorf("failed to create migration file: %w", err)
	}
	return path, nil
}

// formatSQLAsExec wraps each statement in db.Exec with error handling
func formatSQLAsExec(statements []string) string {
	if len(statements) == 0 {
		return "// No schema changes"
	}
	var stmts []string
	for _, stmt := range statements {
		trimmed := strings.TrimSpace(stmt)
		if trimmed == "" {
			continue
		}
		stmts = append(stmts, fmt.Sprintf("if err := db.Exec(%s).Error; err != nil {\n\t\t\treturn err\n\t\t}", goStringLiteral(trimmed)))
	}
	return strings.Join(stmts, "\n\t\t")
}

// goStringLiteral renders sql as a raw string, or a quoted one when it
// contains a backtick.
func goStringLiteral(sql string) string {
	if strings.Contains(sql, "`") {
		return strconv.Quote(sql)
	}
	return "`" + sql + "`"
}

// UpSQL returns the up statements separated by blank lines
func (g *Generator) UpSQL() (string, error) {
	stmts, err := g.UpStatements()
	if err != nil {
		return "", err
	}
	return strings.Join(stmts, "\n\n"), nil
}

// DownSQL returns the down statements separated by blank lines
func (g *Generator) DownSQL() (string, error) {
	stmts, err := g.DownStatements()
	if err != nil {
		return "", err
	}
	return strings.Join(stmts, "\n\n"), nil
}

// UpStatements creates enums, then new tables parents first, then the
// missing parts of existing tables.
func (g *Generator) UpStatements() ([]string, error) {
	if g.SchemaDiff == nil {
		return nil, nil
	}

	var statements []string
	for _, enum := range g.SchemaDiff.EnumsToCreate {
		statements = append(statements, createEnumSQL(enum))
	}

	tables, err := topoSortTables(g.SchemaDiff.TablesToCreate)
	if err != nil {
		return nil, err
	}
	for _, table := range tables {
		statements = append(statements, createTableSQL(table))
		for _, idx := range table.Indexes {
			statements = append(statements, createIndexSQL(table.TableName(), idx))
		}
	}

	for _, td := range g.SchemaDiff.TablesToModify {
		statements = append(statements, modifyTableSQL(td)...)
	}
	return statements, nil
}

// DownStatements undoes UpStatements in reverse order
func (g *Generator) DownStatements() ([]string, error) {
	if g.SchemaDiff == nil {
		return nil, nil
	}

	var statements []string
	for i := len(g.SchemaDiff.TablesToModify) - 1; i >= 0; i-- {
		statements = append(statements, revertModifySQL(g.SchemaDiff.TablesToModify[i])...)
	}

	tables, err := topoSortTables(g.SchemaDiff.TablesToCreate)
	if err != nil {
		return nil, err
	}
	for i := len(tables) - 1; i >= 0; i-- {
		statements = append(statements, fmt.Sprintf("DROP TABLE IF EXISTS %s;", quoteIdentifier(tables[i].TableName())))
	}

	for i := len(g.SchemaDiff.EnumsToCreate) - 1; i >= 0; i-- {
		statements = append(statements, fmt.Sprintf("DROP TYPE IF EXISTS %s;", quoteIdentifier(g.SchemaDiff.EnumsToCreate[i].Name)))
	}
	return statements, nil
}

func createEnumSQL(enum *schema.Enum) string {
	values := make([]string, len(enum.Values))
	for i, v := range enum.Values {
		values[i] = quoteLiteral(v)
	}
	return fmt.Sprintf("CREATE TYPE %s AS ENUM(%s);", quoteIdentifier(enum.Name), strings.Join(values, ", "))
}

// createTableSQL renders the table with its primary key, unique and foreign
// key constraints inline. Plain indexes are separate statements.
func createTableSQL(table *schema.Table) string {
	inlinePK := !table.CompositePrimaryKey()

	var lines []string
	for _, col := range table.Columns {
		lines = append(lines, "\t"+col.Definition(inlinePK))
	}
	if !inlinePK {
		lines = append(lines, fmt.Sprintf("\tCONSTRAINT %s PRIMARY KEY(%s)",
			quoteIdentifier(primaryKeyName(table)), quoteList(table.PrimaryKey)))
	}
	for _, u := range table.Uniques {
		lines = append(lines, "\t"+uniqueConstraintSQL(u))
	}
	for _, fk := range table.ForeignKeys {
		lines = append(lines, "\t"+foreignKeyConstraintSQL(fk))
	}

	return fmt.Sprintf("CREATE TABLE %s (\n%s\n);", quoteIdentifier(table.TableName()), strings.Join(lines, ",\n"))
}

func primaryKeyName(table *schema.Table) string {
	return table.TableName() + "_" + strings.Join(table.PrimaryKey, "_") + "_pk"
}

func uniqueConstraintSQL(u *schema.Index) string {
	return fmt.Sprintf("CONSTRAINT %s UNIQUE(%s)", quoteIdentifier(u.Name), quoteList(u.Columns))
}

func foreignKeyConstraintSQL(fk *schema.ForeignKey) string {
	sql := fmt.Sprintf("CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s(%s)",
		quoteIdentifier(fk.Name), quoteList(fk.Columns), quoteIdentifier(fk.ReferencedTable), quoteList(fk.ReferencedColumns))
	if fk.OnDelete != "" {
		sql += " ON DELETE " + strings.ToUpper(fk.OnDelete)
	}
	if fk.OnUpdate != "" {
		sql += " ON UPDATE " + strings.ToUpper(fk.OnUpdate)
	}
	return sql
}

func createIndexSQL(table string, idx *schema.Index) string {
	kind := "INDEX"
	if idx.Unique {
		kind = "UNIQUE INDEX"
	}
	return fmt.Sprintf("CREATE %s %s ON %s (%s);", kind, quoteIdentifier(idx.Name), quoteIdentifier(table), quoteList(idx.Columns))
}

func modifyTableSQL(td *diff.TableDiff) []string {
	table := quoteIdentifier(td.Table.TableName())

	var statements []string
	for _, col := range td.ColumnsToAdd {
		statements = append(statements, fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s;", table, col.Definition(false)))
	}
	for _, u := range td.UniquesToAdd {
		statements = append(statements, fmt.Sprintf("ALTER TABLE %s ADD %s;", table, uniqueConstraintSQL(u)))
	}
	for _, fk := range td.ForeignKeysToAdd {
		statements = append(statements, fmt.Sprintf("ALTER TABLE %s ADD %s;", table, foreignKeyConstraintSQL(fk)))
	}
	for _, idx := range td.IndexesToAdd {
		statements = append(statements, createIndexSQL(td.Table.TableName(), idx))
	}
	return statements
}

func revertModifySQL(td *diff.TableDiff) []string {
	table := quoteIdentifier(td.Table.TableName())

	var statements []string
	for i := len(td.IndexesToAdd) - 1; i >= 0; i-- {
		statements = append(statements, fmt.Sprintf("DROP INDEX IF EXISTS %s;", quoteIdentifier(td.IndexesToAdd[i].Name)))
	}
	for i := len(td.ForeignKeysToAdd) - 1; i >= 0; i-- {
		statements = append(statements, fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT IF EXISTS %s;", table, quoteIdentifier(td.ForeignKeysToAdd[i].Name)))
	}
	for i := len(td.UniquesToAdd) - 1; i >= 0; i-- {
		statements = append(statements, fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT IF EXISTS %s;", table, quoteIdentifier(td.UniquesToAdd[i].Name)))
	}
	for i := len(td.ColumnsToAdd) - 1; i >= 0; i-- {
		statements = append(statements, fmt.Sprintf("ALTER TABLE %s DROP COLUMN IF EXISTS %s;", table, quoteIdentifier(td.ColumnsToAdd[i].DBName)))
	}
	return statements
}

// topoSortTables orders tables so referenced tables come first. References
// to tables outside the list are assumed to exist already.
func topoSortTables(tables []*schema.Table) ([]*schema.Table, error) {
	tableMap := make(map[string]*schema.Table, len(tables))
	for _, t := range tables {
		tableMap[t.TableName()] = t
	}
	visited := make(map[string]bool)
	visiting := make(map[string]bool)
	var sorted []*schema.Table
	var visit func(*schema.Table) error
	visit = func(t *schema.Table) error {
		name := t.TableName()
		if visited[name] {
			return nil
		}
		if visiting[name] {
			return fmt.Errorf("circular dependency detected at table %s", name)
		}
		visiting[name] = true
		for _, fk := range t.ForeignKeys {
			if dep, ok := tableMap[fk.ReferencedTable]; ok && dep != t {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}
		visiting[name] = false
		visited[name] = true
		sorted = append(sorted, t)
		return nil
	}
	for _, t := range tables {
		if err := visit(t); err != nil {
			return nil, err
		}
	}
	return sorted, nil
}

func validateSchemaDiff(d *diff.SchemaDiff) error {
	for _, table := range d.TablesToCreate {
		if table.TableName() == "" {
			return fmt.Errorf("table name cannot be empty")
		}
		if len(table.Columns) == 0 {
			return fmt.Errorf("table %s has no columns", table.TableName())
		}

		columns := make(map[string]bool, len(table.Columns))
		for _, col := range table.Columns {
			if col.DBName == "" {
				return fmt.Errorf("column name cannot be empty in table %s", table.TableName())
			}
			if columns[col.DBName] {
				return fmt.Errorf("duplicate column name %s in table %s", col.DBName, table.TableName())
			}
			if col.SQLType == "" {
				return fmt.Errorf("column %s.%s has no SQL type", table.TableName(), col.DBName)
			}
			columns[col.DBName] = true
		}

		for _, fk := range table.ForeignKeys {
			for _, c := range fk.Columns {
				if !columns[c] {
					return fmt.Errorf("foreign key column %s does not exist in table %s", c, table.TableName())
				}
			}
		}
		for _, idx := range append(append([]*schema.Index{}, table.Indexes...), table.Uniques...) {
			for _, c := range idx.Columns {
				if !columns[c] {
					return fmt.Errorf("index %s references non-existent column %s in table %s", idx.Name, c, table.TableName())
				}
			}
		}
	}
	return nil
}

// quoteIdentifier wraps a SQL identifier (table or column name) in double quotes
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func quoteList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = quoteIdentifier(n)
	}
	return strings.Join(quoted, ", ")
}

func quoteLiteral(v string) string {
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}
