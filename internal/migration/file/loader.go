// Package file loads migrations from the Go files the generator writes,
// without compiling them.
package file

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"blog-schema/internal/migration"
)

// LoadMigrations parses every migration file in the directory and merges
// them with the migrations registered in this binary. A missing directory
// yields no files.
func (l *MigrationLoader) LoadMigrations() ([]*migration.Migration, error) {
	files, err := l.LoadFiles()
	if err != nil {
		return nil, err
	}

	byVersion := make(map[string]*migration.Migration)
	for _, m := range migration.GetRegisteredMigrations() {
		byVersion[m.Version] = m
	}
	for _, f := range files {
		if _, ok := byVersion[f.Version]; ok {
			l.debugf("version %s is already registered, skipping %s", f.Version, f.Path)
			continue
		}
		byVersion[f.Version] = f.Migration()
	}

	migrations := make([]*migration.Migration, 0, len(byVersion))
	for _, m := range byVersion {
		migrations = append(migrations, m)
	}
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

// LoadFiles parses the migration files in version order. Two files with the
// same version are an error.
func (l *MigrationLoader) LoadFiles() ([]*MigrationFile, error) {
	entries, err := os.ReadDir(l.directory)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var files []*MigrationFile
	seen := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := l.ParseFile(filepath.Join(l.directory, name))
		if err != nil {
			return nil, fmt.Errorf("failed to parse migration file %s: %w", name, err)
		}
		if other, ok := seen[f.Version]; ok {
			return nil, fmt.Errorf("duplicate migration version %s in %s and %s", f.Version, other, name)
		}
		seen[f.Version] = name
		files = append(files, f)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Version < files[j].Version
	})
	return files, nil
}

// ParseFile reads one migration file. Version and name come from the file
// name; the SQL is every string literal passed to db.Exec inside the Up and
// Down functions.
func (l *MigrationLoader) ParseFile(path string) (*MigrationFile, error) {
	base := strings.TrimSuffix(filepath.Base(path), ".go")
	version, name, ok := strings.Cut(base, "_")
	if !ok || version == "" || name == "" {
		return nil, fmt.Errorf("invalid migration filename format: %s", filepath.Base(path))
	}
	createdAt, err := time.Parse(l.template.Version, version)
	if err != nil {
		return nil, fmt.Errorf("invalid migration version %q: %w", version, err)
	}

	fset := token.NewFileSet()
	node, err := parser.ParseFile(fset, path, nil, parser.SkipObjectResolution)
	if err != nil {
		return nil, err
	}

	f := &MigrationFile{
		Path:      path,
		Version:   version,
		Name:      name,
		CreatedAt: createdAt,
	}

	var found bool
	var parseErr error
	ast.Inspect(node, func(n ast.Node) bool {
		kv, ok := n.(*ast.KeyValueExpr)
		if !ok {
			return true
		}
		key, ok := kv.Key.(*ast.Ident)
		if !ok {
			return true
		}
		fn, ok := kv.Value.(*ast.FuncLit)
		if !ok || (key.Name != "Up" && key.Name != "Down") {
			return true
		}

		found = true
		stmts, err := l.extractExecSQL(fset, fn)
		if err != nil && parseErr == nil {
			parseErr = fmt.Errorf("%s: %w", key.Name, err)
		}
		if key.Name == "Up" {
			f.UpSQL = stmts
		} else {
			f.DownSQL = stmts
		}
		return false
	})
	if parseErr != nil {
		return nil, parseErr
	}
	if !found {
		return nil, fmt.Errorf("no Up or Down function in %s", filepath.Base(path))
	}

	l.debugf("%s: %d up and %d down statements", filepath.Base(path), len(f.UpSQL), len(f.DownSQL))
	return f, nil
}

// extractExecSQL collects the string literal arguments of db.Exec calls
func (l *MigrationLoader) extractExecSQL(fset *token.FileSet, fn *ast.FuncLit) ([]string, error) {
	var statements []string
	var firstErr error
	ast.Inspect(fn.Body, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok || len(call.Args) == 0 {
			return true
		}
		sel, ok := call.Fun.(*ast.SelectorExpr)
		if !ok || sel.Sel.Name != "Exec" {
			return true
		}
		lit, ok := call.Args[0].(*ast.BasicLit)
		if !ok || lit.Kind != token.STRING {
			return true
		}
		sql, err := strconv.Unquote(lit.Value)
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("line %d: %w", fset.Position(lit.Pos()).Line, err)
			return false
		}
		l.debugf("found db.Exec at line %d", fset.Position(call.Pos()).Line)
		statements = append(statements, strings.TrimSpace(sql))
		return true
	})
	return statements, firstErr
}

func (l *MigrationLoader) debugf(format string, args ...interface{}) {
	if l.debug {
		fmt.Printf("[DEBUG] "+format+"\n", args...)
	}
}
