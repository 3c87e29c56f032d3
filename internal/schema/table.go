package schema

import (
	"sort"
	"strconv"
	"strings"

	GORMSchema "gorm.io/gorm/schema"
)

// Index is a named index over one or more columns
type Index struct {
	Name    string
	Columns []string
	Unique  bool
}

// ForeignKey is a foreign key constraint owned by a table
type ForeignKey struct {
	Name              string
	Columns           []string
	ReferencedTable   string
	ReferencedColumns []string
	OnDelete          string
	OnUpdate          string
}

// Table represents a gorm model
type Table struct {
	*GORMSchema.Schema
	Columns     []*Column
	PrimaryKey  []string
	Indexes     []*Index
	Uniques     []*Index
	ForeignKeys []*ForeignKey
	Relations   []*Relation
}

func (t *Table) TableName() string {
	return t.Table
}

func (t *Table) TableColumns() []*Column {
	return t.Columns
}

// Column looks a column up by its database name.
func (t *Table) Column(name string) (*Column, bool) {
	for _, c := range t.Columns {
		if c.DBName == name {
			return c, true
		}
	}
	return nil, false
}

// Relation looks a relation up by name.
func (t *Table) Relation(name string) (*Relation, bool) {
	for _, r := range t.Relations {
		if r.Name == name {
			return r, true
		}
	}
	return nil, false
}

// CompositePrimaryKey reports whether the key spans more than one column.
func (t *Table) CompositePrimaryKey() bool {
	return len(t.PrimaryKey) > 1
}

func newTable(s *GORMSchema.Schema) (*Table, error) {
	t := &Table{Schema: s}

	for _, name := range s.DBNames {
		field := s.FieldsByDBName[name]
		if field == nil || field.IgnoreMigration {
			continue
		}
		col, err := newColumn(field)
		if err != nil {
			return nil, err
		}
		t.Columns = append(t.Columns, col)
		if field.PrimaryKey {
			t.PrimaryKey = append(t.PrimaryKey, field.DBName)
		}
	}

	t.parseIndexes()
	return t, nil
}

type indexMember struct {
	column   string
	priority int
	order    int
}

// parseIndexes groups index, uniqueIndex and unique tag settings the same way
// gorm does when it migrates the table.
func (t *Table) parseIndexes() {
	groups := map[string][]indexMember{}
	unique := map[string]bool{}
	var names []string

	add := func(setting string, isUnique bool, col *Column, order int) {
		name, priority := parseIndexSetting(setting)
		if name == "" {
			name = "idx_" + t.Table + "_" + col.DBName
		}
		if _, ok := groups[name]; !ok {
			names = append(names, name)
		}
		groups[name] = append(groups[name], indexMember{column: col.DBName, priority: priority, order: order})
		unique[name] = unique[name] || isUnique
	}

	for i, col := range t.Columns {
		settings := col.TagSettings
		if v, ok := settings["INDEX"]; ok {
			add(v, false, col, i)
		}
		if v, ok := settings["UNIQUEINDEX"]; ok {
			add(v, true, col, i)
		}
		if col.Unique && !col.PrimaryKey {
			name := t.Table + "_" + col.DBName + "_unique"
			names = append(names, name)
			groups[name] = []indexMember{{column: col.DBName, order: i}}
			unique[name] = true
		}
	}

	for _, name := range names {
		members := groups[name]
		sort.SliceStable(members, func(i, j int) bool {
			if members[i].priority != members[j].priority {
				return members[i].priority < members[j].priority
			}
			return members[i].order < members[j].order
		})
		idx := &Index{Name: name, Unique: unique[name]}
		for _, m := range members {
			idx.Columns = append(idx.Columns, m.column)
		}
		if idx.Unique {
			t.Uniques = append(t.Uniques, idx)
		} else {
			t.Indexes = append(t.Indexes, idx)
		}
	}
}

// parseIndexSetting splits "name,priority:2" into its parts. The priority
// defaults to 10 like in gorm.
func parseIndexSetting(setting string) (string, int) {
	if setting == "INDEX" || setting == "UNIQUEINDEX" {
		return "", 10
	}
	parts := strings.Split(setting, ",")
	name := strings.TrimSpace(parts[0])
	priority := 10
	for _, part := range parts[1:] {
		k, v, ok := strings.Cut(strings.TrimSpace(part), ":")
		if ok && strings.EqualFold(k, "priority") {
			if p, err := strconv.Atoi(v); err == nil {
				priority = p
			}
		}
	}
	return name, priority
}
