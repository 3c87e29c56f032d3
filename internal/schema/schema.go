// Package schema turns gorm models into table and relationship descriptors
// that the migration generator and the CLI work from.
package schema

import (
	"fmt"
	"sort"
	"sync"

	GORMSchema "gorm.io/gorm/schema"
)

// Schema is the parsed set of tables. It is read-only once Load returns.
type Schema struct {
	Tables []*Table
	Enums  []*Enum

	byName map[string]*Table
}

// Load parses the given models. All models share one cache so relationships
// between them resolve to the same parsed schemas.
func Load(models ...interface{}) (*Schema, error) {
	cache := &sync.Map{}
	namer := GORMSchema.NamingStrategy{}

	parsed := make([]*GORMSchema.Schema, 0, len(models))
	for _, model := range models {
		s, err := GORMSchema.Parse(model, cache, namer)
		if err != nil {
			return nil, fmt.Errorf("failed to parse model %T: %w", model, err)
		}
		parsed = append(parsed, s)
	}

	sch := &Schema{byName: make(map[string]*Table)}
	for _, s := range parsed {
		if _, dup := sch.byName[s.Table]; dup {
			continue
		}
		t, err := newTable(s)
		if err != nil {
			return nil, err
		}
		sch.Tables = append(sch.Tables, t)
		sch.byName[s.Table] = t
	}

	if err := sch.resolveRelationships(parsed); err != nil {
		return nil, err
	}
	sch.collectEnums()
	return sch, nil
}

// resolveRelationships attaches foreign keys to the tables that own them and
// relation descriptors to the tables they start from.
func (s *Schema) resolveRelationships(parsed []*GORMSchema.Schema) error {
	seen := map[string]bool{}
	for _, gs := range parsed {
		t := s.byName[gs.Table]

		groups := [][]*GORMSchema.Relationship{
			gs.Relationships.HasOne,
			gs.Relationships.BelongsTo,
			gs.Relationships.HasMany,
			gs.Relationships.Many2Many,
		}
		for _, group := range groups {
			for _, rel := range group {
				if rel.FieldSchema == nil {
					continue
				}
				if _, ok := s.byName[rel.FieldSchema.Table]; !ok {
					return fmt.Errorf("relation %s.%s targets unregistered table %s", gs.Table, rel.Name, rel.FieldSchema.Table)
				}
				t.Relations = append(t.Relations, newRelation(rel))
			}
		}

		keys := make([]string, 0, len(gs.Relationships.Relations))
		for k := range gs.Relationships.Relations {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			c := gs.Relationships.Relations[k].ParseConstraint()
			if c == nil || c.Schema == nil || c.ReferenceSchema == nil {
				continue
			}
			owner, ok := s.byName[c.Schema.Table]
			if !ok {
				continue
			}
			key := constraintKey(c)
			if seen[key] {
				continue
			}
			seen[key] = true

			fk := &ForeignKey{
				Name:            c.Name,
				ReferencedTable: c.ReferenceSchema.Table,
				OnDelete:        c.OnDelete,
				OnUpdate:        c.OnUpdate,
			}
			for i, f := range c.ForeignKeys {
				fk.Columns = append(fk.Columns, f.DBName)
				ref := c.References[i].DBName
				fk.ReferencedColumns = append(fk.ReferencedColumns, ref)
				if col, ok := owner.Column(f.DBName); ok {
					col.References = &Reference{Table: fk.ReferencedTable, Column: ref}
				}
			}
			owner.ForeignKeys = append(owner.ForeignKeys, fk)
		}
	}

	for _, t := range s.Tables {
		sort.Slice(t.ForeignKeys, func(i, j int) bool {
			return t.ForeignKeys[i].Name < t.ForeignKeys[j].Name
		})
	}
	return nil
}

// constraintKey identifies a foreign key by what it connects, so the same key
// declared from both sides of a relationship is only kept once.
func constraintKey(c *GORMSchema.Constraint) string {
	key := c.Schema.Table + "->" + c.ReferenceSchema.Table
	for _, f := range c.ForeignKeys {
		key += ":" + f.DBName
	}
	return key
}

func (s *Schema) collectEnums() {
	seen := map[string]bool{}
	for _, t := range s.Tables {
		for _, c := range t.Columns {
			if c.Enum != nil && !seen[c.Enum.Name] {
				seen[c.Enum.Name] = true
				s.Enums = append(s.Enums, c.Enum)
			}
		}
	}
}

// Table returns the descriptor for a table name.
func (s *Schema) Table(name string) (*Table, bool) {
	t, ok := s.byName[name]
	return t, ok
}

// Relations returns the relations that start at the given table.
func (s *Schema) Relations(table string) []*Relation {
	t, ok := s.byName[table]
	if !ok {
		return nil
	}
	return t.Relations
}

// SortedTables orders tables so that every table comes after the tables its
// foreign keys reference.
func (s *Schema) SortedTables() ([]*Table, error) {
	visited := make(map[string]bool)
	visiting := make(map[string]bool)
	sorted := make([]*Table, 0, len(s.Tables))

	var visit func(t *Table) error
	visit = func(t *Table) error {
		if visited[t.Table] {
			return nil
		}
		if visiting[t.Table] {
			return fmt.Errorf("circular dependency detected at table %s", t.Table)
		}
		visiting[t.Table] = true
		for _, fk := range t.ForeignKeys {
			if fk.ReferencedTable == t.Table {
				continue
			}
			dep, ok := s.byName[fk.ReferencedTable]
			if !ok {
				return fmt.Errorf("table %s references unknown table %s", t.Table, fk.ReferencedTable)
			}
			if err := visit(dep); err != nil {
				return err
			}
		}
		visiting[t.Table] = false
		visited[t.Table] = true
		sorted = append(sorted, t)
		return nil
	}

	for _, t := range s.Tables {
		if err := visit(t); err != nil {
			return nil, err
		}
	}
	return sorted, nil
}
