package schema

import (
	"unicode"

	GORMSchema "gorm.io/gorm/schema"
)

// Cardinality says how many related rows a relation yields
type Cardinality string

const (
	One  Cardinality = "one"
	Many Cardinality = "many"
)

// Relation is a navigable relationship from one table to another. Fields are
// columns of the owning table, References the matching columns of Target.
type Relation struct {
	Name       string
	Field      string
	Target     string
	Kind       Cardinality
	Fields     []string
	References []string
}

func newRelation(rel *GORMSchema.Relationship) *Relation {
	r := &Relation{
		Name:   lowerFirst(rel.Name),
		Field:  rel.Name,
		Target: rel.FieldSchema.Table,
		Kind:   One,
	}
	if rel.Type == GORMSchema.HasMany || rel.Type == GORMSchema.Many2Many {
		r.Kind = Many
	}

	for _, ref := range rel.References {
		if ref.PrimaryKey == nil || ref.ForeignKey == nil {
			continue
		}
		if rel.Type == GORMSchema.BelongsTo {
			r.Fields = append(r.Fields, ref.ForeignKey.DBName)
			r.References = append(r.References, ref.PrimaryKey.DBName)
		} else {
			r.Fields = append(r.Fields, ref.PrimaryKey.DBName)
			r.References = append(r.References, ref.ForeignKey.DBName)
		}
	}
	return r
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
