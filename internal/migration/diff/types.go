package diff

import "blog-schema/internal/schema"

// SchemaDiff lists what the declared schema has that the database lacks
type SchemaDiff struct {
	EnumsToCreate  []*schema.Enum
	TablesToCreate []*schema.Table
	TablesToModify []*TableDiff
	// ExtraTables exist in the database but not in the declared schema.
	// They are reported, never dropped.
	ExtraTables []string
}

// TableDiff lists the parts of an existing table that are missing
type TableDiff struct {
	Table            *schema.Table
	ColumnsToAdd     []*schema.Column
	IndexesToAdd     []*schema.Index
	UniquesToAdd     []*schema.Index
	ForeignKeysToAdd []*schema.ForeignKey
}

// IsEmpty reports whether the table needs no changes
func (d *TableDiff) IsEmpty() bool {
	return len(d.ColumnsToAdd) == 0 &&
		len(d.IndexesToAdd) == 0 &&
		len(d.UniquesToAdd) == 0 &&
		len(d.ForeignKeysToAdd) == 0
}

// IsEmpty reports whether applying the diff would change nothing
func (d *SchemaDiff) IsEmpty() bool {
	return len(d.EnumsToCreate) == 0 &&
		len(d.TablesToCreate) == 0 &&
		len(d.TablesToModify) == 0
}

// Full returns a diff that creates every enum and table of sch, in foreign
// key order. It is what Compare returns against an empty database.
func Full(sch *schema.Schema) (*SchemaDiff, error) {
	tables, err := sch.SortedTables()
	if err != nil {
		return nil, err
	}
	enums := make([]*schema.Enum, len(sch.Enums))
	copy(enums, sch.Enums)
	return &SchemaDiff{EnumsToCreate: enums, TablesToCreate: tables}, nil
}
