package schema

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	GORMSchema "gorm.io/gorm/schema"
)

// Type is the storage-independent type of a column
type Type string

const (
	TypeUUID      Type = "uuid"
	TypeText      Type = "text"
	TypeInteger   Type = "integer"
	TypeReal      Type = "real"
	TypeDouble    Type = "double"
	TypeBoolean   Type = "boolean"
	TypeTimestamp Type = "timestamp"
	TypeEnum      Type = "enum"
)

// Enumerated is implemented by column types backed by a database enum.
type Enumerated interface {
	EnumName() string
	EnumValues() []string
}

// Enum is a named set of allowed values
type Enum struct {
	Name   string
	Values []string
}

// Reference points a column at the column it references
type Reference struct {
	Table  string
	Column string
}

// Column represents a gorm field
type Column struct {
	*GORMSchema.Field
	SemanticType Type
	SQLType      string
	Nullable     bool
	Default      string
	Enum         *Enum
	References   *Reference
}

var (
	uuidType = reflect.TypeOf(uuid.UUID{})
	timeType = reflect.TypeOf(time.Time{})
)

func (c *Column) ColumnName() string {
	return c.DBName
}

// DefaultSQL renders the default as a Postgres expression. It is empty when
// the column has no default.
func (c *Column) DefaultSQL() string {
	if c.Default == "" {
		return ""
	}
	switch c.SemanticType {
	case TypeText, TypeEnum:
		return "'" + strings.ReplaceAll(strings.Trim(c.Default, "'"), "'", "''") + "'"
	case TypeTimestamp:
		if strings.EqualFold(c.Default, "CURRENT_TIMESTAMP") {
			return "now()"
		}
	}
	return c.Default
}

// Definition renders the column as it appears inside CREATE TABLE.
func (c *Column) Definition(inlinePrimaryKey bool) string {
	def := fmt.Sprintf("%q %s", c.DBName, c.SQLType)
	if inlinePrimaryKey && c.PrimaryKey {
		def += " PRIMARY KEY"
	}
	if d := c.DefaultSQL(); d != "" {
		def += " DEFAULT " + d
	}
	if !c.Nullable && !(inlinePrimaryKey && c.PrimaryKey) {
		def += " NOT NULL"
	}
	return def
}

func newColumn(field *GORMSchema.Field) (*Column, error) {
	col := &Column{
		Field:    field,
		Nullable: !field.NotNull && !field.PrimaryKey,
		Default:  field.DefaultValue,
	}

	ft := field.IndirectFieldType
	if enum, ok := reflect.New(ft).Interface().(Enumerated); ok {
		col.SemanticType = TypeEnum
		col.SQLType = enum.EnumName()
		col.Enum = &Enum{Name: enum.EnumName(), Values: enum.EnumValues()}
		return col, nil
	}

	switch {
	case ft == uuidType:
		col.SemanticType = TypeUUID
		col.SQLType = "uuid"
		if field.PrimaryKey && col.Default == "" && len(field.Schema.PrimaryFields) == 1 {
			col.Default = "gen_random_uuid()"
		}
		return col, nil
	case ft == timeType:
		col.SemanticType = TypeTimestamp
		col.SQLType = "timestamp"
		return col, nil
	}

	switch ft.Kind() {
	case reflect.String:
		col.SemanticType = TypeText
		col.SQLType = "text"
		if field.Size > 0 {
			col.SQLType = fmt.Sprintf("varchar(%d)", field.Size)
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Uint8, reflect.Uint16:
		col.SemanticType = TypeInteger
		col.SQLType = "integer"
	case reflect.Int64, reflect.Uint, reflect.Uint32, reflect.Uint64:
		col.SemanticType = TypeInteger
		col.SQLType = "bigint"
	case reflect.Float32:
		col.SemanticType = TypeReal
		col.SQLType = "real"
	case reflect.Float64:
		col.SemanticType = TypeDouble
		col.SQLType = "double precision"
	case reflect.Bool:
		col.SemanticType = TypeBoolean
		col.SQLType = "boolean"
	default:
		return nil, fmt.Errorf("column %s.%s: unsupported type %s", field.Schema.Table, field.DBName, ft)
	}
	return col, nil
}
