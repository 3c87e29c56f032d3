package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestConstraintClassification(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		unique     bool
		foreignKey bool
		check      bool
	}{
		{"nil", nil, false, false, false},
		{"plain error", errors.New("boom"), false, false, false},
		{"gorm duplicated key", gorm.ErrDuplicatedKey, true, false, false},
		{"gorm foreign key", fmt.Errorf("create: %w", gorm.ErrForeignKeyViolated), false, true, false},
		{"postgres unique", &pgconn.PgError{Code: UniqueViolationCode}, true, false, false},
		{"postgres foreign key", fmt.Errorf("delete: %w", &pgconn.PgError{Code: ForeignKeyViolationCode}), false, true, false},
		{"postgres check", &pgconn.PgError{Code: CheckViolationCode}, false, false, true},
		{"postgres other", &pgconn.PgError{Code: "42P01"}, false, false, false},
		{"sqlite unique", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}, true, false, false},
		{"sqlite primary key", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintPrimaryKey}, true, false, false},
		{"sqlite foreign key", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintForeignKey}, false, true, false},
		{"sqlite check", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintCheck}, false, false, true},
		{"sqlite user trigger", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintTrigger}, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.unique, IsUniqueViolation(tt.err))
			assert.Equal(t, tt.foreignKey, IsForeignKeyViolation(tt.err))
			assert.Equal(t, tt.check, IsCheckViolation(tt.err))
			assert.Equal(t, tt.unique || tt.foreignKey || tt.check, IsConstraintViolation(tt.err))
		})
	}
}

func TestAsPgError(t *testing.T) {
	pe, ok := AsPgError(fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: UniqueViolationCode, ConstraintName: "users_email_unique"}))
	assert.True(t, ok)
	assert.Equal(t, "users_email_unique", pe.ConstraintName)

	_, ok = AsPgError(errors.New("boom"))
	assert.False(t, ok)
}
