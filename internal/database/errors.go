package database

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

const (
	// UniqueViolationCode indicates a unique constraint violation.
	UniqueViolationCode = "23505"
	// ForeignKeyViolationCode indicates a foreign key violation.
	ForeignKeyViolationCode = "23503"
	// CheckViolationCode indicates a check constraint violation.
	CheckViolationCode = "23514"
)

func AsPgError(err error) (*pgconn.PgError, bool) {
	var pe *pgconn.PgError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

func AsSQLiteError(err error) (sqlite3.Error, bool) {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se, true
	}
	return sqlite3.Error{}, false
}

// IsUniqueViolation reports whether err comes from a unique index, unique
// constraint or primary key conflict.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	if pe, ok := AsPgError(err); ok {
		return pe.Code == UniqueViolationCode
	}
	if se, ok := AsSQLiteError(err); ok {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique ||
			se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// IsForeignKeyViolation reports whether err comes from a foreign key check,
// either a missing parent on insert or a restricted delete.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	if pe, ok := AsPgError(err); ok {
		return pe.Code == ForeignKeyViolationCode
	}
	if se, ok := AsSQLiteError(err); ok {
		// ON DELETE RESTRICT is enforced by an internal trigger
		return se.ExtendedCode == sqlite3.ErrConstraintForeignKey ||
			(se.ExtendedCode == sqlite3.ErrConstraintTrigger && strings.Contains(se.Error(), "FOREIGN KEY constraint failed"))
	}
	return false
}

// IsCheckViolation reports whether err comes from a check constraint.
func IsCheckViolation(err error) bool {
	if err == nil {
		return false
	}
	if pe, ok := AsPgError(err); ok {
		return pe.Code == CheckViolationCode
	}
	if se, ok := AsSQLiteError(err); ok {
		return se.ExtendedCode == sqlite3.ErrConstraintCheck
	}
	return false
}

// IsConstraintViolation reports whether the storage engine rejected a write
// because of a declared constraint.
func IsConstraintViolation(err error) bool {
	return IsUniqueViolation(err) || IsForeignKeyViolation(err) || IsCheckViolation(err)
}
