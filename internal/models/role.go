package models

import (
	"database/sql/driver"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// UserRole is the user_role enum
type UserRole string

const (
	RoleAdmin UserRole = "ADMIN"
	RoleBasic UserRole = "BASIC"
)

func (UserRole) EnumName() string {
	return "user_role"
}

func (UserRole) EnumValues() []string {
	return []string{string(RoleAdmin), string(RoleBasic)}
}

func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleBasic
}

// GormDBDataType maps the role to the native enum on Postgres. Other
// dialects fall back to text guarded by a check constraint.
func (r UserRole) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return r.EnumName()
	}
	return ""
}

func (r UserRole) Value() (driver.Value, error) {
	if r == "" {
		return string(RoleBasic), nil
	}
	if !r.Valid() {
		return nil, fmt.Errorf("invalid user role %q", string(r))
	}
	return string(r), nil
}

func (r *UserRole) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*r = UserRole(v)
	case []byte:
		*r = UserRole(v)
	case nil:
		*r = ""
	default:
		return fmt.Errorf("cannot scan %T into UserRole", value)
	}
	return nil
}
