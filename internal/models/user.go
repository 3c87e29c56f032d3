package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the root aggregate for preferences and the author of posts
type User struct {
	ID    uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name  string    `json:"name" gorm:"size:255;not null;uniqueIndex:unique_name_and_age,priority:1"`
	Age   int       `json:"age" gorm:"not null;uniqueIndex:unique_name_and_age,priority:2"`
	Email string    `json:"email" gorm:"size:255;not null;unique;index:email_index"`
	Role  UserRole  `json:"role" gorm:"column:user_role;not null;default:BASIC;check:user_role IN ('ADMIN', 'BASIC')"`

	Preferences *UserPreferences `json:"preferences,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Posts       []Post           `json:"posts,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:RESTRICT"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleBasic
	}
	return nil
}
