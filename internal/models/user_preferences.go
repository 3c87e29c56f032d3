package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserPreferences is owned by exactly one user and deleted with it
type UserPreferences struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	EmailUpdates bool      `json:"emailUpdates" gorm:"not null;default:false"`
	UserID       uuid.UUID `json:"userId" gorm:"type:uuid;not null"`
	User         *User     `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (UserPreferences) TableName() string {
	return "users_preferences"
}

func (p *UserPreferences) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
