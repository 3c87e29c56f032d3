package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category groups posts through the posts_categories join table
type Category struct {
	ID   uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name string    `json:"name" gorm:"size:255;not null"`

	Posts []PostCategory `json:"posts,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
}

func (Category) TableName() string {
	return "categories"
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
