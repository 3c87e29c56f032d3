package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post is written by a single author and linked to categories through PostCategory
type Post struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Title         string    `json:"title" gorm:"size:255;not null"`
	AverageRating float32   `json:"averageRating" gorm:"type:real;not null;default:0"`
	CreatedAt     time.Time `json:"createdAt" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time `json:"updatedAt" gorm:"not null;default:CURRENT_TIMESTAMP"`
	AuthorID      uuid.UUID `json:"authorId" gorm:"type:uuid;not null"`

	Author         *User          `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:RESTRICT"`
	PostCategories []PostCategory `json:"postCategories,omitempty" gorm:"foreignKey:PostID;constraint:OnDelete:RESTRICT"`
}

func (Post) TableName() string {
	return "posts"
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
