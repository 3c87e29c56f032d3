package models

import "github.com/google/uuid"

// PostCategory links a post to a category. The pair is the primary key, so a
// post can be linked to the same category only once.
type PostCategory struct {
	PostID     uuid.UUID `json:"postId" gorm:"type:uuid;primaryKey"`
	CategoryID uuid.UUID `json:"categoryId" gorm:"type:uuid;primaryKey"`

	Post     *Post     `json:"post,omitempty" gorm:"foreignKey:PostID;constraint:OnDelete:RESTRICT"`
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
}

func (PostCategory) TableName() string {
	return "posts_categories"
}
