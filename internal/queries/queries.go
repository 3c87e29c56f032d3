// Package queries holds the read and write paths the CLI exposes over the
// blog schema.
package queries

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"blog-schema/internal/models"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrInvalidOrder  = errors.New("invalid order column")
	ErrInvalidRecord = errors.New("invalid record")
)

// OrderColumns are the users columns ListUsersWithPosts can sort by.
var OrderColumns = []string{"id", "name", "age", "email"}

// RenamedUser is the projection returned by RenameUser.
type RenamedUser struct {
	UserName string `json:"userName"`
}

// RenameUser sets the name of the user with the given id and returns the
// new name read back through RETURNING.
func RenameUser(ctx context.Context, db *gorm.DB, id uuid.UUID, name string) ([]RenamedUser, error) {
	var users []models.User
	res := db.WithContext(ctx).
		Model(&users).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "name"}}}).
		Where("id = ?", id).
		Update("name", name)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to rename user %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 || len(users) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, id)
	}

	renamed := make([]RenamedUser, 0, len(users))
	for _, u := range users {
		renamed = append(renamed, RenamedUser{UserName: u.Name})
	}
	return renamed, nil
}

// ListOptions controls the ordering of ListUsersWithPosts.
type ListOptions struct {
	OrderBy string
	Desc    bool
}

func (o ListOptions) column() (string, error) {
	col := strings.ToLower(strings.TrimSpace(o.OrderBy))
	if col == "" {
		return "id", nil
	}
	for _, allowed := range OrderColumns {
		if col == allowed {
			return col, nil
		}
	}
	return "", fmt.Errorf("%w %q, expected one of %s", ErrInvalidOrder, o.OrderBy, strings.Join(OrderColumns, ", "))
}

// ListedUser is the projection returned by ListUsersWithPosts.
type ListedUser struct {
	ID    uuid.UUID     `json:"id"`
	Name  string        `json:"name"`
	Posts []models.Post `json:"posts"`
}

// ListUsersWithPosts returns the id and name of every user together with
// their posts and each post's category links.
func ListUsersWithPosts(ctx context.Context, db *gorm.DB, opts ListOptions) ([]ListedUser, error) {
	col, err := opts.column()
	if err != nil {
		return nil, err
	}

	var users []models.User
	err = db.WithContext(ctx).
		Select("id", "name").
		Preload("Posts", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at").Order("id")
		}).
		Preload("Posts.PostCategories").
		Order(clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: opts.Desc}).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	listed := make([]ListedUser, 0, len(users))
	for _, u := range users {
		posts := u.Posts
		if posts == nil {
			posts = []models.Post{}
		}
		listed = append(listed, ListedUser{ID: u.ID, Name: u.Name, Posts: posts})
	}
	return listed, nil
}
