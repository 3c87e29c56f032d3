package queries

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"blog-schema/internal/models"
)

// NewUser holds the fields a caller supplies when creating a user. An empty
// role leaves the column default in place.
type NewUser struct {
	Name  string
	Age   int
	Email string
	Role  models.UserRole
}

func CreateUser(ctx context.Context, db *gorm.DB, in NewUser) (*models.User, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" {
		return nil, fmt.Errorf("%w: user needs a name and an email", ErrInvalidRecord)
	}
	if in.Role != "" && !in.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidRecord, in.Role)
	}

	user := &models.User{Name: in.Name, Age: in.Age, Email: in.Email, Role: in.Role}
	if err := db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user %s: %w", in.Email, err)
	}
	return user, nil
}

// SetPreferences creates or updates the preferences row owned by userID.
func SetPreferences(ctx context.Context, db *gorm.DB, userID uuid.UUID, emailUpdates bool) (*models.UserPreferences, error) {
	var prefs models.UserPreferences
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ?", userID).First(&prefs).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			prefs = models.UserPreferences{UserID: userID, EmailUpdates: emailUpdates}
			return tx.Create(&prefs).Error
		case err != nil:
			return err
		}
		prefs.EmailUpdates = emailUpdates
		return tx.Model(&prefs).Update("email_updates", emailUpdates).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set preferences for user %s: %w", userID, err)
	}
	return &prefs, nil
}

func CreatePost(ctx context.Context, db *gorm.DB, authorID uuid.UUID, title string) (*models.Post, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: post needs a title", ErrInvalidRecord)
	}
	post := &models.Post{Title: title, AuthorID: authorID}
	if err := db.WithContext(ctx).Create(post).Error; err != nil {
		return nil, fmt.Errorf("failed to create post %q: %w", title, err)
	}
	return post, nil
}

func CreateCategory(ctx context.Context, db *gorm.DB, name string) (*models.Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: category needs a name", ErrInvalidRecord)
	}
	category := &models.Category{Name: name}
	if err := db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category %q: %w", name, err)
	}
	return category, nil
}

// LinkCategory files a post under a category. Linking the same pair twice
// fails on the composite primary key.
func LinkCategory(ctx context.Context, db *gorm.DB, postID, categoryID uuid.UUID) error {
	link := &models.PostCategory{PostID: postID, CategoryID: categoryID}
	if err := db.WithContext(ctx).Create(link).Error; err != nil {
		return fmt.Errorf("failed to link post %s to category %s: %w", postID, categoryID, err)
	}
	return nil
}

// SeedResult lists what Seed created.
type SeedResult struct {
	Users      []*models.User
	Posts      []*models.Post
	Categories []*models.Category
	Links      int
}

// Seed writes a small sample data set in one transaction: two users with
// preferences, three posts and two categories.
func Seed(ctx context.Context, db *gorm.DB) (*SeedResult, error) {
	result := &SeedResult{}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, in := range []NewUser{
			{Name: "Ada", Age: 36, Email: "ada@example.com", Role: models.RoleAdmin},
			{Name: "Linus", Age: 28, Email: "linus@example.com"},
		} {
			u, err := CreateUser(ctx, tx, in)
			if err != nil {
				return err
			}
			if _, err := SetPreferences(ctx, tx, u.ID, u.Role == models.RoleAdmin); err != nil {
				return err
			}
			result.Users = append(result.Users, u)
		}

		for _, name := range []string{"databases", "go"} {
			c, err := CreateCategory(ctx, tx, name)
			if err != nil {
				return err
			}
			result.Categories = append(result.Categories, c)
		}

		posts := []struct {
			author     int
			title      string
			categories []int
		}{
			{0, "Designing relational schemas", []int{0}},
			{0, "Eager loading with gorm", []int{0, 1}},
			{1, "Hello, world", nil},
		}
		for _, p := range posts {
			post, err := CreatePost(ctx, tx, result.Users[p.author].ID, p.title)
			if err != nil {
				return err
			}
			for _, c := range p.categories {
				if err := LinkCategory(ctx, tx, post.ID, result.Categories[c].ID); err != nil {
					return err
				}
				result.Links++
			}
			result.Posts = append(result.Posts, post)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to seed database: %w", err)
	}
	return result, nil
}
