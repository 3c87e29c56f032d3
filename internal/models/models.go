// Package models declares the blog schema: users and their preferences,
// posts, categories and the post/category join table.
package models

// All returns a pointer to one value of every model, parents before children.
func All() []interface{} {
	return []interface{}{
		&User{},
		&UserPreferences{},
		&Post{},
		&Category{},
		&PostCategory{},
	}
}

// Registry exposes the generated model registry to the migration tooling.
type Registry struct{}

func (Registry) GetModels() map[string]interface{} {
	return ModelTypeRegistry
}
