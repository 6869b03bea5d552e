package database

import "scribe/internal/models"

// PersistentModels returns the schema-managed GORM models. Tag precedes Post
// so the post_tags join table can reference both.
func PersistentModels() []any {
	return []any{
		&models.User{},
		&models.Tag{},
		&models.Post{},
	}
}
