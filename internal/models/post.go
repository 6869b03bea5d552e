// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// MaxPostTitleLength bounds Post.Title.
const MaxPostTitleLength = 200

// Post represents a blog entry. CreatedAt is assigned on insert and never
// updated; listings order by it newest first.
type Post struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Title     string         `gorm:"size:200;not null" json:"title"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	ImageURL  string         `json:"image_url,omitempty"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	User      User           `gorm:"foreignKey:UserID" json:"author"`
	Tags      []Tag          `gorm:"many2many:post_tags;" json:"tags"`
	CreatedAt time.Time      `gorm:"index;<-:create" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsAuthoredBy reports whether userID owns the post.
func (p *Post) IsAuthoredBy(userID uint) bool {
	return p != nil && userID != 0 && p.UserID == userID
}
