package models

import (
	"strings"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

const (
	// MaxTagNameLength bounds Tag.Name.
	MaxTagNameLength = 50
	// MaxTagSlugLength bounds Tag.Slug.
	MaxTagSlugLength = 50
)

// Tag is a label shared between posts. Slug is unique and never changes once
// assigned.
type Tag struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"size:50;not null" json:"name"`
	Slug  string `gorm:"size:50;uniqueIndex;not null" json:"slug"`
	Posts []Post `gorm:"many2many:post_tags;" json:"-"`
}

// BeforeCreate derives the slug from the name when none was given.
func (t *Tag) BeforeCreate(_ *gorm.DB) error {
	if t.Slug == "" {
		t.Slug = Slugify(t.Name)
	}
	if t.Slug == "" {
		return NewValidationError("Tag name must contain letters or digits")
	}
	return nil
}

// Slugify turns a tag name into its URL-safe slug, e.g. "Go Tips" -> "go-tips".
// It returns "" when the name has nothing sluggable in it.
func Slugify(name string) string {
	s := slug.Make(strings.TrimSpace(name))
	if len(s) > MaxTagSlugLength {
		s = strings.TrimRight(s[:MaxTagSlugLength], "-")
	}
	return s
}
