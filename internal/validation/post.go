package validation

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"scribe/internal/models"
)

// ValidatePostTitle requires a non-blank title of at most MaxPostTitleLength runes.
func ValidatePostTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return errors.New("title is required")
	}
	if utf8.RuneCountInString(title) > models.MaxPostTitleLength {
		return fmt.Errorf("title must be at most %d characters", models.MaxPostTitleLength)
	}
	return nil
}

// ValidatePostContent requires non-blank content.
func ValidatePostContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return errors.New("content is required")
	}
	return nil
}

// ValidateImageURL accepts an empty value or an absolute http(s) URL.
func ValidateImageURL(raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("image_url must be an http or https URL")
	}
	return nil
}

// SplitTagNames splits a comma-separated tag entry, trimming each name and
// dropping empty ones and repeats (by slug).
func SplitTagNames(raw string) []string {
	var names []string
	seen := map[string]struct{}{}
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		key := models.Slugify(name)
		if _, dup := seen[key]; dup && key != "" {
			continue
		}
		seen[key] = struct{}{}
		names = append(names, name)
	}
	return names
}
