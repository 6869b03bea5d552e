// Package search implements the post listing filter: a case-insensitive
// substring match across title, content, tag names and author username,
// followed by deduplication, newest-first ordering and pagination.
package search

import (
	"slices"
	"strings"

	"scribe/internal/models"
	"scribe/internal/pagination"
)

// DefaultPageSize is the number of posts on a listing page.
const DefaultPageSize = 5

// Normalize trims the raw query. An empty result means "no filter".
func Normalize(query string) string {
	return strings.TrimSpace(query)
}

// Matches reports whether query occurs, ignoring case, in any searchable
// field of post. An empty query matches everything.
func Matches(post *models.Post, query string) bool {
	q := strings.ToLower(Normalize(query))
	if q == "" {
		return true
	}

	if containsFold(post.Title, q) || containsFold(post.Content, q) || containsFold(post.User.Username, q) {
		return true
	}
	for _, tag := range post.Tags {
		if containsFold(tag.Name, q) {
			return true
		}
	}
	return false
}

func containsFold(s, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(s), lowerQuery)
}

// UniqueIDs drops repeated ids, keeping the first occurrence of each.
func UniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Filter returns the posts matching query, each at most once, ordered by
// created_at descending with ties broken by id descending.
func Filter(posts []models.Post, query string) []models.Post {
	seen := make(map[uint]struct{}, len(posts))
	out := make([]models.Post, 0, len(posts))
	for i := range posts {
		p := &posts[i]
		if _, dup := seen[p.ID]; dup {
			continue
		}
		if !Matches(p, query) {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, *p)
	}

	SortNewestFirst(out)
	return out
}

// SortNewestFirst orders posts by created_at descending, then id descending.
func SortNewestFirst(posts []models.Post) {
	slices.SortStableFunc(posts, func(a, b models.Post) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		switch {
		case a.ID > b.ID:
			return -1
		case a.ID < b.ID:
			return 1
		}
		return 0
	})
}

// List filters posts by query and returns the requested page. rawPage is the
// unparsed page parameter; invalid or out-of-range values are clamped.
func List(posts []models.Post, query, rawPage string, pageSize int) pagination.Page[models.Post] {
	return pagination.New(Filter(posts, query), pageSize).GetPage(rawPage)
}
