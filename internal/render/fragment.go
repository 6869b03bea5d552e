package render

import (
	"context"

	"scribe/internal/models"
	"scribe/internal/pagination"
)

// Fragment is the incremental-loading payload for one listing page.
type Fragment struct {
	HTML        string `json:"html"`
	HasNext     bool   `json:"has_next"`
	NextPage    *int   `json:"next_page"`
	CurrentPage int    `json:"current_page"`
}

// NewFragment renders page's items and copies its navigation state.
func NewFragment(ctx context.Context, r Renderer, page pagination.Page[models.Post]) (*Fragment, error) {
	html, err := r.RenderPosts(ctx, page.Items)
	if err != nil {
		return nil, err
	}
	return &Fragment{
		HTML:        html,
		HasNext:     page.HasNext(),
		NextPage:    page.NextPageNumber(),
		CurrentPage: page.Number,
	}, nil
}
