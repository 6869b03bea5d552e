// Package service holds the application's use cases on top of the repositories.
package service

import (
	"context"
	"fmt"
	"strconv"

	"scribe/internal/models"
	"scribe/internal/observability"
	"scribe/internal/pagination"
	"scribe/internal/render"
	"scribe/internal/repository"
	"scribe/internal/search"
	"scribe/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

// PageSize is the number of posts per listing page.
const PageSize = search.DefaultPageSize

type PostService struct {
	postRepo repository.PostRepository
	tagRepo  repository.TagRepository
	renderer render.Renderer
}

// ListPostsInput carries the raw listing parameters; Page is parsed and
// clamped, never rejected.
type ListPostsInput struct {
	Query string
	Page  string
}

type CreatePostInput struct {
	UserID   uint
	Title    string
	Content  string
	ImageURL string
	TagIDs   []uint
	NewTags  string
}

// UpdatePostInput leaves nil fields unchanged. A non-nil TagIDs replaces the
// selected tags; NewTags are added on top.
type UpdatePostInput struct {
	UserID   uint
	PostID   uint
	Title    *string
	Content  *string
	ImageURL *string
	TagIDs   *[]uint
	NewTags  string
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

func NewPostService(postRepo repository.PostRepository, tagRepo repository.TagRepository, renderer render.Renderer) *PostService {
	return &PostService{
		postRepo: postRepo,
		tagRepo:  tagRepo,
		renderer: renderer,
	}
}

// ListPosts returns the requested page of posts matching in.Query, newest first.
func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) (pagination.Page[models.Post], error) {
	query := search.Normalize(in.Query)
	ctx, span := observability.StartSpan(ctx, "PostService.ListPosts",
		attribute.String("search.query", query),
		attribute.String("page.requested", in.Page),
	)

	candidates, err := s.postRepo.Search(ctx, query)
	if err != nil {
		observability.EndSpan(span, err)
		return pagination.Page[models.Post]{}, err
	}
	observability.ListingCandidates.WithLabelValues(strconv.FormatBool(query != "")).
		Observe(float64(len(candidates)))

	// The repository narrows candidates in SQL; the in-memory filter is the
	// authoritative match, dedup and ordering step.
	page := search.List(candidates, query, in.Page, PageSize)

	span.SetAttributes(
		attribute.Int("page.number", page.Number),
		attribute.Int("page.total", page.TotalPages),
		attribute.Int("results.total", page.TotalItems),
	)
	observability.EndSpan(span, nil)
	return page, nil
}

// ListFragment is ListPosts rendered as an incremental-loading payload.
func (s *PostService) ListFragment(ctx context.Context, in ListPostsInput) (*render.Fragment, error) {
	page, err := s.ListPosts(ctx, in)
	if err != nil {
		return nil, err
	}
	frag, err := render.NewFragment(ctx, s.renderer, page)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return frag, nil
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

// PostsByTag returns the tag and a page of its posts. Unknown slugs are NOT_FOUND.
func (s *PostService) PostsByTag(ctx context.Context, slug, rawPage string) (*models.Tag, pagination.Page[models.Post], error) {
	tag, err := s.tagRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, pagination.Page[models.Post]{}, err
	}
	posts, err := s.postRepo.ListByTag(ctx, tag.ID)
	if err != nil {
		return nil, pagination.Page[models.Post]{}, err
	}
	return tag, search.List(posts, "", rawPage, PageSize), nil
}

// UserPosts returns a page of userID's own posts, newest first.
func (s *PostService) UserPosts(ctx context.Context, userID uint, rawPage string) (pagination.Page[models.Post], error) {
	posts, err := s.postRepo.ListByUser(ctx, userID)
	if err != nil {
		return pagination.Page[models.Post]{}, err
	}
	return search.List(posts, "", rawPage, PageSize), nil
}

func (s *PostService) ListTags(ctx context.Context) ([]models.Tag, error) {
	return s.tagRepo.List(ctx)
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := validation.ValidatePostTitle(in.Title); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePostContent(in.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateImageURL(in.ImageURL); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	tags, err := s.resolveTags(ctx, in.TagIDs, in.NewTags, nil)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:    in.Title,
		Content:  in.Content,
		ImageURL: in.ImageURL,
		UserID:   in.UserID,
		Tags:     tags,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if !post.IsAuthoredBy(in.UserID) {
		return nil, models.NewForbiddenError("You can only edit your own posts")
	}

	if in.Title != nil {
		if err := validation.ValidatePostTitle(*in.Title); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		post.Title = *in.Title
	}
	if in.Content != nil {
		if err := validation.ValidatePostContent(*in.Content); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		post.Content = *in.Content
	}
	if in.ImageURL != nil {
		if err := validation.ValidateImageURL(*in.ImageURL); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		post.ImageURL = *in.ImageURL
	}

	var tags []models.Tag
	if in.TagIDs != nil || in.NewTags != "" {
		selected := tagIDsOf(post.Tags)
		if in.TagIDs != nil {
			selected = *in.TagIDs
		}
		tags, err = s.resolveTags(ctx, selected, in.NewTags, post.Tags)
		if err != nil {
			return nil, err
		}
	}

	if err := s.postRepo.Update(ctx, post, tags); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return err
	}
	if !post.IsAuthoredBy(in.UserID) {
		return models.NewForbiddenError("You can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, in.PostID)
}

// resolveTags loads the selected tag ids and get-or-creates every name in
// newTags. The result is non-nil and free of duplicates. known holds tags
// already loaded, which need not be fetched again.
func (s *PostService) resolveTags(ctx context.Context, ids []uint, newTags string, known []models.Tag) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(ids))
	seen := make(map[uint]struct{})

	ids = search.UniqueIDs(ids)
	var missing []uint
	byID := make(map[uint]models.Tag, len(known))
	for _, t := range known {
		byID[t.ID] = t
	}
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		found, err := s.tagRepo.GetByIDs(ctx, missing)
		if err != nil {
			return nil, err
		}
		for _, t := range found {
			byID[t.ID] = t
		}
	}
	for _, id := range ids {
		t, ok := byID[id]
		if !ok {
			return nil, models.NewValidationError(fmt.Sprintf("Tag %d does not exist", id))
		}
		tags = append(tags, t)
		seen[id] = struct{}{}
	}

	for _, name := range validation.SplitTagNames(newTags) {
		t, err := s.tagRepo.GetOrCreate(ctx, name)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[t.ID]; dup {
			continue
		}
		seen[t.ID] = struct{}{}
		tags = append(tags, *t)
	}
	return tags, nil
}

func tagIDsOf(tags []models.Tag) []uint {
	ids := make([]uint, len(tags))
	for i, t := range tags {
		ids[i] = t.ID
	}
	return ids
}
