package repository

import (
	"context"
	"errors"

	"scribe/internal/models"
	"scribe/internal/search"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	// Search returns every post whose title, content, tag name or author
	// username contains query, ignoring case. An empty query returns all posts.
	Search(ctx context.Context, query string) ([]models.Post, error)
	ListByTag(ctx context.Context, tagID uint) ([]models.Post, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Post, error)
	Update(ctx context.Context, post *models.Post, tags []models.Tag) error
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func withPostDetails(db *gorm.DB) *gorm.DB {
	return db.Preload("User").Preload("Tags", func(db *gorm.DB) *gorm.DB {
		return db.Order("tags.name ASC")
	})
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	// Tags are attached by id only; their rows are never rewritten here.
	if err := r.db.WithContext(ctx).Omit("User", "Tags.*").Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := withPostDetails(readDB(r.db).WithContext(ctx)).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) Search(ctx context.Context, query string) ([]models.Post, error) {
	query = search.Normalize(query)
	if query == "" {
		return r.list(ctx, nil)
	}

	like := containsPattern(query)
	var ids []uint
	err := readDB(r.db).WithContext(ctx).Model(&models.Post{}).
		Joins("JOIN users ON users.id = posts.user_id").
		Joins("LEFT JOIN post_tags ON post_tags.post_id = posts.id").
		Joins("LEFT JOIN tags ON tags.id = post_tags.tag_id").
		Where(`LOWER(posts.title) LIKE ? ESCAPE '\' OR LOWER(posts.content) LIKE ? ESCAPE '\' OR LOWER(tags.name) LIKE ? ESCAPE '\' OR LOWER(users.username) LIKE ? ESCAPE '\'`,
			like, like, like, like).
		Order("posts.created_at DESC, posts.id DESC").
		Pluck("posts.id", &ids).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	// one row per matching tag; collapse to one per post
	ids = search.UniqueIDs(ids)
	if len(ids) == 0 {
		return []models.Post{}, nil
	}
	return r.list(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("posts.id IN ?", ids)
	})
}

func (r *postRepository) ListByTag(ctx context.Context, tagID uint) ([]models.Post, error) {
	tagged := readDB(r.db).WithContext(ctx).Table("post_tags").Select("post_id").Where("tag_id = ?", tagID)
	return r.list(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("posts.id IN (?)", tagged)
	})
}

func (r *postRepository) ListByUser(ctx context.Context, userID uint) ([]models.Post, error) {
	return r.list(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("posts.user_id = ?", userID)
	})
}

func (r *postRepository) list(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]models.Post, error) {
	q := withPostDetails(readDB(r.db).WithContext(ctx))
	if scope != nil {
		q = q.Scopes(scope)
	}

	var posts []models.Post
	if err := q.Order("posts.created_at DESC, posts.id DESC").Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// Update writes title, content and image, and when tags is non-nil replaces
// the post's tag set with it. Author and created_at are never written.
func (r *postRepository) Update(ctx context.Context, post *models.Post, tags []models.Tag) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(post).Updates(map[string]any{
			"title":     post.Title,
			"content":   post.Content,
			"image_url": post.ImageURL,
		}).Error; err != nil {
			return err
		}
		if tags == nil {
			return nil
		}
		if err := tx.Model(post).Association("Tags").Replace(tags); err != nil {
			return err
		}
		post.Tags = tags
		return nil
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Post{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	return nil
}
