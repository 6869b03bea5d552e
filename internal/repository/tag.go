package repository

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"scribe/internal/cache"
	"scribe/internal/models"
	"scribe/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// maxTagCreateAttempts bounds the lookup/insert loop in GetOrCreate.
const maxTagCreateAttempts = 3

// TagRepository defines persistence operations for tags.
type TagRepository interface {
	// GetOrCreate returns the tag whose slug matches name's slug, creating it
	// if needed. Concurrent callers with the same name receive the same tag.
	GetOrCreate(ctx context.Context, name string) (*models.Tag, error)
	GetBySlug(ctx context.Context, slug string) (*models.Tag, error)
	GetByIDs(ctx context.Context, ids []uint) ([]models.Tag, error)
	List(ctx context.Context) ([]models.Tag, error)
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository returns a new TagRepository implementation.
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) GetOrCreate(ctx context.Context, name string) (*models.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.NewValidationError("Tag name is required")
	}
	if utf8.RuneCountInString(name) > models.MaxTagNameLength {
		return nil, models.NewValidationError("Tag name must be at most 50 characters")
	}
	slug := models.Slugify(name)
	if slug == "" {
		return nil, models.NewValidationError("Tag name must contain letters or digits")
	}

	// The unique slug index arbitrates concurrent creators: the loser's insert
	// is a no-op and its next lookup finds the winner's row. Reads go to the
	// primary so a lagging replica cannot hide a fresh tag.
	for attempt := 0; attempt < maxTagCreateAttempts; attempt++ {
		var tag models.Tag
		err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&tag).Error
		if err == nil {
			return &tag, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewInternalError(err)
		}

		tag = models.Tag{Name: name, Slug: slug}
		res := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "slug"}}, DoNothing: true}).
			Create(&tag)
		if res.Error != nil && !isUniqueConstraintError(res.Error) {
			return nil, models.NewInternalError(res.Error)
		}
		if res.Error == nil && res.RowsAffected == 1 && tag.ID != 0 {
			return &tag, nil
		}
		observability.TagCreateConflicts.Inc()
	}

	return nil, models.NewConflictError("Tag " + slug + " could not be created, retry the request")
}

func (r *tagRepository) GetBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	var tag models.Tag
	err := cache.Aside(ctx, cache.TagSlugKey(slug), &tag, cache.TagTTL, func() error {
		if err := readDB(r.db).WithContext(ctx).Where("slug = ?", slug).First(&tag).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Tag", slug)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// GetByIDs returns the tags with the given ids. Missing ids are simply absent
// from the result.
func (r *tagRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.Tag, error) {
	if len(ids) == 0 {
		return []models.Tag{}, nil
	}
	var tags []models.Tag
	if err := readDB(r.db).WithContext(ctx).Where("id IN ?", ids).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return tags, nil
}

func (r *tagRepository) List(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := readDB(r.db).WithContext(ctx).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return tags, nil
}
