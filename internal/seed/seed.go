package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"scribe/internal/middleware"
	"scribe/internal/models"
	"scribe/internal/render"
	"scribe/internal/repository"
	"scribe/internal/service"

	"gorm.io/gorm"
)

// DefaultPassword is given to generated users.
const DefaultPassword = "scribe-demo-pass"

// Options configuration for the seeder
type Options struct {
	NumUsers int
	NumPosts int
	// MaxDays spreads created_at over the last MaxDays days.
	MaxDays int
	// Seed makes generated data reproducible; zero picks a random seed.
	Seed int64
}

// Seeder writes demo data through the user and post services.
type Seeder struct {
	db       *gorm.DB
	userRepo repository.UserRepository
	users    *service.UserService
	posts    *service.PostService
}

// NewSeeder binds a Seeder to db. bcryptCost is passed to the user service;
// use bcrypt.MinCost for fast seeding.
func NewSeeder(db *gorm.DB, bcryptCost int) *Seeder {
	userRepo := repository.NewUserRepository(db)
	return &Seeder{
		db:       db,
		userRepo: userRepo,
		users:    service.NewUserService(userRepo).WithBcryptCost(bcryptCost),
		posts: service.NewPostService(
			repository.NewPostRepository(db),
			repository.NewTagRepository(db),
			render.NewHTMLRenderer(),
		),
	}
}

// Clear removes every post, tag and user.
func (s *Seeder) Clear(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM post_tags").Error; err != nil {
			return err
		}
		for _, model := range []any{&models.Post{}, &models.Tag{}, &models.User{}} {
			if err := tx.Unscoped().Where("1 = 1").Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Generate creates opts.NumUsers users and opts.NumPosts posts spread
// round-robin across them.
func (s *Seeder) Generate(ctx context.Context, opts Options) ([]models.User, error) {
	f := NewFactory(opts.Seed)

	users := make([]models.User, 0, opts.NumUsers)
	for len(users) < opts.NumUsers {
		user, err := s.users.Register(ctx, service.RegisterInput{
			Username: f.Username(),
			Password: DefaultPassword,
		})
		if models.ErrorCode(err) == models.CodeConflict {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		users = append(users, *user)
	}
	middleware.Logger.InfoContext(ctx, "seeded users", "count", len(users))

	if len(users) == 0 {
		return users, nil
	}
	for i := 0; i < opts.NumPosts; i++ {
		author := users[i%len(users)]
		post, err := s.posts.CreatePost(ctx, f.Post(author.ID))
		if err != nil {
			return nil, fmt.Errorf("create post: %w", err)
		}
		if err := s.backdate(ctx, post.ID, f.CreatedAt(opts.MaxDays)); err != nil {
			return nil, err
		}
	}
	middleware.Logger.InfoContext(ctx, "seeded posts", "count", opts.NumPosts)
	return users, nil
}

// Apply loads a fixture. Users that already exist are reused.
func (s *Seeder) Apply(ctx context.Context, fx *Fixture) error {
	ids := make(map[string]uint, len(fx.Users))
	for _, u := range fx.Users {
		username := strings.TrimSpace(u.Username)
		existing, err := s.userRepo.GetByUsername(ctx, username)
		if err != nil {
			return err
		}
		if existing != nil {
			ids[username] = existing.ID
			continue
		}

		password := u.Password
		if password == "" {
			password = DefaultPassword
		}
		user, err := s.users.Register(ctx, service.RegisterInput{Username: username, Password: password})
		if err != nil {
			return fmt.Errorf("user %q: %w", username, err)
		}
		ids[username] = user.ID
	}

	for i, p := range fx.Posts {
		post, err := s.posts.CreatePost(ctx, service.CreatePostInput{
			UserID:   ids[strings.TrimSpace(p.Author)],
			Title:    p.Title,
			Content:  p.Content,
			ImageURL: p.ImageURL,
			NewTags:  strings.Join(p.Tags, ","),
		})
		if err != nil {
			return fmt.Errorf("posts[%d]: %w", i, err)
		}
		if !p.CreatedAt.IsZero() {
			if err := s.backdate(ctx, post.ID, p.CreatedAt); err != nil {
				return err
			}
		}
	}
	middleware.Logger.InfoContext(ctx, "applied fixture", "users", len(fx.Users), "posts", len(fx.Posts))
	return nil
}

// HasContent reports whether any post exists.
func (s *Seeder) HasContent(ctx context.Context) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Post{}).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// backdate rewrites created_at, which the model treats as insert-only.
func (s *Seeder) backdate(ctx context.Context, postID uint, at time.Time) error {
	res := s.db.WithContext(ctx).Exec("UPDATE posts SET created_at = ? WHERE id = ?", at, postID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.New("backdate: post not found")
	}
	return nil
}
