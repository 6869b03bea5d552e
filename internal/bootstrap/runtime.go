// Package bootstrap wires the process-wide runtime shared by the server and
// the seeder.
package bootstrap

import (
	"context"
	"fmt"

	"scribe/internal/cache"
	"scribe/internal/config"
	"scribe/internal/database"
	"scribe/internal/middleware"
	"scribe/internal/seed"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedDemo fills an empty development database with generated posts.
	SeedDemo bool
}

// InitRuntime connects to DB and Redis and optionally seeds demo content.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Init Redis (may result in nil client if unreachable)
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.SeedDemo {
		if err := seedDemo(cfg, db); err != nil {
			return nil, nil, fmt.Errorf("failed to seed demo content: %w", err)
		}
	}

	return db, r, nil
}

func seedDemo(cfg *config.Config, db *gorm.DB) error {
	if cfg.IsProduction() {
		return nil
	}
	ctx := context.Background()
	s := seed.NewSeeder(db, bcrypt.MinCost)
	has, err := s.HasContent(ctx)
	if err != nil || has {
		return err
	}
	middleware.Logger.Info("seeding demo content into empty database")
	_, err = s.Generate(ctx, seed.Options{NumUsers: 5, NumPosts: 30, MaxDays: 30})
	return err
}
