package seed

import (
	"strings"
	"testing"
	"time"

	"scribe/internal/database"
	"scribe/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func TestFactory_Deterministic(t *testing.T) {
	a, b := NewFactory(42), NewFactory(42)
	assert.Equal(t, a.Username(), b.Username())
	assert.Equal(t, a.Post(1), b.Post(1))
}

func TestFactory_Tags(t *testing.T) {
	f := NewFactory(7)
	tags := f.Tags(3)
	assert.Len(t, tags, 3)

	seen := map[string]bool{}
	for _, tag := range tags {
		assert.False(t, seen[tag], "duplicate tag %q", tag)
		seen[tag] = true
	}
	assert.Len(t, f.Tags(100), len(tagPool))
}

func TestFactory_UsernameIsValid(t *testing.T) {
	f := NewFactory(3)
	for range 20 {
		name := f.Username()
		assert.Regexp(t, `^[a-z0-9]+$`, name)
	}
}

func TestSeeder_Generate(t *testing.T) {
	db := setupTestDB(t)
	s := NewSeeder(db, bcrypt.MinCost)

	users, err := s.Generate(t.Context(), Options{NumUsers: 3, NumPosts: 10, MaxDays: 5, Seed: 99})
	require.NoError(t, err)
	assert.Len(t, users, 3)

	var postCount, tagCount int64
	require.NoError(t, db.Model(&models.Post{}).Count(&postCount).Error)
	require.NoError(t, db.Model(&models.Tag{}).Count(&tagCount).Error)
	assert.Equal(t, int64(10), postCount)
	assert.Positive(t, tagCount)

	var oldest models.Post
	require.NoError(t, db.Order("created_at ASC").First(&oldest).Error)
	assert.WithinDuration(t, time.Now(), oldest.CreatedAt, 5*24*time.Hour+time.Minute)

	has, err := s.HasContent(t.Context())
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, s.Clear(t.Context()))
	has, err = s.HasContent(t.Context())
	require.NoError(t, err)
	assert.False(t, has)
}

const fixtureYAML = `
users:
  - username: alice
    password: fixture-secret-pw
  - username: bob
posts:
  - author: alice
    title: Learning Go
    content: Channels and goroutines.
    tags: [Go, Concurrency]
    created_at: 2024-03-01T09:00:00Z
  - author: bob
    title: Gardening
    content: Tomatoes.
`

func TestLoadFixture(t *testing.T) {
	fx, err := LoadFixture(strings.NewReader(fixtureYAML))
	require.NoError(t, err)
	assert.Len(t, fx.Users, 2)
	require.Len(t, fx.Posts, 2)
	assert.Equal(t, []string{"Go", "Concurrency"}, fx.Posts[0].Tags)
	assert.Equal(t, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC), fx.Posts[0].CreatedAt.UTC())

	tests := []struct {
		name string
		yaml string
	}{
		{"unknown field", "users:\n  - username: a\n    email: a@b.c\n"},
		{"unknown author", "users:\n  - username: a\nposts:\n  - author: zed\n    title: t\n"},
		{"blank username", "users:\n  - username: '  '\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFixture(strings.NewReader(tt.yaml))
			assert.Error(t, err)
		})
	}

	empty, err := LoadFixture(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, empty.Posts)
}

func TestSeeder_Apply(t *testing.T) {
	db := setupTestDB(t)
	s := NewSeeder(db, bcrypt.MinCost)

	fx, err := LoadFixture(strings.NewReader(fixtureYAML))
	require.NoError(t, err)
	require.NoError(t, s.Apply(t.Context(), fx))

	var post models.Post
	require.NoError(t, db.Preload("Tags").Preload("User").Where("title = ?", "Learning Go").First(&post).Error)
	assert.Equal(t, "alice", post.User.Username)
	assert.Len(t, post.Tags, 2)
	assert.True(t, post.CreatedAt.Equal(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)))

	// users are reused on a second run
	require.NoError(t, s.Apply(t.Context(), fx))
	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Equal(t, int64(2), users)
}
