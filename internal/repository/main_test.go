package repository

import (
	"testing"
	"time"

	"scribe/internal/database"
	"scribe/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return gormDB, mock
}

// setupTestDB returns a migrated in-memory sqlite database. A single
// connection keeps every statement on the same in-memory database.
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

var epoch = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Password: "hash"}
	require.NoError(t, db.Create(u).Error)
	return u
}

func createTag(t *testing.T, db *gorm.DB, name string) models.Tag {
	t.Helper()
	tag := models.Tag{Name: name}
	require.NoError(t, db.Create(&tag).Error)
	return tag
}

func createPost(t *testing.T, db *gorm.DB, author *models.User, title, content string, minute int, tags ...models.Tag) *models.Post {
	t.Helper()
	p := &models.Post{
		Title:     title,
		Content:   content,
		UserID:    author.ID,
		Tags:      tags,
		CreatedAt: epoch.Add(time.Duration(minute) * time.Minute),
	}
	require.NoError(t, NewPostRepository(db).Create(t.Context(), p))
	return p
}
