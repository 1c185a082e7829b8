// Package testutil holds helpers shared by package tests.
package testutil

import (
	"testing"

	"github.com/ahmetcoskunkizilkaya/postmod/internal/database"
	"github.com/ahmetcoskunkizilkaya/postmod/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated in-memory SQLite database. A single connection is
// used so every query sees the same memory database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	opts := database.Options()
	opts.Logger = logger.Default.LogMode(logger.Silent)

	db, err := gorm.Open(sqlite.Open(":memory:"), opts)
	require.NoError(t, err, "failed to open test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db), "failed to migrate test database")
	return db
}

// CreateUser inserts a user with the given username and role.
func CreateUser(t *testing.T, db *gorm.DB, username, role string) *models.User {
	t.Helper()
	user := &models.User{
		ID:       uuid.New(),
		Username: username,
		Email:    username + "@example.com",
		Password: "x",
		Role:     role,
		Name:     username,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreatePost inserts an active post owned by userID.
func CreatePost(t *testing.T, db *gorm.DB, userID uuid.UUID, description string) *models.Post {
	t.Helper()
	post := &models.Post{
		Title:       "title",
		Description: description,
		Image:       "https://example.com/image.png",
		Active:      true,
		UserID:      userID,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

// CreateComment inserts a comment by userID on postID.
func CreateComment(t *testing.T, db *gorm.DB, postID, userID uuid.UUID, content string) *models.Comment {
	t.Helper()
	comment := &models.Comment{
		PostID:  postID,
		UserID:  userID,
		Content: content,
	}
	require.NoError(t, db.Create(comment).Error)
	return comment
}
