package crud

import (
	"fmt"
	"testing"
	"time"

	"github.com/gosimple/slug"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/farzanini/blog-app/domain"
)

// testDB opens a fresh in-memory sqlite database for a single test. The
// database is named after the test so parallel tests never share state.
// TranslateError is on, same as in production, so the duplicate key
// mappings in the services behave identically here.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&domain.User{},
		&domain.OAuth{},
		&domain.Post{},
		&domain.Tag{},
		&domain.Like{},
		&domain.Bookmark{},
		&domain.Follow{},
		&domain.Comment{},
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// mustUser inserts a user record directly, skipping the validator chain.
// Tests that exercise the validators create their users through the service.
func mustUser(t *testing.T, db *gorm.DB, username string) *domain.User {
	t.Helper()

	user := &domain.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "$2a$10$not.a.real.hash",
		RememberHash: "remember-" + username,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// mustPost inserts a post record directly with an explicit creation time,
// which is what the feed tests order by.
func mustPost(t *testing.T, db *gorm.DB, userID int, title string, createdAt time.Time) *domain.Post {
	t.Helper()

	post := &domain.Post{
		UserID:    userID,
		Title:     title,
		Slug:      slug.Make(title),
		CreatedAt: createdAt,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

// mustTag inserts a tag record directly.
func mustTag(t *testing.T, db *gorm.DB, name string) *domain.Tag {
	t.Helper()

	tag := &domain.Tag{Name: name, Slug: slug.Make(name)}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

// mustTagPost attaches the given tags to the post.
func mustTagPost(t *testing.T, db *gorm.DB, post *domain.Post, tags ...*domain.Tag) {
	t.Helper()

	for _, tag := range tags {
		require.NoError(t, db.Model(post).Association("Tags").Append(tag))
	}
}

// mustLike inserts a like record directly.
func mustLike(t *testing.T, db *gorm.DB, userID, postID int) {
	t.Helper()
	require.NoError(t, db.Create(&domain.Like{UserID: userID, PostID: postID}).Error)
}

// mustBookmark inserts a bookmark record directly.
func mustBookmark(t *testing.T, db *gorm.DB, userID, postID int) {
	t.Helper()
	require.NoError(t, db.Create(&domain.Bookmark{UserID: userID, PostID: postID}).Error)
}
