package crud

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farzanini/blog-app/domain"
	"github.com/farzanini/blog-app/errs"
)

// TestLikeCreate covers the two-state edge rules: liking once works,
// liking again conflicts, liking a missing post is not found.
func TestLikeCreate(t *testing.T) {
	db := testDB(t)
	author := mustUser(t, db, "author")
	fan := mustUser(t, db, "fan")
	post := mustPost(t, db, author.ID, "Likable", time.Now())

	ls := NewLikeService(db)

	like := &domain.Like{UserID: fan.ID, PostID: post.ID}
	require.NoError(t, ls.Create(like))
	assert.NotZero(t, like.ID)

	err := ls.Create(&domain.Like{UserID: fan.ID, PostID: post.ID})
	require.Error(t, err)
	assert.Equal(t, errs.ECONFLICT, errs.ErrorCode(err))

	err = ls.Create(&domain.Like{UserID: fan.ID, PostID: 9999})
	require.Error(t, err)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}

// TestLikeDelete removes an existing like and rejects removing one that
// was never set.
func TestLikeDelete(t *testing.T) {
	db := testDB(t)
	author := mustUser(t, db, "author")
	fan := mustUser(t, db, "fan")
	post := mustPost(t, db, author.ID, "Likable", time.Now())
	mustLike(t, db, fan.ID, post.ID)

	ls := NewLikeService(db)

	require.NoError(t, ls.Delete(&domain.Like{UserID: fan.ID, PostID: post.ID}))

	err := ls.Delete(&domain.Like{UserID: fan.ID, PostID: post.ID})
	require.Error(t, err)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))

	// A delete followed by a fresh like starts a new edge.
	require.NoError(t, ls.Create(&domain.Like{UserID: fan.ID, PostID: post.ID}))
}

// TestLikeByUserID lists a user's likes newest first with the liked posts.
func TestLikeByUserID(t *testing.T) {
	db := testDB(t)
	author := mustUser(t, db, "author")
	fan := mustUser(t, db, "fan")
	p1 := mustPost(t, db, author.ID, "First", time.Now())
	p2 := mustPost(t, db, author.ID, "Second", time.Now())

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&domain.Like{UserID: fan.ID, PostID: p1.ID, CreatedAt: base}).Error)
	require.NoError(t, db.Create(&domain.Like{UserID: fan.ID, PostID: p2.ID, CreatedAt: base.Add(time.Minute)}).Error)

	ls := NewLikeService(db)

	likes, err := ls.ByUserID(fan.ID)
	require.NoError(t, err)
	require.Len(t, likes, 2)
	assert.Equal(t, p2.ID, likes[0].PostID)
	assert.Equal(t, "author", likes[0].Post.User.Username)
}
