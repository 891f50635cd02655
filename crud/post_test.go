package crud

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farzanini/blog-app/domain"
	"github.com/farzanini/blog-app/errs"
)

var feedBase = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// TestFeedPagination walks a three post feed with a page size of two and
// checks that following the cursor visits every post exactly once, newest
// first, and that the final page carries no cursor.
func TestFeedPagination(t *testing.T) {
	db := testDB(t)
	author := mustUser(t, db, "author")
	p1 := mustPost(t, db, author.ID, "First", feedBase)
	p2 := mustPost(t, db, author.ID, "Second", feedBase.Add(time.Minute))
	p3 := mustPost(t, db, author.ID, "Third", feedBase.Add(2*time.Minute))

	ps := NewPostService(db, 2)

	page1, err := ps.Feed(0, 0)
	require.NoError(t, err)
	require.Len(t, page1.Posts, 2)
	assert.Equal(t, p3.ID, page1.Posts[0].ID)
	assert.Equal(t, p2.ID, page1.Posts[1].ID)
	require.NotNil(t, page1.NextCursor)
	assert.Equal(t, p2.ID, *page1.NextCursor)

	page2, err := ps.Feed(0, *page1.NextCursor)
	require.NoError(t, err)
	require.Len(t, page2.Posts, 1)
	assert.Equal(t, p1.ID, page2.Posts[0].ID)
	assert.Nil(t, page2.NextCursor)
}

// TestFeedExactMultiple makes sure a feed whose size is an exact multiple of
// the page size still terminates: the last full page must not hand out a
// cursor that would lead to an empty page.
func TestFeedExactMultiple(t *testing.T) {
	db := testDB(t)
	author := mustUser(t, db, "author")
	mustPost(t, db, author.ID, "First", feedBase)
	mustPost(t, db, author.ID, "Second", feedBase.Add(time.Minute))
	mustPost(t, db, author.ID, "Third", feedBase.Add(2*time.Minute))
	mustPost(t, db, author.ID, "Fourth", feedBase.Add(3*time.Minute))

	ps := NewPostService(db, 2)

	page1, err := ps.Feed(0, 0)
	require.NoError(t, err)
	require.NotNil(t, page1.NextCursor)

	page2, err := ps.Feed(0, *page1.NextCursor)
	require.NoError(t, err)
	assert.Len(t, page2.Posts, 2)
	assert.Nil(t, page2.NextCursor)
}

// TestFeedEmpty makes sure an empty feed returns an empty page, not null.
func TestFeedEmpty(t *testing.T) {
	db := testDB(t)
	ps := NewPostService(db, 2)

	page, err := ps.Feed(0, 0)
	require.NoError(t, err)
	assert.NotNil(t, page.Posts)
	assert.Empty(t, page.Posts)
	assert.Nil(t, page.NextCursor)
}

// TestFeedStaleCursor deletes the post a cursor points at and expects the
// next request to fall back to the top of the feed rather than fail.
func TestFeedStaleCursor(t *testing.T) {
	db := testDB(t)
	author := mustUser(t, db, "author")
	mustPost(t, db, author.ID, "First", feedBase)
	p2 := mustPost(t, db, author.ID, "Second", feedBase.Add(time.Minute))
	p3 := mustPost(t, db, author.ID, "Third", feedBase.Add(2*time.Minute))

	ps := NewPostService(db, 2)

	page1, err := ps.Feed(0, 0)
	require.NoError(t, err)
	require.NotNil(t, page1.NextCursor)
	require.Equal(t, p2.ID, *page1.NextCursor)

	require.NoError(t, db.Delete(&domain.Post{}, p2.ID).Error)

	page2, err := ps.Feed(0, *page1.NextCursor)
	require.NoError(t, err)
	require.Len(t, page2.Posts, 2)
	assert.Equal(t, p3.ID, page2.Posts[0].ID)
}

// TestFeedStableUnderInsert publishes a new post between two page fetches
// and expects the second page to be unaffected: no duplicates, no gaps.
func TestFeedStableUnderInsert(t *testing.T) {
	db := testDB(t)
	author := mustUser(t, db, "author")
	p1 := mustPost(t, db, author.ID, "First", feedBase)
	mustPost(t, db, author.ID, "Second", feedBase.Add(time.Minute))
	mustPost(t, db, author.ID, "Third", feedBase.Add(2*time.Minute))

	ps := NewPostService(db, 2)

	page1, err := ps.Feed(0, 0)
	require.NoError(t, err)
	require.NotNil(t, page1.NextCursor)

	// A new post lands on top of the feed mid-pagination.
	mustPost(t, db, author.ID, "Fourth", feedBase.Add(3*time.Minute))

	page2, err := ps.Feed(0, *page1.NextCursor)
	require.NoError(t, err)
	require.Len(t, page2.Posts, 1)
	assert.Equal(t, p1.ID, page2.Posts[0].ID)
	assert.Nil(t, page2.NextCursor)
}

// TestFeedTieBreak gives two posts the exact same creation time and expects
// the id to break the tie deterministically across page boundaries.
func TestFeedTieBreak(t *testing.T) {
	db := testDB(t)
	author := mustUser(t, db, "author")
	older := mustPost(t, db, author.ID, "Older twin", feedBase)
	newer := mustPost(t, db, author.ID, "Newer twin", feedBase)

	ps := NewPostService(db, 1)

	page1, err := ps.Feed(0, 0)
	require.NoError(t, err)
	require.Len(t, page1.Posts, 1)
	assert.Equal(t, newer.ID, page1.Posts[0].ID)
	require.NotNil(t, page1.NextCursor)

	page2, err := ps.Feed(0, *page1.NextCursor)
	require.NoError(t, err)
	require.Len(t, page2.Posts, 1)
	assert.Equal(t, older.ID, page2.Posts[0].ID)
	assert.Nil(t, page2.NextCursor)
}

// TestFeedAnnotations checks the aggregate counts for everyone and the
// like/bookmark flags for authenticated viewers only.
func TestFeedAnnotations(t *testing.T) {
	db := testDB(t)
	author := mustUser(t, db, "author")
	viewer := mustUser(t, db, "viewer")
	other := mustUser(t, db, "other")
	post := mustPost(t, db, author.ID, "Annotated", feedBase)

	mustLike(t, db, viewer.ID, post.ID)
	mustLike(t, db, other.ID, post.ID)
	mustBookmark(t, db, other.ID, post.ID)

	ps := NewPostService(db, 10)

	page, err := ps.Feed(viewer.ID, 0)
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	got := page.Posts[0]
	assert.Equal(t, 2, got.LikeCount)
	assert.Equal(t, 1, got.BookmarkCount)
	assert.True(t, got.AuthLiked)
	assert.False(t, got.AuthBookmarked)

	// The anonymous rendition keeps the counts but no flags.
	page, err = ps.Feed(0, 0)
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	got = page.Posts[0]
	assert.Equal(t, 2, got.LikeCount)
	assert.False(t, got.AuthLiked)
	assert.False(t, got.AuthBookmarked)
}

// TestPostCreate checks slug derivation and the uniqueness rule: a second
// post with a title mapping to the same slug is a conflict.
func TestPostCreate(t *testing.T) {
	db := testDB(t)
	author := mustUser(t, db, "author")
	ps := NewPostService(db, 10)

	post := &domain.Post{
		UserID:  author.ID,
		Title:   "Going Places with Go!",
		Content: "Lorem ipsum.",
	}
	require.NoError(t, ps.Create(post))
	assert.Equal(t, "going-places-with-go", post.Slug)
	assert.Equal(t, "author", post.User.Username)

	dup := &domain.Post{
		UserID: author.ID,
		Title:  "Going Places With GO",
	}
	err := ps.Create(dup)
	require.Error(t, err)
	assert.Equal(t, errs.ECONFLICT, errs.ErrorCode(err))
}

// TestPostCreateInvalid checks the required field validations.
func TestPostCreateInvalid(t *testing.T) {
	db := testDB(t)
	author := mustUser(t, db, "author")
	ps := NewPostService(db, 10)

	err := ps.Create(&domain.Post{UserID: author.ID, Title: "   "})
	require.Error(t, err)
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))

	err = ps.Create(&domain.Post{Title: "No author"})
	require.Error(t, err)
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))
}

// TestPostBySlug resolves a post by slug and checks the not-found mapping.
func TestPostBySlug(t *testing.T) {
	db := testDB(t)
	author := mustUser(t, db, "author")
	post := mustPost(t, db, author.ID, "Findable", feedBase)

	ps := NewPostService(db, 10)

	got, err := ps.BySlug("findable", 0)
	require.NoError(t, err)
	assert.Equal(t, post.ID, got.ID)
	assert.Equal(t, "author", got.User.Username)

	_, err = ps.BySlug("no-such-slug", 0)
	require.Error(t, err)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}

// TestPostSlugStable edits a post's title and expects the slug to survive.
func TestPostSlugStable(t *testing.T) {
	db := testDB(t)
	author := mustUser(t, db, "author")
	post := mustPost(t, db, author.ID, "Original title", feedBase)

	ps := NewPostService(db, 10)

	post.Title = "A brand new title"
	require.NoError(t, ps.Update(post))

	got, err := ps.BySlug("original-title", 0)
	require.NoError(t, err)
	assert.Equal(t, "A brand new title", got.Title)
}

// TestPostUpdateImage checks the featured image url validation.
func TestPostUpdateImage(t *testing.T) {
	db := testDB(t)
	author := mustUser(t, db, "author")
	post := mustPost(t, db, author.ID, "Illustrated", feedBase)

	ps := NewPostService(db, 10)

	post.FeaturedImage = "not a url"
	err := ps.Update(post)
	require.Error(t, err)
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))

	post.FeaturedImage = "https://images.example.com/cover.jpg"
	require.NoError(t, ps.Update(post))
}

// TestPostSetTags replaces a post's tag set, then clears it.
func TestPostSetTags(t *testing.T) {
	db := testDB(t)
	author := mustUser(t, db, "author")
	post := mustPost(t, db, author.ID, "Tagged", feedBase)
	golang := mustTag(t, db, "go")
	web := mustTag(t, db, "web")

	ps := NewPostService(db, 10)

	require.NoError(t, ps.SetTags(post, []int{golang.ID, web.ID}))
	assert.Len(t, post.Tags, 2)

	err := ps.SetTags(post, []int{golang.ID, 9999})
	require.Error(t, err)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))

	require.NoError(t, ps.SetTags(post, nil))
	assert.Empty(t, post.Tags)
}

// TestPostByUsername lists an author's posts newest first.
func TestPostByUsername(t *testing.T) {
	db := testDB(t)
	author := mustUser(t, db, "author")
	other := mustUser(t, db, "other")
	mustPost(t, db, author.ID, "First", feedBase)
	p2 := mustPost(t, db, author.ID, "Second", feedBase.Add(time.Minute))
	mustPost(t, db, other.ID, "Elsewhere", feedBase.Add(2*time.Minute))

	ps := NewPostService(db, 10)

	posts, err := ps.ByUsername("author", 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, p2.ID, posts[0].ID)
}
