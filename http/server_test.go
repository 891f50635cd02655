package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/farzanini/blog-app/auth"
	"github.com/farzanini/blog-app/crud"
	"github.com/farzanini/blog-app/domain"
)

// newTestServer wires a full server against a fresh in-memory sqlite
// database, the same way main does against postgres.
func newTestServer(t *testing.T, pageSize int) (*Server, *crud.Services) {
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

	services, err := crud.NewServices(
		db,
		crud.WithUser("test-hmac-key", "test-pepper"),
		crud.WithPost(pageSize),
		crud.WithTag(),
		crud.WithLike(),
		crud.WithBookmark(),
		crud.WithFollow(),
		crud.WithComment(),
		crud.WithOAuth(),
	)
	require.NoError(t, err)

	server := NewServer(false, "32-byte-long-auth-key-for-tests!", &oauth2.Config{}, services)
	return server, services
}

// registerUser signs a user up through the service and returns them with
// the plain remember token still set, ready to be sent as a cookie.
func registerUser(t *testing.T, services *crud.Services, username string) *domain.User {
	t.Helper()

	user := &domain.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "long enough",
	}
	require.NoError(t, services.User.Create(context.Background(), user))
	return user
}

// TestGetFeed pages through the feed over http, following next_cursor.
func TestGetFeed(t *testing.T) {
	server, services := newTestServer(t, 2)
	author := registerUser(t, services, "author")
	for i, title := range []string{"First", "Second", "Third"} {
		post := &domain.Post{
			UserID:    author.ID,
			Title:     title,
			CreatedAt: time.Date(2026, 3, 1, 12, i, 0, 0, time.UTC),
		}
		require.NoError(t, services.Post.Create(post))
	}

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/feed", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var page domain.FeedPage
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&page))
	require.Len(t, page.Posts, 2)
	assert.Equal(t, "Third", page.Posts[0].Title)
	assert.Equal(t, "Second", page.Posts[1].Title)
	require.NotNil(t, page.NextCursor)

	rec = httptest.NewRecorder()
	url := fmt.Sprintf("/feed?cursor=%d", *page.NextCursor)
	server.Router().ServeHTTP(rec, httptest.NewRequest("GET", url, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	page = domain.FeedPage{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&page))
	require.Len(t, page.Posts, 1)
	assert.Equal(t, "First", page.Posts[0].Title)
	assert.Nil(t, page.NextCursor)
}

// TestGetFeedBadCursor rejects a cursor that is not a number.
func TestGetFeedBadCursor(t *testing.T) {
	server, _ := newTestServer(t, 2)

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/feed?cursor=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// TestGetFeedViewerFlags sends the remember cookie along and expects the
// viewer's like flag on the post.
func TestGetFeedViewerFlags(t *testing.T) {
	server, services := newTestServer(t, 10)
	author := registerUser(t, services, "author")
	viewer := registerUser(t, services, "viewer")

	post := &domain.Post{UserID: author.ID, Title: "Liked"}
	require.NoError(t, services.Post.Create(post))
	require.NoError(t, services.Like.Create(&domain.Like{UserID: viewer.ID, PostID: post.ID}))

	req := httptest.NewRequest("GET", "/feed", nil)
	req.AddCookie(&http.Cookie{Name: "remember_token", Value: viewer.Remember})
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var page domain.FeedPage
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&page))
	require.Len(t, page.Posts, 1)
	assert.True(t, page.Posts[0].AuthLiked)
	assert.Equal(t, 1, page.Posts[0].LikeCount)
}

// TestGetPost resolves a post by slug and maps a miss to 404.
func TestGetPost(t *testing.T) {
	server, services := newTestServer(t, 10)
	author := registerUser(t, services, "author")
	post := &domain.Post{UserID: author.ID, Title: "Readable Post"}
	require.NoError(t, services.Post.Create(post))

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/post/readable-post", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got domain.Post
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, post.ID, got.ID)
	assert.Equal(t, "author", got.User.Username)

	rec = httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/post/no-such-post", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// TestRequireAuth rejects anonymous requests to protected routes.
func TestRequireAuth(t *testing.T) {
	server, _ := newTestServer(t, 10)

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/readinglist", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// TestGetSuggestions returns the authed viewer's follow suggestions.
func TestGetSuggestions(t *testing.T) {
	server, services := newTestServer(t, 10)
	author := registerUser(t, services, "author")
	viewer := registerUser(t, services, "viewer")
	fan := registerUser(t, services, "fan")

	tag := &domain.Tag{Name: "go"}
	require.NoError(t, services.Tag.Create(tag))
	post := &domain.Post{UserID: author.ID, Title: "Tagged Post"}
	require.NoError(t, services.Post.Create(post))
	require.NoError(t, services.Post.SetTags(post, []int{tag.ID}))

	require.NoError(t, services.Like.Create(&domain.Like{UserID: viewer.ID, PostID: post.ID}))
	require.NoError(t, services.Like.Create(&domain.Like{UserID: fan.ID, PostID: post.ID}))

	req := httptest.NewRequest("GET", "/suggestions", nil)
	req.AddCookie(&http.Cookie{Name: "remember_token", Value: viewer.Remember})
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var suggestions []domain.User
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&suggestions))
	require.Len(t, suggestions, 1)
	assert.Equal(t, fan.ID, suggestions[0].ID)
}

// TestUpdateProfile patches a user through the update handler and makes
// sure everything the json body doesn't carry, the password hash and the
// creation time in particular, survives the save.
func TestUpdateProfile(t *testing.T) {
	server, services := newTestServer(t, 10)
	user := registerUser(t, services, "original")

	stored, err := services.User.ByID(user.ID)
	require.NoError(t, err)
	require.False(t, stored.CreatedAt.IsZero())
	require.NotEmpty(t, stored.PasswordHash)

	body := fmt.Sprintf(`{"id":%d,"name":"New Name","username":"renamed","email":"renamed@example.com"}`, user.ID)
	req := httptest.NewRequest("PUT", "/profile/update", strings.NewReader(body))
	req = req.WithContext(auth.SetUser(req.Context(), stored))
	rec := httptest.NewRecorder()
	server.handleUpdateProfile(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	got, err := services.User.ByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Username)
	assert.Equal(t, "renamed@example.com", got.Email)
	assert.Equal(t, stored.PasswordHash, got.PasswordHash)
	assert.Equal(t, stored.RememberHash, got.RememberHash)
	assert.False(t, got.CreatedAt.IsZero())
	assert.WithinDuration(t, stored.CreatedAt, got.CreatedAt, time.Second)
}

// TestUpdateProfileForeignUser rejects a patch whose id is not the authed
// user's own.
func TestUpdateProfileForeignUser(t *testing.T) {
	server, services := newTestServer(t, 10)
	victim := registerUser(t, services, "victim")
	attacker := registerUser(t, services, "attacker")

	body := fmt.Sprintf(`{"id":%d,"username":"hijacked"}`, victim.ID)
	req := httptest.NewRequest("PUT", "/profile/update", strings.NewReader(body))
	req = req.WithContext(auth.SetUser(req.Context(), attacker))
	rec := httptest.NewRecorder()
	server.handleUpdateProfile(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	got, err := services.User.ByID(victim.ID)
	require.NoError(t, err)
	assert.Equal(t, "victim", got.Username)
}

// TestGetProfile serves a public profile with its counts and 404s on an
// unknown username.
func TestGetProfile(t *testing.T) {
	server, services := newTestServer(t, 10)
	author := registerUser(t, services, "author")
	post := &domain.Post{UserID: author.ID, Title: "Only Post"}
	require.NoError(t, services.Post.Create(post))

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/profile/author", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got domain.User
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, author.ID, got.ID)
	assert.Equal(t, 1, got.PostCount)

	rec = httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/profile/nobody", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
