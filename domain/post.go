package domain

import (
	"time"
)

// Post represents a published article. The Slug is derived from the Title
// once at creation and never recomputed, so links to a post stay stable
// even if the author edits the title later. It must be globally unique.
type Post struct {
	ID            int    `json:"id"`
	UserID        int    `json:"user_id" gorm:"notNull;index"`
	User          User   `json:"author"`
	Slug          string `json:"slug" gorm:"uniqueIndex;notNull"`
	Title         string `json:"title" gorm:"notNull"`
	Description   string `json:"description"`
	Content       string `json:"content" gorm:"type:text"`
	FeaturedImage string `json:"featured_image"`

	Tags      []Tag      `json:"tags" gorm:"many2many:post_tags"`
	Likes     []Like     `json:"-" gorm:"foreignKey:PostID"`
	Bookmarks []Bookmark `json:"-" gorm:"foreignKey:PostID"`
	Comments  []Comment  `json:"-" gorm:"foreignKey:PostID"`

	// Aggregates and viewer flags, computed per request, never stored.
	LikeCount      int  `json:"like_count" gorm:"-"`
	BookmarkCount  int  `json:"bookmark_count" gorm:"-"`
	CommentCount   int  `json:"comment_count" gorm:"-"`
	AuthLiked      bool `json:"auth_liked" gorm:"-"`
	AuthBookmarked bool `json:"auth_bookmarked" gorm:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FeedPage is one page of the reverse-chronological feed. NextCursor holds
// the ID of the last post on the page and is absent on the final page.
type FeedPage struct {
	Posts      []Post `json:"posts"`
	NextCursor *int   `json:"next_cursor,omitempty"`
}

// PostService is a set of methods to manipulate and work with the Post model.
// A viewerID of 0 means the request is anonymous; viewer flags stay false then.
type PostService interface {
	Feed(viewerID, cursorID int) (*FeedPage, error)
	ByID(id int) (*Post, error)
	BySlug(slug string, viewerID int) (*Post, error)
	ByUsername(username string, viewerID int) ([]Post, error)
	Create(post *Post) error
	Update(post *Post) error
	SetTags(post *Post, tagIDs []int) error
}
