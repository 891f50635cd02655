package domain

import "time"

// Bookmark has the same shape and uniqueness rule as Like but lives its
// own lifecycle: a post may be liked and bookmarked independently.
// The viewer's bookmarks form their reading list.
type Bookmark struct {
	ID     int  `json:"id"`
	UserID int  `json:"user_id" gorm:"notNull;uniqueIndex:idx_bookmarks_user_post"`
	PostID int  `json:"post_id" gorm:"notNull;uniqueIndex:idx_bookmarks_user_post"`
	Post   Post `json:"post"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BookmarkService is a set of methods to manipulate and work with the Bookmark model.
type BookmarkService interface {
	Create(bookmark *Bookmark) error
	Delete(bookmark *Bookmark) error
	ByUserID(userID int) ([]Bookmark, error)
}
