package domain

import "time"

// Like represents a many-to-many relationship between a User and a Post.
// A user may like a given post at most once; the composite unique index
// backs that invariant at the database level.
type Like struct {
	ID     int  `json:"id"`
	UserID int  `json:"user_id" gorm:"notNull;uniqueIndex:idx_likes_user_post"`
	PostID int  `json:"post_id" gorm:"notNull;uniqueIndex:idx_likes_user_post"`
	Post   Post `json:"post"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LikeService is a set of methods to manipulate and work with the Like model.
type LikeService interface {
	Create(like *Like) error
	Delete(like *Like) error
	ByUserID(userID int) ([]Like, error)
}
