package domain

import "time"

// Comment is a short reaction to a post, shown in the post page sidebar.
type Comment struct {
	ID      int    `json:"id"`
	UserID  int    `json:"user_id" gorm:"notNull;index"`
	User    User   `json:"author"`
	PostID  int    `json:"post_id" gorm:"notNull;index"`
	Content string `json:"content" gorm:"type:text;notNull"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CommentService is a set of methods to manipulate and work with the Comment model.
type CommentService interface {
	Create(comment *Comment) error
	ByPostID(postID int) ([]Comment, error)
}
