package domain

import "time"

// Follow represents a self-referential many-to-many relationship between
// two users. The FollowerID is the user that follows, the FollowedID the
// user being followed. The pair is unique and a user cannot follow themselves.
type Follow struct {
	ID         int  `json:"id"`
	FollowerID int  `json:"-" gorm:"notNull;uniqueIndex:idx_follows_pair"`
	Follower   User `json:"follower"`
	FollowedID int  `json:"-" gorm:"notNull;uniqueIndex:idx_follows_pair"`
	Followed   User `json:"followed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FollowService is a set of methods to manipulate and work with the Follow model.
type FollowService interface {
	Create(follow *Follow) error
	Delete(follow *Follow) error
}
