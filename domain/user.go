package domain

import (
	"context"
	"time"
)

type User struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username" gorm:"uniqueIndex;notNull"`
	Email    string `json:"email" gorm:"uniqueIndex;notNull"`
	Image    string `json:"image"`

	// Password and Remember only ever exist in memory. The database
	// stores their hashed counterparts.
	Password     string `json:"password,omitempty" gorm:"-"`
	PasswordHash string `json:"-" gorm:"notNull"`
	Remember     string `json:"-" gorm:"-"`
	RememberHash string `json:"-" gorm:"uniqueIndex"`

	// NoPasswordNeeded is set for users signing up through an oauth
	// provider, which leaves no password to validate.
	NoPasswordNeeded bool `json:"-" gorm:"-"`

	Posts     []Post     `json:"-" gorm:"foreignKey:UserID"`
	Likes     []Like     `json:"-" gorm:"foreignKey:UserID"`
	Bookmarks []Bookmark `json:"-" gorm:"foreignKey:UserID"`
	Followers []Follow   `json:"-" gorm:"foreignKey:FollowedID"`
	Followeds []Follow   `json:"-" gorm:"foreignKey:FollowerID"`

	// Computed per request, never stored.
	PostCount     int     `json:"post_count" gorm:"-"`
	FollowerCount int     `json:"follower_count" gorm:"-"`
	FollowedCount int     `json:"followed_count" gorm:"-"`
	AuthFollow    *Follow `json:"auth_follow,omitempty" gorm:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserService is a set of methods to manipulate and work with the User model.
// It also covers the backend of the auth system and the user suggestions.
type UserService interface {
	Authenticate(email, password string) (*User, error)
	ByID(id int) (*User, error)
	ByEmail(email string) (*User, error)
	ByUsername(username string) (*User, error)
	ByRemember(token string) (*User, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	MakeRememberToken() (string, error)
	Suggestions(viewerID int) ([]User, error)
	GetAuthFollow(followerID, followedID int) (*Follow, error)
	CountPosts(userID int) (int, error)
	CountFollowers(userID int) (int, error)
	CountFolloweds(userID int) (int, error)
}
