package domain

import "time"

// Tag labels posts. Its name is globally unique, the slug is derived
// from the name at creation.
type Tag struct {
	ID          int    `json:"id"`
	Name        string `json:"name" gorm:"uniqueIndex;notNull"`
	Slug        string `json:"slug" gorm:"uniqueIndex"`
	Description string `json:"description"`

	Posts []Post `json:"-" gorm:"many2many:post_tags"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TagService is a set of methods to manipulate and work with the Tag model.
type TagService interface {
	Create(tag *Tag) error
	All() ([]Tag, error)
}
