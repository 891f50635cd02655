package crud

import (
	"errors"

	"gorm.io/gorm"

	"github.com/farzanini/blog-app/domain"
	"github.com/farzanini/blog-app/errs"
)

// BookmarkService manages Bookmarks, which double as the reading list.
// It implements the domain.BookmarkService interface.
type BookmarkService struct {
	bookmarkValidator
}

// bookmarkValidator runs validations on incoming Bookmark data.
// On success, it passes the data on to bookmarkGorm.
// Otherwise, it returns the error of the validation that has failed.
type bookmarkValidator struct {
	bookmarkGorm
}

// bookmarkGorm runs CRUD operations on the database using incoming Bookmark data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type bookmarkGorm struct {
	db *gorm.DB
}

// NewBookmarkService returns an instance of BookmarkService.
func NewBookmarkService(db *gorm.DB) *BookmarkService {
	return &BookmarkService{
		bookmarkValidator{
			bookmarkGorm{
				db: db,
			},
		},
	}
}

// Ensure the BookmarkService struct properly implements the domain.BookmarkService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.BookmarkService = &BookmarkService{}

// Create runs validations needed for creating new Bookmark database records.
// Bookmarking a post twice is a conflict, same policy as likes.
func (bv *bookmarkValidator) Create(bookmark *domain.Bookmark) error {
	err := runBookmarkValFns(bookmark,
		bv.userIdValid,
		bv.bookmarkedPostExists,
		bv.notAlreadyBookmarked)
	if err != nil {
		return err
	}
	return bv.bookmarkGorm.Create(bookmark)
}

// Delete runs validations needed for deleting existing Bookmark database records.
func (bv *bookmarkValidator) Delete(bookmark *domain.Bookmark) error {
	err := runBookmarkValFns(bookmark, bv.bookmarkExists)
	if err != nil {
		return err
	}
	return bv.bookmarkGorm.Delete(bookmark)
}

// runBookmarkValFns runs any number of functions of type bookmarkValFn on the passed in
// Bookmark object. If none of them returns an error, it returns nil. Otherwise, it
// returns the respective error.
func runBookmarkValFns(bookmark *domain.Bookmark, fns ...bookmarkValFn) error {
	for _, fn := range fns {
		if err := fn(bookmark); err != nil {
			return err
		}
	}
	return nil
}

// A bookmarkValFn is any function that takes in a pointer to a domain.Bookmark object and returns an error.
type bookmarkValFn func(bookmark *domain.Bookmark) error

// bookmarkExists makes sure that the Bookmark record to be deleted actually exists.
func (bv *bookmarkValidator) bookmarkExists(bookmark *domain.Bookmark) error {
	err := bv.db.First(&domain.Bookmark{}, "user_id = ? AND post_id = ?", bookmark.UserID, bookmark.PostID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Errorf(errs.ENOTFOUND, "You cannot remove a bookmark you have not set.")
		}
		return err
	}
	return nil
}

// bookmarkedPostExists makes sure that the post to be bookmarked actually exists.
func (bv *bookmarkValidator) bookmarkedPostExists(bookmark *domain.Bookmark) error {
	err := bv.db.First(&domain.Post{}, "id = ?", bookmark.PostID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Errorf(errs.ENOTFOUND, "The bookmarked post does not exist.")
		}
		return err
	}
	return nil
}

// notAlreadyBookmarked makes sure that the user hasn't already bookmarked the post.
func (bv *bookmarkValidator) notAlreadyBookmarked(bookmark *domain.Bookmark) error {
	err := bv.db.First(&domain.Bookmark{}, "user_id = ? AND post_id = ?", bookmark.UserID, bookmark.PostID).Error
	if err == nil {
		return errs.Errorf(errs.ECONFLICT, "You already bookmarked this post.")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

// userIdValid ensures that the userId is not empty.
func (bv *bookmarkValidator) userIdValid(bookmark *domain.Bookmark) error {
	if bookmark.UserID <= 0 {
		return errs.UserIdValid
	}
	return nil
}

// ByUserID retrieves the bookmarks of a user, newest first, along with the
// bookmarked Post and its author. This is the user's reading list.
func (bg *bookmarkGorm) ByUserID(userID int) ([]domain.Bookmark, error) {
	var bookmarks []domain.Bookmark
	err := bg.db.
		Where("user_id = ?", userID).
		Preload("Post.User").
		Preload("Post.Tags").
		Order("created_at DESC").
		Find(&bookmarks).Error
	if err != nil {
		return nil, err
	}
	return bookmarks, nil
}

// Create stores the data from the Bookmark object in a new database record.
// The composite unique index resolves races past the validator.
func (bg *bookmarkGorm) Create(bookmark *domain.Bookmark) error {
	err := bg.db.Create(bookmark).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.Errorf(errs.ECONFLICT, "You already bookmarked this post.")
		}
		return err
	}
	return nil
}

// Delete permanently deletes the database record matching the data from the Bookmark object.
func (bg *bookmarkGorm) Delete(bookmark *domain.Bookmark) error {
	return bg.db.Delete(&domain.Bookmark{}, "user_id = ? AND post_id = ?", bookmark.UserID, bookmark.PostID).Error
}
