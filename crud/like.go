package crud

import (
	"errors"

	"gorm.io/gorm"

	"github.com/farzanini/blog-app/domain"
	"github.com/farzanini/blog-app/errs"
)

// LikeService manages Likes.
// It implements the domain.LikeService interface.
type LikeService struct {
	likeValidator
}

// likeValidator runs validations on incoming Like data.
// On success, it passes the data on to likeGorm.
// Otherwise, it returns the error of the validation that has failed.
type likeValidator struct {
	likeGorm
}

// likeGorm runs CRUD operations on the database using incoming Like data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type likeGorm struct {
	db *gorm.DB
}

// NewLikeService returns an instance of LikeService.
func NewLikeService(db *gorm.DB) *LikeService {
	return &LikeService{
		likeValidator{
			likeGorm{
				db: db,
			},
		},
	}
}

// Ensure the LikeService struct properly implements the domain.LikeService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.LikeService = &LikeService{}

// Create runs validations needed for creating new Like database records.
// Liking a post twice is a conflict, not a no-op: the caller treats the
// conflict as already-in-desired-state.
func (lv *likeValidator) Create(like *domain.Like) error {
	err := runLikeValFns(like,
		lv.userIdValid,
		lv.likedPostExists,
		lv.notAlreadyLiked)
	if err != nil {
		return err
	}
	return lv.likeGorm.Create(like)
}

// Delete runs validations needed for deleting existing Like database records.
func (lv *likeValidator) Delete(like *domain.Like) error {
	err := runLikeValFns(like, lv.likeExists)
	if err != nil {
		return err
	}
	return lv.likeGorm.Delete(like)
}

// runLikeValFns runs any number of functions of type likeValFn on the passed in Like object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runLikeValFns(like *domain.Like, fns ...likeValFn) error {
	for _, fn := range fns {
		if err := fn(like); err != nil {
			return err
		}
	}
	return nil
}

// A likeValFn is any function that takes in a pointer to a domain.Like object and returns an error.
type likeValFn func(like *domain.Like) error

// likeExists makes sure that the Like record to be deleted actually exists.
func (lv *likeValidator) likeExists(like *domain.Like) error {
	err := lv.db.First(&domain.Like{}, "user_id = ? AND post_id = ?", like.UserID, like.PostID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Errorf(errs.ENOTFOUND, "You cannot unlike a post you have not liked.")
		}
		return err
	}
	return nil
}

// likedPostExists makes sure that the post to be liked actually exists.
func (lv *likeValidator) likedPostExists(like *domain.Like) error {
	err := lv.db.First(&domain.Post{}, "id = ?", like.PostID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Errorf(errs.ENOTFOUND, "The liked post does not exist.")
		}
		return err
	}
	return nil
}

// notAlreadyLiked makes sure that the user doesn't already like the post.
func (lv *likeValidator) notAlreadyLiked(like *domain.Like) error {
	err := lv.db.First(&domain.Like{}, "user_id = ? AND post_id = ?", like.UserID, like.PostID).Error
	if err == nil {
		return errs.Errorf(errs.ECONFLICT, "You already like this post.")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

// userIdValid ensures that the userId is not empty.
func (lv *likeValidator) userIdValid(like *domain.Like) error {
	if like.UserID <= 0 {
		return errs.UserIdValid
	}
	return nil
}

// ByUserID retrieves the likes of a user, newest first, along with the
// liked Post and its author.
func (lg *likeGorm) ByUserID(userID int) ([]domain.Like, error) {
	var likes []domain.Like
	err := lg.db.
		Where("user_id = ?", userID).
		Preload("Post.User").
		Order("created_at DESC").
		Find(&likes).Error
	if err != nil {
		return nil, err
	}
	return likes, nil
}

// Create stores the data from the Like object in a new database record.
// Two parallel requests can both pass notAlreadyLiked; the composite unique
// index resolves the race and the loser surfaces the same conflict error.
func (lg *likeGorm) Create(like *domain.Like) error {
	err := lg.db.Create(like).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.Errorf(errs.ECONFLICT, "You already like this post.")
		}
		return err
	}
	return nil
}

// Delete permanently deletes the database record matching the data from the Like object.
func (lg *likeGorm) Delete(like *domain.Like) error {
	return lg.db.Delete(&domain.Like{}, "user_id = ? AND post_id = ?", like.UserID, like.PostID).Error
}
