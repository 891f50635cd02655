package crud

import (
	"errors"
	"net/url"
	"strings"

	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/farzanini/blog-app/domain"
	"github.com/farzanini/blog-app/errs"
)

// PostService manages Posts, including the cursor-paginated feed.
// It implements the domain.PostService interface.
type PostService struct {
	postValidator
}

// postValidator runs validations on incoming Post data.
// On success, it passes the data on to postGorm.
// Otherwise, it returns the error of the validation that has failed.
type postValidator struct {
	postGorm
}

// postGorm runs CRUD operations on the database using incoming Post data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type postGorm struct {
	db       *gorm.DB
	pageSize int
}

// NewPostService returns an instance of PostService. The pageSize is the
// fixed number of posts per feed page and must be a positive integer.
func NewPostService(db *gorm.DB, pageSize int) *PostService {
	return &PostService{
		postValidator{
			postGorm{
				db:       db,
				pageSize: pageSize,
			},
		},
	}
}

// Ensure the PostService struct properly implements the domain.PostService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.PostService = &PostService{}

// Create runs validations needed for creating new Post database records.
// The slug is derived from the title here, once, and never recomputed.
func (pv *postValidator) Create(post *domain.Post) error {
	err := runPostValFns(post,
		pv.userIdValid,
		pv.titleRequired,
		pv.slugSetIfUnset,
		pv.slugIsAvail)
	if err != nil {
		return err
	}
	return pv.postGorm.Create(post)
}

// Update runs validations needed for updating existing Post database records.
func (pv *postValidator) Update(post *domain.Post) error {
	err := runPostValFns(post,
		pv.idValid,
		pv.titleRequired,
		pv.featuredImageValid)
	if err != nil {
		return err
	}
	return pv.postGorm.Update(post)
}

// SetTags replaces the post's tag set with the tags matching the given IDs.
func (pv *postValidator) SetTags(post *domain.Post, tagIDs []int) error {
	if err := pv.idValid(post); err != nil {
		return err
	}
	return pv.postGorm.SetTags(post, tagIDs)
}

// runPostValFns runs any number of functions of type postValFn on the passed in Post object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runPostValFns(post *domain.Post, fns ...postValFn) error {
	for _, fn := range fns {
		if err := fn(post); err != nil {
			return err
		}
	}
	return nil
}

// A postValFn is any function that takes in a pointer to a domain.Post object and returns an error.
type postValFn func(post *domain.Post) error

// featuredImageValid makes sure a provided featured image is a well-formed absolute url.
func (pv *postValidator) featuredImageValid(post *domain.Post) error {
	if post.FeaturedImage == "" {
		return nil
	}
	u, err := url.Parse(post.FeaturedImage)
	if err != nil || !u.IsAbs() {
		return errs.Errorf(errs.EINVALID, "The featured image must be a valid url.")
	}
	return nil
}

// idValid makes sure that the passed in ID of a Post is greater than 0.
func (pv *postValidator) idValid(post *domain.Post) error {
	if post.ID <= 0 {
		return errs.IdInvalid
	}
	return nil
}

// slugIsAvail makes sure that the derived slug is not yet taken by another post.
func (pv *postValidator) slugIsAvail(post *domain.Post) error {
	var existing domain.Post
	err := pv.db.First(&existing, "slug = ?", post.Slug).Error
	if err == nil && existing.ID != post.ID {
		return errs.Errorf(errs.ECONFLICT, "A post with this title already exists.")
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

// slugSetIfUnset derives the post's slug from its title if none is provided.
func (pv *postValidator) slugSetIfUnset(post *domain.Post) error {
	if post.Slug != "" {
		return nil
	}
	post.Slug = slug.Make(post.Title)
	return nil
}

// titleRequired makes sure that the title is not empty.
func (pv *postValidator) titleRequired(post *domain.Post) error {
	if strings.TrimSpace(post.Title) == "" {
		return errs.Errorf(errs.EINVALID, "A title is required.")
	}
	return nil
}

// userIdValid ensures that the userId is not empty.
func (pv *postValidator) userIdValid(post *domain.Post) error {
	if post.UserID <= 0 {
		return errs.UserIdValid
	}
	return nil
}

// Feed returns one page of the reverse-chronological post feed.
//
// Posts are ordered by created_at descending with the id as tie-break, so
// two posts created in the same instant still page consistently. When a
// cursor is supplied, the query seeks strictly past the cursor post instead
// of counting offsets, which keeps pagination stable while new posts are
// being inserted. It fetches one row more than the page size; the extra row
// only signals that another page exists and is popped before returning.
// A cursor pointing to a deleted post falls back to the top of the feed.
func (pg *postGorm) Feed(viewerID, cursorID int) (*domain.FeedPage, error) {
	query := pg.db.Preload("User").Preload("Tags")
	if cursorID > 0 {
		var after domain.Post
		err := pg.db.First(&after, "id = ?", cursorID).Error
		if err == nil {
			query = query.Where("(created_at, id) < (?, ?)", after.CreatedAt, after.ID)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	var posts []domain.Post
	err := query.
		Order("created_at DESC, id DESC").
		Limit(pg.pageSize + 1).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}

	page := &domain.FeedPage{Posts: []domain.Post{}}
	if len(posts) > pg.pageSize {
		posts = posts[:pg.pageSize]
		last := posts[len(posts)-1].ID
		page.NextCursor = &last
	}
	page.Posts = append(page.Posts, posts...)

	for i := range page.Posts {
		if err := pg.annotate(&page.Posts[i], viewerID); err != nil {
			return nil, err
		}
	}
	return page, nil
}

// ByID retrieves a single Post by ID, without annotations. It's meant for
// ownership checks before mutations.
func (pg *postGorm) ByID(id int) (*domain.Post, error) {
	var post domain.Post
	err := pg.db.First(&post, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "The post does not exist.")
		}
		return nil, err
	}
	return &post, nil
}

// BySlug retrieves a single Post by its unique slug, along with its author,
// tags, counts and the viewer's like/bookmark flags.
func (pg *postGorm) BySlug(slug string, viewerID int) (*domain.Post, error) {
	var post domain.Post
	err := pg.db.
		Preload("User").
		Preload("Tags").
		First(&post, "slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "The post does not exist.")
		}
		return nil, err
	}
	if err := pg.annotate(&post, viewerID); err != nil {
		return nil, err
	}
	return &post, nil
}

// ByUsername retrieves all posts written by the given user, newest first.
func (pg *postGorm) ByUsername(username string, viewerID int) ([]domain.Post, error) {
	var posts []domain.Post
	err := pg.db.
		Joins("JOIN users ON users.id = posts.user_id").
		Where("users.username = ?", username).
		Preload("User").
		Preload("Tags").
		Order("posts.created_at DESC, posts.id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	for i := range posts {
		if err := pg.annotate(&posts[i], viewerID); err != nil {
			return nil, err
		}
	}
	return posts, nil
}

// annotate fills in the computed fields of a post: the aggregate counts for
// everyone, and the like/bookmark flags only for authenticated viewers.
func (pg *postGorm) annotate(post *domain.Post, viewerID int) error {
	likes, err := pg.CountLikes(post.ID)
	if err != nil {
		return err
	}
	post.LikeCount = likes

	bookmarks, err := pg.CountBookmarks(post.ID)
	if err != nil {
		return err
	}
	post.BookmarkCount = bookmarks

	comments, err := pg.CountComments(post.ID)
	if err != nil {
		return err
	}
	post.CommentCount = comments

	if viewerID > 0 {
		post.AuthLiked = pg.AuthLikes(viewerID, post.ID)
		post.AuthBookmarked = pg.AuthBookmarks(viewerID, post.ID)
	}
	return nil
}

// CountLikes returns the number of likes across all users for the given post.
func (pg *postGorm) CountLikes(postID int) (int, error) {
	var count int64
	err := pg.db.Model(&domain.Like{}).Where("post_id = ?", postID).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// CountBookmarks returns the number of bookmarks across all users for the given post.
func (pg *postGorm) CountBookmarks(postID int) (int, error) {
	var count int64
	err := pg.db.Model(&domain.Bookmark{}).Where("post_id = ?", postID).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// CountComments returns the number of comments on the given post.
func (pg *postGorm) CountComments(postID int) (int, error) {
	var count int64
	err := pg.db.Model(&domain.Comment{}).Where("post_id = ?", postID).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// AuthLikes takes a user ID and a post ID and returns a boolean expressing
// whether the given user likes the given post or not.
func (pg *postGorm) AuthLikes(userID, postID int) bool {
	err := pg.db.First(&domain.Like{}, "user_id = ? AND post_id = ?", userID, postID).Error
	return err == nil
}

// AuthBookmarks takes a user ID and a post ID and returns a boolean expressing
// whether the given user has bookmarked the given post or not.
func (pg *postGorm) AuthBookmarks(userID, postID int) bool {
	err := pg.db.First(&domain.Bookmark{}, "user_id = ? AND post_id = ?", userID, postID).Error
	return err == nil
}

// Create stores the data from the Post object in a new database record.
// On success, it eager-loads the author relation for the json response.
func (pg *postGorm) Create(post *domain.Post) error {
	if err := pg.db.Create(post).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.Errorf(errs.ECONFLICT, "A post with this title already exists.")
		}
		return err
	}
	return pg.db.Preload("User").First(post).Error
}

// Update saves changes to an existing post record in the database.
func (pg *postGorm) Update(post *domain.Post) error {
	return pg.db.Save(post).Error
}

// SetTags replaces the tag associations of a post.
func (pg *postGorm) SetTags(post *domain.Post, tagIDs []int) error {
	var tags []domain.Tag
	if len(tagIDs) > 0 {
		if err := pg.db.Find(&tags, "id IN ?", tagIDs).Error; err != nil {
			return err
		}
		if len(tags) != len(tagIDs) {
			return errs.Errorf(errs.ENOTFOUND, "One of the tags does not exist.")
		}
	}
	if err := pg.db.Model(post).Association("Tags").Replace(tags); err != nil {
		return err
	}
	post.Tags = tags
	return nil
}
