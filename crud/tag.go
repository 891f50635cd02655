package crud

import (
	"errors"
	"strings"

	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/farzanini/blog-app/domain"
	"github.com/farzanini/blog-app/errs"
)

// TagService manages Tags.
// It implements the domain.TagService interface.
type TagService struct {
	tagValidator
}

// tagValidator runs validations on incoming Tag data.
// On success, it passes the data on to tagGorm.
// Otherwise, it returns the error of the validation that has failed.
type tagValidator struct {
	tagGorm
}

// tagGorm runs CRUD operations on the database using incoming Tag data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type tagGorm struct {
	db *gorm.DB
}

// NewTagService returns an instance of TagService.
func NewTagService(db *gorm.DB) *TagService {
	return &TagService{
		tagValidator{
			tagGorm{
				db: db,
			},
		},
	}
}

// Ensure the TagService struct properly implements the domain.TagService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.TagService = &TagService{}

// Create runs validations needed for creating new Tag database records.
// A duplicate tag name is a conflict.
func (tv *tagValidator) Create(tag *domain.Tag) error {
	err := runTagValFns(tag,
		tv.nameNormalize,
		tv.nameRequired,
		tv.nameIsAvail,
		tv.slugSetIfUnset)
	if err != nil {
		return err
	}
	return tv.tagGorm.Create(tag)
}

// runTagValFns runs any number of functions of type tagValFn on the passed in Tag object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runTagValFns(tag *domain.Tag, fns ...tagValFn) error {
	for _, fn := range fns {
		if err := fn(tag); err != nil {
			return err
		}
	}
	return nil
}

// A tagValFn is any function that takes in a pointer to a domain.Tag object and returns an error.
type tagValFn func(tag *domain.Tag) error

// nameIsAvail makes sure that the tag name is not yet taken.
func (tv *tagValidator) nameIsAvail(tag *domain.Tag) error {
	var existing domain.Tag
	err := tv.db.First(&existing, "name = ?", tag.Name).Error
	if err == nil && existing.ID != tag.ID {
		return errs.Errorf(errs.ECONFLICT, "This tag already exists.")
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

// nameNormalize trims the whitespaces around the tag name.
func (tv *tagValidator) nameNormalize(tag *domain.Tag) error {
	tag.Name = strings.TrimSpace(tag.Name)
	return nil
}

// nameRequired makes sure that the tag name is not empty.
func (tv *tagValidator) nameRequired(tag *domain.Tag) error {
	if tag.Name == "" {
		return errs.Errorf(errs.EINVALID, "A tag name is required.")
	}
	return nil
}

// slugSetIfUnset derives the tag's slug from its name if none is provided.
func (tv *tagValidator) slugSetIfUnset(tag *domain.Tag) error {
	if tag.Slug != "" {
		return nil
	}
	tag.Slug = slug.Make(tag.Name)
	return nil
}

// All retrieves all tags, alphabetically.
func (tg *tagGorm) All() ([]domain.Tag, error) {
	var tags []domain.Tag
	err := tg.db.Order("name ASC").Find(&tags).Error
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// Create stores the data from the Tag object in a new database record.
// The unique index on the name resolves creation races past the validator.
func (tg *tagGorm) Create(tag *domain.Tag) error {
	err := tg.db.Create(tag).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.Errorf(errs.ECONFLICT, "This tag already exists.")
		}
		return err
	}
	return nil
}
