package usecase

import (
	"context"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"flerr-server/internal/domain"
	"flerr-server/internal/domain/model"
	"flerr-server/internal/domain/ports/repository"
	"flerr-server/internal/infra/logging"
)

var _ CourseUseCase = (*courseUC)(nil)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

type CourseUseCase interface {
	// ListPublic lists published courses only, regardless of the filter.
	ListPublic(ctx context.Context, f model.CourseFilter, offset, limit int) ([]*model.Course, int, error)
	// GetBySlug returns the course; unpublished courses are visible only to
	// admins.
	GetBySlug(ctx context.Context, slug string, viewer *model.User) (*model.Course, error)
	SetFavorite(ctx context.Context, userID, courseID string, favorite bool) error

	Create(ctx context.Context, c *model.Course) error
	Update(ctx context.Context, c *model.Course) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*model.Course, error)
	ListAll(ctx context.Context, f model.CourseFilter, offset, limit int) ([]*model.Course, int, error)
}

type courseUC struct {
	courses repository.CourseRepository
	users   repository.UserRepository
	log     *zerolog.Logger
}

func NewCourseUseCase(courses repository.CourseRepository, users repository.UserRepository, logger *zerolog.Logger) *courseUC {
	return &courseUC{courses: courses, users: users, log: logger}
}

func (uc *courseUC) ListPublic(ctx context.Context, f model.CourseFilter, offset, limit int) ([]*model.Course, int, error) {
	defer logging.TraceDuration(uc.log, "CourseUC.ListPublic")()
	f.PublishedOnly = true
	return uc.courses.List(ctx, repository.NoTX, f, offset, limit)
}

func (uc *courseUC) GetBySlug(ctx context.Context, slug string, viewer *model.User) (*model.Course, error) {
	defer logging.TraceDuration(uc.log, "CourseUC.GetBySlug")()
	c, err := uc.courses.FindBySlug(ctx, repository.NoTX, slug)
	if err != nil {
		return nil, err
	}
	if !c.Published && (viewer == nil || !viewer.IsAdmin()) {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (uc *courseUC) SetFavorite(ctx context.Context, userID, courseID string, favorite bool) error {
	defer logging.TraceDuration(uc.log, "CourseUC.SetFavorite")()
	if _, err := uc.courses.FindByID(ctx, repository.NoTX, courseID); err != nil {
		return err
	}
	return uc.users.SetFavorite(ctx, repository.NoTX, userID, courseID, favorite)
}

func (uc *courseUC) Create(ctx context.Context, c *model.Course) error {
	defer logging.TraceDuration(uc.log, "CourseUC.Create")()
	if err := validateCourse(c); err != nil {
		return err
	}
	return uc.courses.Create(ctx, repository.NoTX, c)
}

func (uc *courseUC) Update(ctx context.Context, c *model.Course) error {
	defer logging.TraceDuration(uc.log, "CourseUC.Update")()
	if err := validateCourse(c); err != nil {
		return err
	}
	return uc.courses.Update(ctx, repository.NoTX, c)
}

func (uc *courseUC) Delete(ctx context.Context, id string) error {
	defer logging.TraceDuration(uc.log, "CourseUC.Delete")()
	return uc.courses.Delete(ctx, repository.NoTX, id)
}

func (uc *courseUC) Get(ctx context.Context, id string) (*model.Course, error) {
	return uc.courses.FindByID(ctx, repository.NoTX, id)
}

func (uc *courseUC) ListAll(ctx context.Context, f model.CourseFilter, offset, limit int) ([]*model.Course, int, error) {
	return uc.courses.List(ctx, repository.NoTX, f, offset, limit)
}

func validateCourse(c *model.Course) error {
	c.Title = strings.TrimSpace(c.Title)
	c.Slug = strings.ToLower(strings.TrimSpace(c.Slug))
	if c.Title == "" || !slugPattern.MatchString(c.Slug) {
		return domain.ErrInvalidArgument
	}
	if c.Price < 0 {
		return domain.ErrInvalidArgument
	}
	return nil
}
