package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"flerr-server/internal/domain"
	"flerr-server/internal/domain/model"
	"flerr-server/internal/domain/ports/adapter"
	"flerr-server/internal/domain/ports/repository"
	"flerr-server/internal/infra/logging"
)

var _ LessonUseCase = (*lessonUC)(nil)

// LessonView is a lesson prepared for a specific viewer. Accessible lessons
// carry a time-limited VideoURL and presigned material links; locked ones
// carry metadata only.
type LessonView struct {
	Lesson     *model.Lesson
	Accessible bool
	VideoURL   string
	Materials  []model.Material
}

// LessonListItem is the course-page row: metadata plus the lock state and the
// viewer's saved progress. The video key never appears here.
type LessonListItem struct {
	Lesson     *model.Lesson
	Accessible bool
	Progress   int
}

type LessonUseCase interface {
	ListByCourse(ctx context.Context, courseID string, viewer *model.User) ([]*LessonListItem, error)
	// Get resolves access for the viewer and, when granted, presigns playback
	// and material URLs.
	Get(ctx context.Context, lessonID string, viewer *model.User) (*LessonView, error)
	SaveProgress(ctx context.Context, userID, lessonID string, percent int) error

	Create(ctx context.Context, l *model.Lesson) error
	Update(ctx context.Context, l *model.Lesson) error
	Delete(ctx context.Context, id string) error
	GetRaw(ctx context.Context, id string) (*model.Lesson, error)
}

type lessonUC struct {
	lessons   repository.LessonRepository
	courses   repository.CourseRepository
	users     repository.UserRepository
	storage   adapter.ObjectStorage
	urlExpiry time.Duration
	log       *zerolog.Logger
}

func NewLessonUseCase(
	lessons repository.LessonRepository,
	courses repository.CourseRepository,
	users repository.UserRepository,
	storage adapter.ObjectStorage,
	urlExpiry time.Duration,
	logger *zerolog.Logger,
) *lessonUC {
	return &lessonUC{
		lessons:   lessons,
		courses:   courses,
		users:     users,
		storage:   storage,
		urlExpiry: urlExpiry,
		log:       logger,
	}
}

func (uc *lessonUC) ListByCourse(ctx context.Context, courseID string, viewer *model.User) ([]*LessonListItem, error) {
	defer logging.TraceDuration(uc.log, "LessonUC.ListByCourse")()

	course, err := uc.courses.FindByID(ctx, repository.NoTX, courseID)
	if err != nil {
		return nil, err
	}
	if !course.Published && (viewer == nil || !viewer.IsAdmin()) {
		return nil, domain.ErrNotFound
	}

	lessons, err := uc.lessons.ListByCourse(ctx, repository.NoTX, courseID)
	if err != nil {
		return nil, err
	}

	items := make([]*LessonListItem, 0, len(lessons))
	for _, l := range lessons {
		item := &LessonListItem{
			Lesson:     l,
			Accessible: model.CanAccessLesson(viewer, course.ID, l.FreePreview),
		}
		if viewer != nil {
			item.Progress = viewer.Progress[l.ID]
		}
		items = append(items, item)
	}
	return items, nil
}

func (uc *lessonUC) Get(ctx context.Context, lessonID string, viewer *model.User) (*LessonView, error) {
	defer logging.TraceDuration(uc.log, "LessonUC.Get")()

	l, err := uc.lessons.FindByID(ctx, repository.NoTX, lessonID)
	if err != nil {
		return nil, err
	}
	course, err := uc.courses.FindByID(ctx, repository.NoTX, l.CourseID)
	if err != nil {
		return nil, err
	}
	if !course.Published && (viewer == nil || !viewer.IsAdmin()) {
		return nil, domain.ErrNotFound
	}

	view := &LessonView{Lesson: l}
	if !model.CanAccessLesson(viewer, course.ID, l.FreePreview) {
		return view, nil
	}
	view.Accessible = true

	if l.VideoKey != "" {
		view.VideoURL, err = uc.storage.PresignDownload(ctx, l.VideoKey, uc.urlExpiry)
		if err != nil {
			return nil, err
		}
	}
	for _, m := range l.Materials {
		signed, err := uc.storage.PresignDownload(ctx, m.URL, uc.urlExpiry)
		if err != nil {
			return nil, err
		}
		view.Materials = append(view.Materials, model.Material{Title: m.Title, URL: signed, Type: m.Type})
	}
	return view, nil
}

func (uc *lessonUC) SaveProgress(ctx context.Context, userID, lessonID string, percent int) error {
	defer logging.TraceDuration(uc.log, "LessonUC.SaveProgress")()
	if percent < 0 || percent > 100 {
		return domain.ErrInvalidArgument
	}
	if _, err := uc.lessons.FindByID(ctx, repository.NoTX, lessonID); err != nil {
		return err
	}
	return uc.users.SaveProgress(ctx, repository.NoTX, userID, lessonID, percent)
}

func (uc *lessonUC) Create(ctx context.Context, l *model.Lesson) error {
	defer logging.TraceDuration(uc.log, "LessonUC.Create")()
	if err := uc.validateLesson(ctx, l); err != nil {
		return err
	}
	return uc.lessons.Create(ctx, repository.NoTX, l)
}

func (uc *lessonUC) Update(ctx context.Context, l *model.Lesson) error {
	defer logging.TraceDuration(uc.log, "LessonUC.Update")()
	if err := uc.validateLesson(ctx, l); err != nil {
		return err
	}
	return uc.lessons.Update(ctx, repository.NoTX, l)
}

func (uc *lessonUC) Delete(ctx context.Context, id string) error {
	defer logging.TraceDuration(uc.log, "LessonUC.Delete")()
	return uc.lessons.Delete(ctx, repository.NoTX, id)
}

func (uc *lessonUC) GetRaw(ctx context.Context, id string) (*model.Lesson, error) {
	return uc.lessons.FindByID(ctx, repository.NoTX, id)
}

func (uc *lessonUC) validateLesson(ctx context.Context, l *model.Lesson) error {
	l.Title = strings.TrimSpace(l.Title)
	l.Slug = strings.ToLower(strings.TrimSpace(l.Slug))
	if l.Title == "" || !slugPattern.MatchString(l.Slug) {
		return domain.ErrInvalidArgument
	}
	if _, err := uc.courses.FindByID(ctx, repository.NoTX, l.CourseID); err != nil {
		return err
	}
	return nil
}
