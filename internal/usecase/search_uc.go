package usecase

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"flerr-server/internal/domain/model"
	"flerr-server/internal/domain/ports/repository"
	"flerr-server/internal/infra/logging"
)

var _ SearchUseCase = (*searchUC)(nil)

// SearchResults groups matches by kind. Only published courses and their
// lessons appear.
type SearchResults struct {
	Courses []*model.Course
	Lessons []*model.Lesson
}

type SearchUseCase interface {
	Search(ctx context.Context, query string, limit int) (*SearchResults, error)
}

type searchUC struct {
	courses repository.CourseRepository
	lessons repository.LessonRepository
	log     *zerolog.Logger
}

func NewSearchUseCase(courses repository.CourseRepository, lessons repository.LessonRepository, logger *zerolog.Logger) *searchUC {
	return &searchUC{courses: courses, lessons: lessons, log: logger}
}

func (uc *searchUC) Search(ctx context.Context, query string, limit int) (*SearchResults, error) {
	defer logging.TraceDuration(uc.log, "SearchUC.Search")()

	query = strings.TrimSpace(query)
	if query == "" {
		return &SearchResults{}, nil
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	courses, _, err := uc.courses.List(ctx, repository.NoTX, model.CourseFilter{PublishedOnly: true, Search: query}, 0, limit)
	if err != nil {
		return nil, err
	}
	lessons, err := uc.lessons.Search(ctx, repository.NoTX, query, 0, limit)
	if err != nil {
		return nil, err
	}
	return &SearchResults{Courses: courses, Lessons: lessons}, nil
}
