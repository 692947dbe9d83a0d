package repository

import (
	"context"

	"flerr-server/internal/domain/model"
)

type LessonRepository interface {
	// Create inserts a lesson. Returns domain.ErrAlreadyExists when the slug
	// already exists within the course.
	Create(ctx context.Context, tx Tx, l *model.Lesson) error
	Update(ctx context.Context, tx Tx, l *model.Lesson) error
	Delete(ctx context.Context, tx Tx, id string) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Lesson, error)
	// ListByCourse returns the course's lessons ordered by their position.
	ListByCourse(ctx context.Context, tx Tx, courseID string) ([]*model.Lesson, error)
	Count(ctx context.Context, tx Tx) (int, error)
	Search(ctx context.Context, tx Tx, query string, offset, limit int) ([]*model.Lesson, error)
}
