package repository

import (
	"context"

	"flerr-server/internal/domain/model"
)

type CourseRepository interface {
	// Create inserts a course. Returns domain.ErrAlreadyExists on a slug
	// collision.
	Create(ctx context.Context, tx Tx, c *model.Course) error
	Update(ctx context.Context, tx Tx, c *model.Course) error
	// Delete removes the course; owned lessons are removed by the storage
	// layer in the same statement batch.
	Delete(ctx context.Context, tx Tx, id string) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Course, error)
	FindBySlug(ctx context.Context, tx Tx, slug string) (*model.Course, error)
	List(ctx context.Context, tx Tx, f model.CourseFilter, offset, limit int) ([]*model.Course, int, error)
	CountPublished(ctx context.Context, tx Tx) (int, error)
	TopByStudents(ctx context.Context, tx Tx, limit int) ([]*model.Course, error)
}
