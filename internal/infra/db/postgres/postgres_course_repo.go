package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"flerr-server/internal/domain"
	"flerr-server/internal/domain/model"
	"flerr-server/internal/domain/ports/repository"
)

var _ repository.CourseRepository = (*courseRepo)(nil)

type courseRepo struct {
	pool *pgxpool.Pool
}

func NewCourseRepo(pool *pgxpool.Pool) repository.CourseRepository {
	return &courseRepo{pool: pool}
}

const courseColumns = `id, title, slug, description, short_description, level, categories, cover_url, price, published, instructor, duration_min, students_count, rating, created_at, updated_at`

func (r *courseRepo) Create(ctx context.Context, tx repository.Tx, c *model.Course) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	if c.Level == "" {
		c.Level = model.LevelBeginner
	}
	if c.Categories == nil {
		c.Categories = []string{}
	}

	const q = `
INSERT INTO courses (id, title, slug, description, short_description, level, categories, cover_url, price, published, instructor, duration_min, students_count, rating, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16);
`
	_, err := execSQL(ctx, r.pool, tx, q,
		c.ID, c.Title, c.Slug, c.Description, c.ShortDescription, string(c.Level), c.Categories,
		c.CoverURL, c.Price, c.Published, c.Instructor, c.DurationMin, c.StudentsCount, c.Rating,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("insert course: %w", err)
	}
	return nil
}

func (r *courseRepo) Update(ctx context.Context, tx repository.Tx, c *model.Course) error {
	const q = `
UPDATE courses
   SET title=$2, slug=$3, description=$4, short_description=$5, level=$6, categories=$7,
       cover_url=$8, price=$9, published=$10, instructor=$11, duration_min=$12,
       students_count=$13, rating=$14, updated_at=now()
 WHERE id=$1;
`
	tag, err := execSQL(ctx, r.pool, tx, q,
		c.ID, c.Title, c.Slug, c.Description, c.ShortDescription, string(c.Level), c.Categories,
		c.CoverURL, c.Price, c.Published, c.Instructor, c.DurationMin, c.StudentsCount, c.Rating,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("update course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete relies on the lessons FK cascade, so a course and its lessons go
// together.
func (r *courseRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	tag, err := execSQL(ctx, r.pool, tx, `DELETE FROM courses WHERE id=$1;`, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *courseRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Course, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+courseColumns+` FROM courses WHERE id=$1;`, id)
	if err != nil {
		return nil, err
	}
	return scanCourse(row)
}

func (r *courseRepo) FindBySlug(ctx context.Context, tx repository.Tx, slug string) (*model.Course, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+courseColumns+` FROM courses WHERE slug=$1;`, slug)
	if err != nil {
		return nil, err
	}
	return scanCourse(row)
}

func (r *courseRepo) List(ctx context.Context, tx repository.Tx, f model.CourseFilter, offset, limit int) ([]*model.Course, int, error) {
	where := `
 WHERE (NOT $1 OR published)
   AND ($2 = '' OR level = $2)
   AND ($3 = '' OR $3 = ANY(categories))
   AND ($4 = '' OR title ILIKE '%' || $4 || '%' OR description ILIKE '%' || $4 || '%' OR short_description ILIKE '%' || $4 || '%')`
	args := []interface{}{f.PublishedOnly, string(f.Level), f.Category, f.Search}

	row, err := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM courses`+where+`;`, args...)
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := row.Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}

	rows, err := querySQL(ctx, r.pool, tx,
		`SELECT `+courseColumns+` FROM courses`+where+` ORDER BY created_at DESC OFFSET $5 LIMIT $6;`,
		append(args, offset, limit)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	var out []*model.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *courseRepo) CountPublished(ctx context.Context, tx repository.Tx) (int, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM courses WHERE published;`)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("count published courses: %w", err)
	}
	return n, nil
}

func (r *courseRepo) TopByStudents(ctx context.Context, tx repository.Tx, limit int) ([]*model.Course, error) {
	rows, err := querySQL(ctx, r.pool, tx,
		`SELECT `+courseColumns+` FROM courses WHERE published ORDER BY students_count DESC LIMIT $1;`, limit)
	if err != nil {
		return nil, fmt.Errorf("top courses: %w", err)
	}
	defer rows.Close()

	var out []*model.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanCourse(row pgx.Row) (*model.Course, error) {
	var c model.Course
	var level string
	err := row.Scan(
		&c.ID, &c.Title, &c.Slug, &c.Description, &c.ShortDescription, &level, &c.Categories,
		&c.CoverURL, &c.Price, &c.Published, &c.Instructor, &c.DurationMin, &c.StudentsCount,
		&c.Rating, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	c.Level = model.CourseLevel(level)
	return &c, nil
}
