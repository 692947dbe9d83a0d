package postgres

import (
	"context"
	"encoding/json"
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

var _ repository.LessonRepository = (*lessonRepo)(nil)

type lessonRepo struct {
	pool *pgxpool.Pool
}

func NewLessonRepo(pool *pgxpool.Pool) repository.LessonRepository {
	return &lessonRepo{pool: pool}
}

const lessonColumns = `id, course_id, title, slug, description, duration_sec, video_key, thumbnail_url, subtitles_url, materials, chapters, free_preview, position, created_at, updated_at`

func (r *lessonRepo) Create(ctx context.Context, tx repository.Tx, l *model.Lesson) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	now := time.Now()
	if l.CreatedAt.IsZero() {
		l.CreatedAt = now
	}
	l.UpdatedAt = now

	materials, chapters, err := marshalLessonJSON(l)
	if err != nil {
		return err
	}

	const q = `
INSERT INTO lessons (id, course_id, title, slug, description, duration_sec, video_key, thumbnail_url, subtitles_url, materials, chapters, free_preview, position, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15);
`
	_, err = execSQL(ctx, r.pool, tx, q,
		l.ID, l.CourseID, l.Title, l.Slug, l.Description, l.DurationSec, l.VideoKey,
		l.ThumbnailURL, l.SubtitlesURL, materials, chapters, l.FreePreview, l.Order,
		l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("insert lesson: %w", err)
	}
	return nil
}

func (r *lessonRepo) Update(ctx context.Context, tx repository.Tx, l *model.Lesson) error {
	materials, chapters, err := marshalLessonJSON(l)
	if err != nil {
		return err
	}

	const q = `
UPDATE lessons
   SET title=$2, slug=$3, description=$4, duration_sec=$5, video_key=$6, thumbnail_url=$7,
       subtitles_url=$8, materials=$9, chapters=$10, free_preview=$11, position=$12, updated_at=now()
 WHERE id=$1;
`
	tag, err := execSQL(ctx, r.pool, tx, q,
		l.ID, l.Title, l.Slug, l.Description, l.DurationSec, l.VideoKey, l.ThumbnailURL,
		l.SubtitlesURL, materials, chapters, l.FreePreview, l.Order,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("update lesson: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *lessonRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	tag, err := execSQL(ctx, r.pool, tx, `DELETE FROM lessons WHERE id=$1;`, id)
	if err != nil {
		return fmt.Errorf("delete lesson: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *lessonRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Lesson, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+lessonColumns+` FROM lessons WHERE id=$1;`, id)
	if err != nil {
		return nil, err
	}
	return scanLesson(row)
}

func (r *lessonRepo) ListByCourse(ctx context.Context, tx repository.Tx, courseID string) ([]*model.Lesson, error) {
	rows, err := querySQL(ctx, r.pool, tx,
		`SELECT `+lessonColumns+` FROM lessons WHERE course_id=$1 ORDER BY position;`, courseID)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	defer rows.Close()

	var out []*model.Lesson
	for rows.Next() {
		l, err := scanLesson(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *lessonRepo) Count(ctx context.Context, tx repository.Tx) (int, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM lessons;`)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("count lessons: %w", err)
	}
	return n, nil
}

func (r *lessonRepo) Search(ctx context.Context, tx repository.Tx, query string, offset, limit int) ([]*model.Lesson, error) {
	rows, err := querySQL(ctx, r.pool, tx, `
SELECT `+lessonColumns+`
  FROM lessons
 WHERE (title ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%')
   AND course_id IN (SELECT id FROM courses WHERE published)
 ORDER BY created_at DESC OFFSET $2 LIMIT $3;`, query, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("search lessons: %w", err)
	}
	defer rows.Close()

	var out []*model.Lesson
	for rows.Next() {
		l, err := scanLesson(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func marshalLessonJSON(l *model.Lesson) ([]byte, []byte, error) {
	if l.Materials == nil {
		l.Materials = []model.Material{}
	}
	if l.Chapters == nil {
		l.Chapters = []model.Chapter{}
	}
	materials, err := json.Marshal(l.Materials)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal materials: %w", err)
	}
	chapters, err := json.Marshal(l.Chapters)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal chapters: %w", err)
	}
	return materials, chapters, nil
}

func scanLesson(row pgx.Row) (*model.Lesson, error) {
	var l model.Lesson
	var materials, chapters []byte
	err := row.Scan(
		&l.ID, &l.CourseID, &l.Title, &l.Slug, &l.Description, &l.DurationSec, &l.VideoKey,
		&l.ThumbnailURL, &l.SubtitlesURL, &materials, &chapters, &l.FreePreview, &l.Order,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	if err := json.Unmarshal(materials, &l.Materials); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	if err := json.Unmarshal(chapters, &l.Chapters); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return &l, nil
}
