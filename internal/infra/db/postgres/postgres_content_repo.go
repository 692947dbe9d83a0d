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

// ---- teachers ----

var _ repository.TeacherRepository = (*teacherRepo)(nil)

type teacherRepo struct {
	pool *pgxpool.Pool
}

func NewTeacherRepo(pool *pgxpool.Pool) repository.TeacherRepository {
	return &teacherRepo{pool: pool}
}

func (r *teacherRepo) Save(ctx context.Context, tx repository.Tx, t *model.Teacher) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	if t.CourseIDs == nil {
		t.CourseIDs = []string{}
	}
	social, err := json.Marshal(t.Social)
	if err != nil {
		return fmt.Errorf("marshal social links: %w", err)
	}

	const q = `
INSERT INTO teachers (id, name, photo, specialization, bio, experience, course_ids, position, active, social, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7::uuid[],$8,$9,$10,$11,$12)
ON CONFLICT (id) DO UPDATE SET
  name=$2, photo=$3, specialization=$4, bio=$5, experience=$6, course_ids=$7::uuid[],
  position=$8, active=$9, social=$10, updated_at=$12;
`
	_, err = execSQL(ctx, r.pool, tx, q,
		t.ID, t.Name, t.Photo, t.Specialization, t.Bio, t.Experience, t.CourseIDs,
		t.Order, t.Active, social, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save teacher: %w", err)
	}
	return nil
}

func (r *teacherRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	tag, err := execSQL(ctx, r.pool, tx, `DELETE FROM teachers WHERE id=$1;`, id)
	if err != nil {
		return fmt.Errorf("delete teacher: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const teacherColumns = `id, name, photo, specialization, bio, experience, course_ids::text[], position, active, social, created_at, updated_at`

func (r *teacherRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Teacher, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+teacherColumns+` FROM teachers WHERE id=$1;`, id)
	if err != nil {
		return nil, err
	}
	return scanTeacher(row)
}

func (r *teacherRepo) List(ctx context.Context, tx repository.Tx, activeOnly bool) ([]*model.Teacher, error) {
	rows, err := querySQL(ctx, r.pool, tx,
		`SELECT `+teacherColumns+` FROM teachers WHERE (NOT $1 OR active) ORDER BY position;`, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	defer rows.Close()

	var out []*model.Teacher
	for rows.Next() {
		t, err := scanTeacher(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scanTeacher(row pgx.Row) (*model.Teacher, error) {
	var t model.Teacher
	var social []byte
	err := row.Scan(
		&t.ID, &t.Name, &t.Photo, &t.Specialization, &t.Bio, &t.Experience, &t.CourseIDs,
		&t.Order, &t.Active, &social, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	if err := json.Unmarshal(social, &t.Social); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return &t, nil
}

// ---- gallery ----

var _ repository.GalleryRepository = (*galleryRepo)(nil)

type galleryRepo struct {
	pool *pgxpool.Pool
}

func NewGalleryRepo(pool *pgxpool.Pool) repository.GalleryRepository {
	return &galleryRepo{pool: pool}
}

func (r *galleryRepo) Save(ctx context.Context, tx repository.Tx, g *model.GalleryItem) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	now := time.Now()
	if g.CreatedAt.IsZero() {
		g.CreatedAt = now
	}
	g.UpdatedAt = now

	const q = `
INSERT INTO gallery_items (id, title, image_url, category, description, position, featured, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (id) DO UPDATE SET
  title=$2, image_url=$3, category=$4, description=$5, position=$6, featured=$7, updated_at=$9;
`
	_, err := execSQL(ctx, r.pool, tx, q,
		g.ID, g.Title, g.ImageURL, g.Category, g.Description, g.Order, g.Featured, g.CreatedAt, g.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save gallery item: %w", err)
	}
	return nil
}

func (r *galleryRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	tag, err := execSQL(ctx, r.pool, tx, `DELETE FROM gallery_items WHERE id=$1;`, id)
	if err != nil {
		return fmt.Errorf("delete gallery item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const galleryColumns = `id, title, image_url, category, description, position, featured, created_at, updated_at`

func (r *galleryRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.GalleryItem, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+galleryColumns+` FROM gallery_items WHERE id=$1;`, id)
	if err != nil {
		return nil, err
	}
	return scanGalleryItem(row)
}

func (r *galleryRepo) List(ctx context.Context, tx repository.Tx, category string, featuredOnly bool) ([]*model.GalleryItem, error) {
	rows, err := querySQL(ctx, r.pool, tx, `
SELECT `+galleryColumns+`
  FROM gallery_items
 WHERE ($1 = '' OR category = $1) AND (NOT $2 OR featured)
 ORDER BY position;`, category, featuredOnly)
	if err != nil {
		return nil, fmt.Errorf("list gallery: %w", err)
	}
	defer rows.Close()

	var out []*model.GalleryItem
	for rows.Next() {
		g, err := scanGalleryItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func scanGalleryItem(row pgx.Row) (*model.GalleryItem, error) {
	var g model.GalleryItem
	err := row.Scan(&g.ID, &g.Title, &g.ImageURL, &g.Category, &g.Description, &g.Order, &g.Featured, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &g, nil
}

// ---- site settings ----

var _ repository.SiteSettingsRepository = (*siteSettingsRepo)(nil)

type siteSettingsRepo struct {
	pool *pgxpool.Pool
}

func NewSiteSettingsRepo(pool *pgxpool.Pool) repository.SiteSettingsRepository {
	return &siteSettingsRepo{pool: pool}
}

func (r *siteSettingsRepo) Get(ctx context.Context, tx repository.Tx) (*model.SiteSettings, error) {
	row, err := pickRow(ctx, r.pool, tx, `
SELECT id, site_name, tagline, hero_title, hero_subtitle, contact_email, contact_phone, footer_text, social, updated_at
  FROM site_settings LIMIT 1;`)
	if err != nil {
		return nil, err
	}
	var s model.SiteSettings
	var social []byte
	err = row.Scan(&s.ID, &s.SiteName, &s.Tagline, &s.HeroTitle, &s.HeroSubtitle,
		&s.ContactEmail, &s.ContactPhone, &s.FooterText, &social, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	if err := json.Unmarshal(social, &s.SocialLinks); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return &s, nil
}

func (r *siteSettingsRepo) Save(ctx context.Context, tx repository.Tx, s *model.SiteSettings) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	s.UpdatedAt = time.Now()
	social, err := json.Marshal(s.SocialLinks)
	if err != nil {
		return fmt.Errorf("marshal social links: %w", err)
	}

	const q = `
INSERT INTO site_settings (id, site_name, tagline, hero_title, hero_subtitle, contact_email, contact_phone, footer_text, social, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (id) DO UPDATE SET
  site_name=$2, tagline=$3, hero_title=$4, hero_subtitle=$5, contact_email=$6,
  contact_phone=$7, footer_text=$8, social=$9, updated_at=$10;
`
	_, err = execSQL(ctx, r.pool, tx, q,
		s.ID, s.SiteName, s.Tagline, s.HeroTitle, s.HeroSubtitle,
		s.ContactEmail, s.ContactPhone, s.FooterText, social, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save site settings: %w", err)
	}
	return nil
}
