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

var _ repository.UserRepository = (*userRepo)(nil)

type userRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) repository.UserRepository {
	return &userRepo{pool: pool}
}

const userColumns = `id, email, password_hash, name, roles, reset_token_hash, reset_token_expiry, created_at, updated_at`

func (r *userRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	if len(u.Roles) == 0 {
		u.Roles = []string{model.RoleStudent}
	}

	const q = `
INSERT INTO users (id, email, password_hash, name, roles, reset_token_hash, reset_token_expiry, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,NULLIF($6,''),$7,$8,$9)
ON CONFLICT (id) DO UPDATE SET
  email=$2, password_hash=$3, name=$4, roles=$5,
  reset_token_hash=NULLIF($6,''), reset_token_expiry=$7, updated_at=$9;
`
	_, err := execSQL(ctx, r.pool, tx, q,
		u.ID, u.Email, u.PasswordHash, u.Name, u.Roles,
		u.ResetTokenHash, u.ResetTokenExpiry, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (r *userRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	return r.findOne(ctx, tx, `SELECT `+userColumns+` FROM users WHERE id=$1;`, id)
}

func (r *userRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.User, error) {
	return r.findOne(ctx, tx, `SELECT `+userColumns+` FROM users WHERE lower(email)=lower($1);`, email)
}

func (r *userRepo) FindByResetTokenHash(ctx context.Context, tx repository.Tx, hash string) (*model.User, error) {
	return r.findOne(ctx, tx,
		`SELECT `+userColumns+` FROM users WHERE reset_token_hash=$1 AND reset_token_expiry > now();`, hash)
}

func (r *userRepo) findOne(ctx context.Context, tx repository.Tx, q string, args ...interface{}) (*model.User, error) {
	row, err := pickRow(ctx, r.pool, tx, q, args...)
	if err != nil {
		return nil, err
	}
	u, err := scanUser(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadAssociations(ctx, tx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// loadAssociations fills entitlements, favorites and progress for one user.
func (r *userRepo) loadAssociations(ctx context.Context, tx repository.Tx, u *model.User) error {
	rows, err := querySQL(ctx, r.pool, tx, `
SELECT id, code_id, course_ids::text[], global_access, activated_at
  FROM entitlements WHERE user_id=$1 ORDER BY activated_at;`, u.ID)
	if err != nil {
		return fmt.Errorf("load entitlements: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var e model.Entitlement
		if err := rows.Scan(&e.ID, &e.CodeID, &e.CourseIDs, &e.GlobalAccess, &e.ActivatedAt); err != nil {
			return domain.ErrReadDatabaseRow
		}
		u.Entitlements = append(u.Entitlements, e)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	favRows, err := querySQL(ctx, r.pool, tx, `SELECT course_id FROM favorites WHERE user_id=$1;`, u.ID)
	if err != nil {
		return fmt.Errorf("load favorites: %w", err)
	}
	defer favRows.Close()
	for favRows.Next() {
		var id string
		if err := favRows.Scan(&id); err != nil {
			return domain.ErrReadDatabaseRow
		}
		u.Favorites = append(u.Favorites, id)
	}
	if err := favRows.Err(); err != nil {
		return err
	}

	progRows, err := querySQL(ctx, r.pool, tx, `SELECT lesson_id, percent FROM lesson_progress WHERE user_id=$1;`, u.ID)
	if err != nil {
		return fmt.Errorf("load progress: %w", err)
	}
	defer progRows.Close()
	u.Progress = map[string]int{}
	for progRows.Next() {
		var id string
		var pct int
		if err := progRows.Scan(&id, &pct); err != nil {
			return domain.ErrReadDatabaseRow
		}
		u.Progress[id] = pct
	}
	return progRows.Err()
}

func (r *userRepo) List(ctx context.Context, tx repository.Tx, f repository.UserFilter, offset, limit int) ([]*model.User, int, error) {
	where := `
 WHERE ($1 = '' OR name ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%')
   AND ($2 = '' OR $2 = ANY(roles))`
	args := []interface{}{f.Search, f.Role}

	row, err := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM users`+where+`;`, args...)
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := row.Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	rows, err := querySQL(ctx, r.pool, tx,
		`SELECT `+userColumns+` FROM users`+where+` ORDER BY created_at DESC OFFSET $3 LIMIT $4;`,
		append(args, offset, limit)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []*model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	return out, total, rows.Err()
}

func (r *userRepo) Count(ctx context.Context, tx repository.Tx) (int, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM users;`)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (r *userRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	tag, err := execSQL(ctx, r.pool, tx, `DELETE FROM users WHERE id=$1;`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepo) AddEntitlement(ctx context.Context, tx repository.Tx, userID string, e *model.Entitlement) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.ActivatedAt.IsZero() {
		e.ActivatedAt = time.Now()
	}
	const q = `
INSERT INTO entitlements (id, user_id, code_id, course_ids, global_access, activated_at)
VALUES ($1,$2,$3,$4::uuid[],$5,$6);
`
	_, err := execSQL(ctx, r.pool, tx, q, e.ID, userID, e.CodeID, e.CourseIDs, e.GlobalAccess, e.ActivatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrCodeAlreadyActivated
		}
		return fmt.Errorf("add entitlement: %w", err)
	}
	return nil
}

func (r *userRepo) SetFavorite(ctx context.Context, tx repository.Tx, userID, courseID string, favorite bool) error {
	if favorite {
		_, err := execSQL(ctx, r.pool, tx, `
INSERT INTO favorites (user_id, course_id) VALUES ($1,$2) ON CONFLICT DO NOTHING;`, userID, courseID)
		return err
	}
	_, err := execSQL(ctx, r.pool, tx, `DELETE FROM favorites WHERE user_id=$1 AND course_id=$2;`, userID, courseID)
	return err
}

func (r *userRepo) SaveProgress(ctx context.Context, tx repository.Tx, userID, lessonID string, percent int) error {
	const q = `
INSERT INTO lesson_progress (user_id, lesson_id, percent, updated_at)
VALUES ($1,$2,$3,now())
ON CONFLICT (user_id, lesson_id) DO UPDATE SET percent=$3, updated_at=now();
`
	_, err := execSQL(ctx, r.pool, tx, q, userID, lessonID, percent)
	if err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	var resetHash *string
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Roles,
		&resetHash, &u.ResetTokenExpiry, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	if resetHash != nil {
		u.ResetTokenHash = *resetHash
	}
	return &u, nil
}
