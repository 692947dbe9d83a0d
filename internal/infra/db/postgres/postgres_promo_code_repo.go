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

// Ensure implementation satisfies the interface.
var _ repository.PromoCodeRepository = (*promoCodeRepo)(nil)

type promoCodeRepo struct {
	pool *pgxpool.Pool
}

func NewPromoCodeRepo(pool *pgxpool.Pool) repository.PromoCodeRepository {
	return &promoCodeRepo{pool: pool}
}

const promoColumns = `id, code, scope, course_id, max_uses, used_count, expires_at, is_active, created_by, notes, created_at, updated_at`

func (r *promoCodeRepo) Create(ctx context.Context, tx repository.Tx, code *model.PromoCode) error {
	if code.ID == "" {
		code.ID = uuid.NewString()
	}
	now := time.Now()
	if code.CreatedAt.IsZero() {
		code.CreatedAt = now
	}
	code.UpdatedAt = now

	const q = `
INSERT INTO promo_codes (id, code, scope, course_id, max_uses, used_count, expires_at, is_active, created_by, notes, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,0,$6,$7,$8,$9,$10,$11);
`
	_, err := execSQL(ctx, r.pool, tx, q,
		code.ID, code.Code, string(code.Scope), code.CourseID, code.MaxUses,
		code.ExpiresAt, code.IsActive, code.CreatedBy, code.Notes, code.CreatedAt, code.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("insert promo code: %w", err)
	}
	return nil
}

// Update patches the mutable fields only; code and scope stay as created.
func (r *promoCodeRepo) Update(ctx context.Context, tx repository.Tx, code *model.PromoCode) error {
	const q = `
UPDATE promo_codes
   SET max_uses=$2, expires_at=$3, is_active=$4, notes=$5, updated_at=now()
 WHERE id=$1;
`
	tag, err := execSQL(ctx, r.pool, tx, q, code.ID, code.MaxUses, code.ExpiresAt, code.IsActive, code.Notes)
	if err != nil {
		return fmt.Errorf("update promo code: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *promoCodeRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	tag, err := execSQL(ctx, r.pool, tx, `DELETE FROM promo_codes WHERE id=$1;`, id)
	if err != nil {
		return fmt.Errorf("delete promo code: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *promoCodeRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.PromoCode, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+promoColumns+` FROM promo_codes WHERE id=$1;`, id)
	if err != nil {
		return nil, err
	}
	return scanPromoCode(row)
}

func (r *promoCodeRepo) FindByCode(ctx context.Context, tx repository.Tx, code string) (*model.PromoCode, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+promoColumns+` FROM promo_codes WHERE code=$1;`, code)
	if err != nil {
		return nil, err
	}
	return scanPromoCode(row)
}

func (r *promoCodeRepo) List(ctx context.Context, tx repository.Tx, f repository.PromoCodeFilter, offset, limit int) ([]*model.PromoCode, int, error) {
	where := ` WHERE ($1 = '' OR scope = $1) AND ($2::boolean IS NULL OR is_active = $2)`
	args := []interface{}{string(f.Scope), f.IsActive}

	row, err := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM promo_codes`+where+`;`, args...)
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := row.Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count promo codes: %w", err)
	}

	q := `SELECT ` + promoColumns + ` FROM promo_codes` + where + `
 ORDER BY created_at DESC OFFSET $3 LIMIT $4;`
	rows, err := querySQL(ctx, r.pool, tx, q, append(args, offset, limit)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list promo codes: %w", err)
	}
	defer rows.Close()

	var out []*model.PromoCode
	for rows.Next() {
		pc, err := scanPromoCode(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, pc)
	}
	return out, total, rows.Err()
}

// ConsumeUse is the single atomic compare-and-increment the redemption flow
// relies on: the max-uses precondition is evaluated inside the UPDATE itself,
// so two concurrent redemptions of a nearly exhausted code cannot both pass.
func (r *promoCodeRepo) ConsumeUse(ctx context.Context, tx repository.Tx, id string) error {
	const q = `
UPDATE promo_codes
   SET used_count = used_count + 1, updated_at = now()
 WHERE id = $1 AND used_count < max_uses;
`
	tag, err := execSQL(ctx, r.pool, tx, q, id)
	if err != nil {
		return fmt.Errorf("consume promo use: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCodeExhausted
	}
	return nil
}

func scanPromoCode(row pgx.Row) (*model.PromoCode, error) {
	var pc model.PromoCode
	var scope string
	err := row.Scan(
		&pc.ID, &pc.Code, &scope, &pc.CourseID, &pc.MaxUses, &pc.UsedCount,
		&pc.ExpiresAt, &pc.IsActive, &pc.CreatedBy, &pc.Notes, &pc.CreatedAt, &pc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	pc.Scope = model.PromoScope(scope)
	return &pc, nil
}
