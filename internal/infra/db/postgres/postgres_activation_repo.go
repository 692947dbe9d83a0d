package postgres

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/oklog/ulid/v2"

	"flerr-server/internal/domain"
	"flerr-server/internal/domain/model"
	"flerr-server/internal/domain/ports/repository"
)

var _ repository.ActivationRepository = (*activationRepo)(nil)

type activationRepo struct {
	pool *pgxpool.Pool
}

func NewActivationRepo(pool *pgxpool.Pool) repository.ActivationRepository {
	return &activationRepo{pool: pool}
}

func (r *activationRepo) Insert(ctx context.Context, tx repository.Tx, a *model.Activation) error {
	if a.ID == "" {
		// ULIDs keep the audit trail lexically time-sortable.
		a.ID = ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
	}
	if a.ActivatedAt.IsZero() {
		a.ActivatedAt = time.Now()
	}

	const q = `
INSERT INTO activations (id, user_id, promo_code_id, activated_at, ip, user_agent)
VALUES ($1,$2,$3,$4,$5,$6);
`
	_, err := execSQL(ctx, r.pool, tx, q, a.ID, a.UserID, a.PromoCodeID, a.ActivatedAt, a.IP, a.UserAgent)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrCodeAlreadyActivated
		}
		return fmt.Errorf("insert activation: %w", err)
	}
	return nil
}

func (r *activationRepo) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.ActivationSummary, int, error) {
	total, err := r.Count(ctx, tx)
	if err != nil {
		return nil, 0, err
	}

	const q = `
SELECT a.id, a.user_id, a.promo_code_id, a.activated_at, a.ip, a.user_agent,
       COALESCE(u.name, ''), COALESCE(u.email, ''),
       COALESCE(p.code, ''), COALESCE(p.scope, 'course')
  FROM activations a
  LEFT JOIN users u ON u.id = a.user_id
  LEFT JOIN promo_codes p ON p.id = a.promo_code_id
 ORDER BY a.activated_at DESC
OFFSET $1 LIMIT $2;
`
	rows, err := querySQL(ctx, r.pool, tx, q, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list activations: %w", err)
	}
	defer rows.Close()

	var out []*model.ActivationSummary
	for rows.Next() {
		var s model.ActivationSummary
		var scope string
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.PromoCodeID, &s.ActivatedAt, &s.IP, &s.UserAgent,
			&s.UserName, &s.UserEmail, &s.Code, &scope,
		); err != nil {
			return nil, 0, domain.ErrReadDatabaseRow
		}
		s.Scope = model.PromoScope(scope)
		out = append(out, &s)
	}
	return out, total, rows.Err()
}

func (r *activationRepo) Count(ctx context.Context, tx repository.Tx) (int, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM activations;`)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("count activations: %w", err)
	}
	return n, nil
}

func (r *activationRepo) CountSince(ctx context.Context, tx repository.Tx, since time.Time) (int, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM activations WHERE activated_at >= $1;`, since)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("count recent activations: %w", err)
	}
	return n, nil
}
