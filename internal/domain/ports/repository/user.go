package repository

import (
	"context"

	"flerr-server/internal/domain/model"
)

// UserFilter narrows admin user listings.
type UserFilter struct {
	Search string // substring over name/email
	Role   string // empty = any
}

type UserRepository interface {
	// Save inserts or updates the base user row (not entitlements).
	Save(ctx context.Context, tx Tx, u *model.User) error
	// FindByID loads the user with entitlements, favorites and progress.
	FindByID(ctx context.Context, tx Tx, id string) (*model.User, error)
	FindByEmail(ctx context.Context, tx Tx, email string) (*model.User, error)
	FindByResetTokenHash(ctx context.Context, tx Tx, hash string) (*model.User, error)
	List(ctx context.Context, tx Tx, f UserFilter, offset, limit int) ([]*model.User, int, error)
	Count(ctx context.Context, tx Tx) (int, error)
	Delete(ctx context.Context, tx Tx, id string) error

	// AddEntitlement appends one entitlement. Returns
	// domain.ErrCodeAlreadyActivated when the user already holds an
	// entitlement for the same code (unique (user_id, code_id) key).
	AddEntitlement(ctx context.Context, tx Tx, userID string, e *model.Entitlement) error
	SetFavorite(ctx context.Context, tx Tx, userID, courseID string, favorite bool) error
	SaveProgress(ctx context.Context, tx Tx, userID, lessonID string, percent int) error
}
