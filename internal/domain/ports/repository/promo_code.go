package repository

import (
	"context"

	"flerr-server/internal/domain/model"
)

// PromoCodeFilter narrows admin promo listings.
type PromoCodeFilter struct {
	Scope    model.PromoScope // empty = any
	IsActive *bool            // nil = any
}

// PromoCodeRepository is the port for the promo code registry.
type PromoCodeRepository interface {
	// Create inserts a new code. Returns domain.ErrAlreadyExists when the
	// normalized code collides with an existing one.
	Create(ctx context.Context, tx Tx, code *model.PromoCode) error
	// Update patches the mutable fields (max_uses, expires_at, is_active,
	// notes). Code and scope are immutable after creation.
	Update(ctx context.Context, tx Tx, code *model.PromoCode) error
	Delete(ctx context.Context, tx Tx, id string) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.PromoCode, error)
	// FindByCode looks a code up by its normalized value.
	FindByCode(ctx context.Context, tx Tx, code string) (*model.PromoCode, error)
	List(ctx context.Context, tx Tx, f PromoCodeFilter, offset, limit int) ([]*model.PromoCode, int, error)

	// ConsumeUse atomically increments used_count iff used_count < max_uses,
	// in a single conditional write. Returns domain.ErrCodeExhausted when the
	// precondition no longer holds at write time.
	ConsumeUse(ctx context.Context, tx Tx, id string) error
}
