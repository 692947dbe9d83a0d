package repository

import (
	"context"
	"time"

	"flerr-server/internal/domain/model"
)

// ActivationRepository is the append-only audit trail of redemptions.
// No update or delete operations exist in normal flow.
type ActivationRepository interface {
	// Insert persists one activation. Returns domain.ErrCodeAlreadyActivated
	// when the (user, code) pair already has a record.
	Insert(ctx context.Context, tx Tx, a *model.Activation) error
	// List returns activations newest-first with user and code summaries.
	List(ctx context.Context, tx Tx, offset, limit int) ([]*model.ActivationSummary, int, error)
	Count(ctx context.Context, tx Tx) (int, error)
	CountSince(ctx context.Context, tx Tx, since time.Time) (int, error)
}
