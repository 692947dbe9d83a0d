package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"flerr-server/internal/domain"
	"flerr-server/internal/domain/model"
	"flerr-server/internal/domain/ports/repository"
	"flerr-server/internal/infra/logging"
	"flerr-server/internal/infra/metrics"
)

// Compile-time check
var _ PromoUseCase = (*promoUC)(nil)

// ActivationResult is what a successful redemption reports back to the
// client: the granted scope, and the bound course for course-scoped codes.
type ActivationResult struct {
	Scope  model.PromoScope
	Course *model.Course
}

// PromoCreateInput carries the admin create request. Code may be empty, in
// which case one is generated.
type PromoCreateInput struct {
	Code      string
	Scope     model.PromoScope
	CourseID  *string
	MaxUses   int
	ExpiresAt *time.Time
	IsActive  bool
	Notes     string
	CreatedBy string
}

// PromoPatch updates the mutable fields; nil means "leave as is".
// Code and scope are immutable after creation so existing entitlement
// semantics can never be invalidated by an edit.
type PromoPatch struct {
	MaxUses     *int
	ExpiresAt   *time.Time
	ClearExpiry bool
	IsActive    *bool
	Notes       *string
}

type PromoUseCase interface {
	// Validate runs the redemption checks without mutating anything.
	Validate(ctx context.Context, userID, code string) (*model.PromoCode, *model.Course, error)
	// Activate redeems a code for a user: entitlement, counter, audit record,
	// all in one transaction.
	Activate(ctx context.Context, userID, code, ip, userAgent string) (*ActivationResult, error)

	Create(ctx context.Context, in PromoCreateInput) (*model.PromoCode, error)
	Update(ctx context.Context, id string, patch PromoPatch) (*model.PromoCode, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*model.PromoCode, error)
	List(ctx context.Context, f repository.PromoCodeFilter, offset, limit int) ([]*model.PromoCode, int, error)

	ListActivations(ctx context.Context, offset, limit int) ([]*model.ActivationSummary, int, error)
}

type promoUC struct {
	codes       repository.PromoCodeRepository
	users       repository.UserRepository
	courses     repository.CourseRepository
	activations repository.ActivationRepository
	tm          repository.TransactionManager
	log         *zerolog.Logger
}

func NewPromoUseCase(
	codes repository.PromoCodeRepository,
	users repository.UserRepository,
	courses repository.CourseRepository,
	activations repository.ActivationRepository,
	tm repository.TransactionManager,
	logger *zerolog.Logger,
) *promoUC {
	return &promoUC{
		codes:       codes,
		users:       users,
		courses:     courses,
		activations: activations,
		tm:          tm,
		log:         logger,
	}
}

// checkRedeemable runs the ordered validation sequence shared by Validate and
// Activate. Each rule has its own failure so the client can tell the user
// exactly why a code was rejected.
func (uc *promoUC) checkRedeemable(ctx context.Context, tx repository.Tx, userID, rawCode string) (*model.PromoCode, error) {
	pc, err := uc.codes.FindByCode(ctx, tx, model.NormalizeCode(rawCode))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrCodeNotFound
		}
		return nil, err
	}
	if !pc.IsActive {
		return nil, domain.ErrCodeInactive
	}
	if pc.Expired(time.Now()) {
		return nil, domain.ErrCodeExpired
	}
	if pc.Exhausted() {
		return nil, domain.ErrCodeExhausted
	}

	user, err := uc.users.FindByID(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if user.HasEntitlementFor(pc.ID) {
		return nil, domain.ErrCodeAlreadyActivated
	}
	return pc, nil
}

func (uc *promoUC) Validate(ctx context.Context, userID, code string) (*model.PromoCode, *model.Course, error) {
	defer logging.TraceDuration(uc.log, "PromoUC.Validate")()

	pc, err := uc.checkRedeemable(ctx, repository.NoTX, userID, code)
	if err != nil {
		metrics.IncPromoValidation(promoOutcome(err))
		return nil, nil, err
	}

	var course *model.Course
	if pc.Scope == model.ScopeCourse && pc.CourseID != nil {
		// Best effort: a dangling course reference still validates.
		course, _ = uc.courses.FindByID(ctx, repository.NoTX, *pc.CourseID)
	}
	metrics.IncPromoValidation("ok")
	return pc, course, nil
}

// Activate performs the redemption. The pre-checks run on the pool, then the
// entitlement insert, the conditional counter increment and the audit record
// commit atomically. The unique (user, code) keys on entitlements and
// activations re-enforce the already-activated guard inside the transaction,
// and the conditional increment re-enforces the exhaustion guard, so two
// racing redemptions cannot both commit past either limit.
func (uc *promoUC) Activate(ctx context.Context, userID, code, ip, userAgent string) (*ActivationResult, error) {
	defer logging.TraceDuration(uc.log, "PromoUC.Activate")()

	pc, err := uc.checkRedeemable(ctx, repository.NoTX, userID, code)
	if err != nil {
		metrics.IncPromoActivation(promoOutcome(err))
		return nil, err
	}

	ent := &model.Entitlement{
		CodeID:      pc.ID,
		ActivatedAt: time.Now(),
	}
	if pc.Scope == model.ScopePlatform {
		ent.GlobalAccess = true
	} else if pc.CourseID != nil {
		ent.CourseIDs = []string{*pc.CourseID}
	}

	err = uc.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		if err := uc.users.AddEntitlement(ctx, tx, userID, ent); err != nil {
			return err
		}
		if err := uc.codes.ConsumeUse(ctx, tx, pc.ID); err != nil {
			return err
		}
		return uc.activations.Insert(ctx, tx, &model.Activation{
			UserID:      userID,
			PromoCodeID: pc.ID,
			ActivatedAt: ent.ActivatedAt,
			IP:          ip,
			UserAgent:   userAgent,
		})
	})
	if err != nil {
		metrics.IncPromoActivation(promoOutcome(err))
		return nil, err
	}

	res := &ActivationResult{Scope: pc.Scope}
	if pc.Scope == model.ScopeCourse && pc.CourseID != nil {
		res.Course, _ = uc.courses.FindByID(ctx, repository.NoTX, *pc.CourseID)
	}

	metrics.IncPromoActivation("ok")
	uc.log.Info().Str("user_id", userID).Str("code", pc.Code).Str("scope", string(pc.Scope)).Msg("promo code activated")
	return res, nil
}

func (uc *promoUC) Create(ctx context.Context, in PromoCreateInput) (*model.PromoCode, error) {
	defer logging.TraceDuration(uc.log, "PromoUC.Create")()

	if !in.Scope.Valid() {
		return nil, domain.ErrInvalidArgument
	}
	if in.Scope == model.ScopeCourse && (in.CourseID == nil || *in.CourseID == "") {
		return nil, domain.ErrInvalidArgument
	}
	if in.MaxUses < 1 {
		return nil, domain.ErrInvalidArgument
	}

	code := model.NormalizeCode(in.Code)
	if code == "" {
		generated, err := generatePromoCode()
		if err != nil {
			return nil, err
		}
		code = generated
	}

	pc := &model.PromoCode{
		Code:      code,
		Scope:     in.Scope,
		CourseID:  in.CourseID,
		MaxUses:   in.MaxUses,
		ExpiresAt: in.ExpiresAt,
		IsActive:  in.IsActive,
		CreatedBy: in.CreatedBy,
		Notes:     in.Notes,
	}
	if err := uc.codes.Create(ctx, repository.NoTX, pc); err != nil {
		return nil, err
	}
	return pc, nil
}

func (uc *promoUC) Update(ctx context.Context, id string, patch PromoPatch) (*model.PromoCode, error) {
	defer logging.TraceDuration(uc.log, "PromoUC.Update")()

	pc, err := uc.codes.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}
	if patch.MaxUses != nil {
		if *patch.MaxUses < 1 {
			return nil, domain.ErrInvalidArgument
		}
		pc.MaxUses = *patch.MaxUses
	}
	if patch.ClearExpiry {
		pc.ExpiresAt = nil
	} else if patch.ExpiresAt != nil {
		pc.ExpiresAt = patch.ExpiresAt
	}
	if patch.IsActive != nil {
		pc.IsActive = *patch.IsActive
	}
	if patch.Notes != nil {
		pc.Notes = *patch.Notes
	}
	if err := uc.codes.Update(ctx, repository.NoTX, pc); err != nil {
		return nil, err
	}
	return pc, nil
}

// Delete removes the registry entry. Entitlements already granted from this
// code stay valid: access resolution reads only the user's own records.
func (uc *promoUC) Delete(ctx context.Context, id string) error {
	defer logging.TraceDuration(uc.log, "PromoUC.Delete")()
	return uc.codes.Delete(ctx, repository.NoTX, id)
}

func (uc *promoUC) Get(ctx context.Context, id string) (*model.PromoCode, error) {
	return uc.codes.FindByID(ctx, repository.NoTX, id)
}

func (uc *promoUC) List(ctx context.Context, f repository.PromoCodeFilter, offset, limit int) ([]*model.PromoCode, int, error) {
	return uc.codes.List(ctx, repository.NoTX, f, offset, limit)
}

func (uc *promoUC) ListActivations(ctx context.Context, offset, limit int) ([]*model.ActivationSummary, int, error) {
	return uc.activations.List(ctx, repository.NoTX, offset, limit)
}

func promoOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrCodeNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrCodeInactive):
		return "inactive"
	case errors.Is(err, domain.ErrCodeExpired):
		return "expired"
	case errors.Is(err, domain.ErrCodeExhausted):
		return "exhausted"
	case errors.Is(err, domain.ErrCodeAlreadyActivated):
		return "already_activated"
	default:
		return "error"
	}
}
