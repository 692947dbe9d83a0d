package usecase

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"flerr-server/internal/domain"
	"flerr-server/internal/domain/model"
	"flerr-server/internal/domain/ports/adapter"
	"flerr-server/internal/domain/ports/repository"
	"flerr-server/internal/infra/logging"
)

var _ AuthUseCase = (*authUC)(nil)

const resetTokenTTL = time.Hour

type AuthUseCase interface {
	Register(ctx context.Context, email, password, name string) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.User, error)
	// ForgotPassword always succeeds from the caller's point of view so the
	// endpoint does not reveal whether an email is registered.
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	Me(ctx context.Context, userID string) (*model.User, error)
}

type authUC struct {
	users  repository.UserRepository
	mailer adapter.Mailer
	log    *zerolog.Logger
}

func NewAuthUseCase(users repository.UserRepository, mailer adapter.Mailer, logger *zerolog.Logger) *authUC {
	return &authUC{users: users, mailer: mailer, log: logger}
}

func (uc *authUC) Register(ctx context.Context, email, password, name string) (*model.User, error) {
	defer logging.TraceDuration(uc.log, "AuthUC.Register")()

	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if email == "" || name == "" || len(password) < 8 {
		return nil, domain.ErrInvalidArgument
	}

	if _, err := uc.users.FindByEmail(ctx, repository.NoTX, email); err == nil {
		return nil, domain.ErrAlreadyExists
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Roles:        []string{model.RoleStudent},
	}
	if err := uc.users.Save(ctx, repository.NoTX, user); err != nil {
		return nil, err
	}

	if err := uc.mailer.SendWelcome(ctx, user.Email, user.Name); err != nil {
		uc.log.Warn().Err(err).Str("email", user.Email).Msg("welcome email failed")
	}
	uc.log.Info().Str("user_id", user.ID).Msg("user registered")
	return user, nil
}

func (uc *authUC) Login(ctx context.Context, email, password string) (*model.User, error) {
	defer logging.TraceDuration(uc.log, "AuthUC.Login")()

	email = strings.ToLower(strings.TrimSpace(email))
	user, err := uc.users.FindByEmail(ctx, repository.NoTX, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

func (uc *authUC) ForgotPassword(ctx context.Context, email string) error {
	defer logging.TraceDuration(uc.log, "AuthUC.ForgotPassword")()

	email = strings.ToLower(strings.TrimSpace(email))
	user, err := uc.users.FindByEmail(ctx, repository.NoTX, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return err
	}
	token := hex.EncodeToString(raw)

	// Only the hash is stored; the token itself travels in the email link.
	sum := sha256.Sum256([]byte(token))
	expiry := time.Now().Add(resetTokenTTL)
	user.ResetTokenHash = hex.EncodeToString(sum[:])
	user.ResetTokenExpiry = &expiry
	if err := uc.users.Save(ctx, repository.NoTX, user); err != nil {
		return err
	}

	if err := uc.mailer.SendPasswordReset(ctx, user.Email, token); err != nil {
		uc.log.Warn().Err(err).Str("email", user.Email).Msg("reset email failed")
	}
	return nil
}

func (uc *authUC) ResetPassword(ctx context.Context, token, newPassword string) error {
	defer logging.TraceDuration(uc.log, "AuthUC.ResetPassword")()

	if len(newPassword) < 8 {
		return domain.ErrInvalidArgument
	}

	sum := sha256.Sum256([]byte(token))
	user, err := uc.users.FindByResetTokenHash(ctx, repository.NoTX, hex.EncodeToString(sum[:]))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrInvalidToken
		}
		return err
	}
	if user.ResetTokenExpiry == nil || user.ResetTokenExpiry.Before(time.Now()) {
		return domain.ErrInvalidToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	user.ResetTokenHash = ""
	user.ResetTokenExpiry = nil
	if err := uc.users.Save(ctx, repository.NoTX, user); err != nil {
		return err
	}
	uc.log.Info().Str("user_id", user.ID).Msg("password reset")
	return nil
}

func (uc *authUC) Me(ctx context.Context, userID string) (*model.User, error) {
	return uc.users.FindByID(ctx, repository.NoTX, userID)
}
