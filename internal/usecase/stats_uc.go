package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"flerr-server/internal/domain"
	"flerr-server/internal/domain/model"
	"flerr-server/internal/domain/ports/repository"
	"flerr-server/internal/infra/logging"
)

var _ AdminUseCase = (*adminUC)(nil)

// PlatformStats is the admin dashboard summary.
type PlatformStats struct {
	TotalUsers        int
	PublishedCourses  int
	TotalLessons      int
	TotalActivations  int
	ActivationsLast30 int
	TopCourses        []*model.Course
}

type AdminUseCase interface {
	Stats(ctx context.Context) (*PlatformStats, error)
	ListUsers(ctx context.Context, f repository.UserFilter, offset, limit int) ([]*model.User, int, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	SetUserRoles(ctx context.Context, actorID, userID string, roles []string) (*model.User, error)
	// DeleteUser refuses to delete the acting admin's own account.
	DeleteUser(ctx context.Context, actorID, userID string) error
}

type adminUC struct {
	users       repository.UserRepository
	courses     repository.CourseRepository
	lessons     repository.LessonRepository
	activations repository.ActivationRepository
	log         *zerolog.Logger
}

func NewAdminUseCase(
	users repository.UserRepository,
	courses repository.CourseRepository,
	lessons repository.LessonRepository,
	activations repository.ActivationRepository,
	logger *zerolog.Logger,
) *adminUC {
	return &adminUC{
		users:       users,
		courses:     courses,
		lessons:     lessons,
		activations: activations,
		log:         logger,
	}
}

func (uc *adminUC) Stats(ctx context.Context) (*PlatformStats, error) {
	defer logging.TraceDuration(uc.log, "AdminUC.Stats")()

	stats := &PlatformStats{}
	var err error
	if stats.TotalUsers, err = uc.users.Count(ctx, repository.NoTX); err != nil {
		return nil, err
	}
	if stats.PublishedCourses, err = uc.courses.CountPublished(ctx, repository.NoTX); err != nil {
		return nil, err
	}
	if stats.TotalLessons, err = uc.lessons.Count(ctx, repository.NoTX); err != nil {
		return nil, err
	}
	if stats.TotalActivations, err = uc.activations.Count(ctx, repository.NoTX); err != nil {
		return nil, err
	}
	monthAgo := time.Now().AddDate(0, 0, -30)
	if stats.ActivationsLast30, err = uc.activations.CountSince(ctx, repository.NoTX, monthAgo); err != nil {
		return nil, err
	}
	if stats.TopCourses, err = uc.courses.TopByStudents(ctx, repository.NoTX, 5); err != nil {
		return nil, err
	}
	return stats, nil
}

func (uc *adminUC) ListUsers(ctx context.Context, f repository.UserFilter, offset, limit int) ([]*model.User, int, error) {
	defer logging.TraceDuration(uc.log, "AdminUC.ListUsers")()
	return uc.users.List(ctx, repository.NoTX, f, offset, limit)
}

func (uc *adminUC) GetUser(ctx context.Context, id string) (*model.User, error) {
	return uc.users.FindByID(ctx, repository.NoTX, id)
}

func (uc *adminUC) SetUserRoles(ctx context.Context, actorID, userID string, roles []string) (*model.User, error) {
	defer logging.TraceDuration(uc.log, "AdminUC.SetUserRoles")()

	for _, r := range roles {
		if r != model.RoleStudent && r != model.RoleAdmin {
			return nil, domain.ErrInvalidArgument
		}
	}
	// An admin cannot drop their own admin role; someone must stay in charge.
	if actorID == userID && !containsRole(roles, model.RoleAdmin) {
		return nil, domain.ErrAccessDenied
	}

	user, err := uc.users.FindByID(ctx, repository.NoTX, userID)
	if err != nil {
		return nil, err
	}
	user.Roles = roles
	if err := uc.users.Save(ctx, repository.NoTX, user); err != nil {
		return nil, err
	}
	uc.log.Info().Str("actor_id", actorID).Str("user_id", userID).Strs("roles", roles).Msg("user roles updated")
	return user, nil
}

func (uc *adminUC) DeleteUser(ctx context.Context, actorID, userID string) error {
	defer logging.TraceDuration(uc.log, "AdminUC.DeleteUser")()
	if actorID == userID {
		return domain.ErrAccessDenied
	}
	return uc.users.Delete(ctx, repository.NoTX, userID)
}

func containsRole(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
