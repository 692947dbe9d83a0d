package usecase

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"flerr-server/internal/domain"
	"flerr-server/internal/domain/model"
	"flerr-server/internal/domain/ports/repository"
	"flerr-server/internal/infra/logging"
)

var _ TeacherUseCase = (*teacherUC)(nil)

type TeacherUseCase interface {
	ListPublic(ctx context.Context) ([]*model.Teacher, error)
	ListAll(ctx context.Context) ([]*model.Teacher, error)
	Get(ctx context.Context, id string) (*model.Teacher, error)
	Save(ctx context.Context, t *model.Teacher) error
	Delete(ctx context.Context, id string) error
}

type teacherUC struct {
	teachers repository.TeacherRepository
	log      *zerolog.Logger
}

func NewTeacherUseCase(teachers repository.TeacherRepository, logger *zerolog.Logger) *teacherUC {
	return &teacherUC{teachers: teachers, log: logger}
}

func (uc *teacherUC) ListPublic(ctx context.Context) ([]*model.Teacher, error) {
	defer logging.TraceDuration(uc.log, "TeacherUC.ListPublic")()
	return uc.teachers.List(ctx, repository.NoTX, true)
}

func (uc *teacherUC) ListAll(ctx context.Context) ([]*model.Teacher, error) {
	return uc.teachers.List(ctx, repository.NoTX, false)
}

func (uc *teacherUC) Get(ctx context.Context, id string) (*model.Teacher, error) {
	return uc.teachers.FindByID(ctx, repository.NoTX, id)
}

func (uc *teacherUC) Save(ctx context.Context, t *model.Teacher) error {
	defer logging.TraceDuration(uc.log, "TeacherUC.Save")()
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return domain.ErrInvalidArgument
	}
	return uc.teachers.Save(ctx, repository.NoTX, t)
}

func (uc *teacherUC) Delete(ctx context.Context, id string) error {
	defer logging.TraceDuration(uc.log, "TeacherUC.Delete")()
	return uc.teachers.Delete(ctx, repository.NoTX, id)
}
