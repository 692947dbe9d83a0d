package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"flerr-server/internal/domain/model"
	"flerr-server/internal/domain/ports/repository"
	"flerr-server/internal/infra/logging"
)

var _ SettingsUseCase = (*settingsUC)(nil)

type SettingsUseCase interface {
	Get(ctx context.Context) (*model.SiteSettings, error)
	Save(ctx context.Context, s *model.SiteSettings) (*model.SiteSettings, error)
}

type settingsUC struct {
	settings repository.SiteSettingsRepository
	log      *zerolog.Logger
}

func NewSettingsUseCase(settings repository.SiteSettingsRepository, logger *zerolog.Logger) *settingsUC {
	return &settingsUC{settings: settings, log: logger}
}

func (uc *settingsUC) Get(ctx context.Context) (*model.SiteSettings, error) {
	defer logging.TraceDuration(uc.log, "SettingsUC.Get")()
	return uc.settings.Get(ctx, repository.NoTX)
}

func (uc *settingsUC) Save(ctx context.Context, s *model.SiteSettings) (*model.SiteSettings, error) {
	defer logging.TraceDuration(uc.log, "SettingsUC.Save")()
	if err := uc.settings.Save(ctx, repository.NoTX, s); err != nil {
		return nil, err
	}
	return uc.settings.Get(ctx, repository.NoTX)
}
