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

var _ GalleryUseCase = (*galleryUC)(nil)

type GalleryUseCase interface {
	List(ctx context.Context, category string, featuredOnly bool) ([]*model.GalleryItem, error)
	Get(ctx context.Context, id string) (*model.GalleryItem, error)
	Save(ctx context.Context, g *model.GalleryItem) error
	Delete(ctx context.Context, id string) error
}

type galleryUC struct {
	gallery repository.GalleryRepository
	log     *zerolog.Logger
}

func NewGalleryUseCase(gallery repository.GalleryRepository, logger *zerolog.Logger) *galleryUC {
	return &galleryUC{gallery: gallery, log: logger}
}

func (uc *galleryUC) List(ctx context.Context, category string, featuredOnly bool) ([]*model.GalleryItem, error) {
	defer logging.TraceDuration(uc.log, "GalleryUC.List")()
	return uc.gallery.List(ctx, repository.NoTX, category, featuredOnly)
}

func (uc *galleryUC) Get(ctx context.Context, id string) (*model.GalleryItem, error) {
	return uc.gallery.FindByID(ctx, repository.NoTX, id)
}

func (uc *galleryUC) Save(ctx context.Context, g *model.GalleryItem) error {
	defer logging.TraceDuration(uc.log, "GalleryUC.Save")()
	g.ImageURL = strings.TrimSpace(g.ImageURL)
	if g.ImageURL == "" {
		return domain.ErrInvalidArgument
	}
	return uc.gallery.Save(ctx, repository.NoTX, g)
}

func (uc *galleryUC) Delete(ctx context.Context, id string) error {
	defer logging.TraceDuration(uc.log, "GalleryUC.Delete")()
	return uc.gallery.Delete(ctx, repository.NoTX, id)
}
