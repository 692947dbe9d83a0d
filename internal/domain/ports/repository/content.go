package repository

import (
	"context"

	"flerr-server/internal/domain/model"
)

// TeacherRepository manages public instructor profiles.
type TeacherRepository interface {
	Save(ctx context.Context, tx Tx, t *model.Teacher) error
	Delete(ctx context.Context, tx Tx, id string) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Teacher, error)
	// List returns profiles ordered by their position; activeOnly hides
	// unpublished ones for the public site.
	List(ctx context.Context, tx Tx, activeOnly bool) ([]*model.Teacher, error)
}

// GalleryRepository manages showcase images.
type GalleryRepository interface {
	Save(ctx context.Context, tx Tx, g *model.GalleryItem) error
	Delete(ctx context.Context, tx Tx, id string) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.GalleryItem, error)
	List(ctx context.Context, tx Tx, category string, featuredOnly bool) ([]*model.GalleryItem, error)
}

// SiteSettingsRepository manages the single site-settings document.
type SiteSettingsRepository interface {
	Get(ctx context.Context, tx Tx) (*model.SiteSettings, error)
	Save(ctx context.Context, tx Tx, s *model.SiteSettings) error
}
