package model

import "time"

// GalleryItem is a showcase image on the public site.
type GalleryItem struct {
	ID          string
	Title       string
	ImageURL    string
	Category    string
	Description string
	Order       int
	Featured    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
