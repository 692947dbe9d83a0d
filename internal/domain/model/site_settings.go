package model

import "time"

// SiteSettings is the single editable document of site-wide presentation
// fields. There is exactly one row; updates patch it in place.
type SiteSettings struct {
	ID           string
	SiteName     string
	Tagline      string
	HeroTitle    string
	HeroSubtitle string
	ContactEmail string
	ContactPhone string
	FooterText   string
	SocialLinks  SocialLinks
	UpdatedAt    time.Time
}
