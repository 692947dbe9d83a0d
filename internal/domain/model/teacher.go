package model

import "time"

// SocialLinks holds a teacher's optional public profiles.
type SocialLinks struct {
	Instagram string `json:"instagram,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Website   string `json:"website,omitempty"`
}

// Teacher is a public instructor profile shown on the landing page.
type Teacher struct {
	ID             string
	Name           string
	Photo          string
	Specialization string
	Bio            string
	Experience     string
	CourseIDs      []string
	Order          int
	Active         bool
	Social         SocialLinks
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
