package model

import "time"

type CourseLevel string

const (
	LevelBeginner     CourseLevel = "beginner"
	LevelIntermediate CourseLevel = "intermediate"
	LevelAdvanced     CourseLevel = "advanced"
)

// Course is a published unit of content owning an ordered set of lessons.
// Deleting a course deletes its lessons.
type Course struct {
	ID               string
	Title            string
	Slug             string
	Description      string
	ShortDescription string
	Level            CourseLevel
	Categories       []string
	CoverURL         string
	Price            int64
	Published        bool
	Instructor       string
	DurationMin      int
	StudentsCount    int
	Rating           float64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// CourseFilter narrows course listings.
type CourseFilter struct {
	PublishedOnly bool
	Level         CourseLevel
	Category      string
	Search        string // substring match over title/description
}
