package model

import "time"

// Material is a downloadable attachment of a lesson. URL holds the storage
// key; presigned download links are generated per request.
type Material struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Type  string `json:"type"`
}

// Chapter marks a named position inside a lesson's video.
type Chapter struct {
	Title   string `json:"title"`
	TimeSec int    `json:"time_sec"`
}

// Lesson belongs to exactly one course. Slug is unique within the course.
// VideoKey is an opaque storage key, never exposed in listings; playback goes
// through time-limited presigned URLs.
type Lesson struct {
	ID           string
	CourseID     string
	Title        string
	Slug         string
	Description  string
	DurationSec  int
	VideoKey     string
	ThumbnailURL string
	SubtitlesURL string
	Materials    []Material
	Chapters     []Chapter
	FreePreview  bool
	Order        int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
