package web

import (
	"time"

	"flerr-server/internal/domain/model"
	"flerr-server/internal/usecase"
)

// Wire shapes. Domain models stay free of json tags; everything the API
// returns goes through these.

type userDTO struct {
	ID           string           `json:"id"`
	Email        string           `json:"email"`
	Name         string           `json:"name"`
	Roles        []string         `json:"roles"`
	Favorites    []string         `json:"favorites"`
	Progress     map[string]int   `json:"progress"`
	Entitlements []entitlementDTO `json:"entitlements"`
	CreatedAt    time.Time        `json:"createdAt"`
}

type entitlementDTO struct {
	CodeID       string    `json:"codeId"`
	CourseIDs    []string  `json:"courseIds"`
	GlobalAccess bool      `json:"globalAccess"`
	ActivatedAt  time.Time `json:"activatedAt"`
}

func toUserDTO(u *model.User) userDTO {
	dto := userDTO{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Roles:        u.Roles,
		Favorites:    u.Favorites,
		Progress:     u.Progress,
		Entitlements: make([]entitlementDTO, 0, len(u.Entitlements)),
		CreatedAt:    u.CreatedAt,
	}
	if dto.Favorites == nil {
		dto.Favorites = []string{}
	}
	if dto.Progress == nil {
		dto.Progress = map[string]int{}
	}
	for _, e := range u.Entitlements {
		courseIDs := e.CourseIDs
		if courseIDs == nil {
			courseIDs = []string{}
		}
		dto.Entitlements = append(dto.Entitlements, entitlementDTO{
			CodeID:       e.CodeID,
			CourseIDs:    courseIDs,
			GlobalAccess: e.GlobalAccess,
			ActivatedAt:  e.ActivatedAt,
		})
	}
	return dto
}

type courseDTO struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Slug             string   `json:"slug"`
	Description      string   `json:"description"`
	ShortDescription string   `json:"shortDescription"`
	Level            string   `json:"level"`
	Categories       []string `json:"categories"`
	CoverURL         string   `json:"coverUrl"`
	Price            int64    `json:"price"`
	Published        bool     `json:"published"`
	Instructor       string   `json:"instructor"`
	DurationMin      int      `json:"durationMin"`
	StudentsCount    int      `json:"studentsCount"`
	Rating           float64  `json:"rating"`
}

func toCourseDTO(c *model.Course) courseDTO {
	categories := c.Categories
	if categories == nil {
		categories = []string{}
	}
	return courseDTO{
		ID:               c.ID,
		Title:            c.Title,
		Slug:             c.Slug,
		Description:      c.Description,
		ShortDescription: c.ShortDescription,
		Level:            string(c.Level),
		Categories:       categories,
		CoverURL:         c.CoverURL,
		Price:            c.Price,
		Published:        c.Published,
		Instructor:       c.Instructor,
		DurationMin:      c.DurationMin,
		StudentsCount:    c.StudentsCount,
		Rating:           c.Rating,
	}
}

// courseViewDTO is the course-page payload: the catalog fields plus the
// viewer's entitlement state for this course.
type courseViewDTO struct {
	courseDTO
	HasAccess bool `json:"hasAccess"`
}

func toCourseDTOs(courses []*model.Course) []courseDTO {
	out := make([]courseDTO, 0, len(courses))
	for _, c := range courses {
		out = append(out, toCourseDTO(c))
	}
	return out
}

// lessonListDTO is the course-page row. No video key, no signed URLs.
type lessonListDTO struct {
	ID           string `json:"id"`
	CourseID     string `json:"courseId"`
	Title        string `json:"title"`
	Slug         string `json:"slug"`
	Description  string `json:"description"`
	DurationSec  int    `json:"durationSec"`
	ThumbnailURL string `json:"thumbnailUrl"`
	FreePreview  bool   `json:"freePreview"`
	Order        int    `json:"order"`
	Accessible   bool   `json:"accessible"`
	Progress     int    `json:"progress"`
}

func toLessonListDTO(item *usecase.LessonListItem) lessonListDTO {
	l := item.Lesson
	return lessonListDTO{
		ID:           l.ID,
		CourseID:     l.CourseID,
		Title:        l.Title,
		Slug:         l.Slug,
		Description:  l.Description,
		DurationSec:  l.DurationSec,
		ThumbnailURL: l.ThumbnailURL,
		FreePreview:  l.FreePreview,
		Order:        l.Order,
		Accessible:   item.Accessible,
		Progress:     item.Progress,
	}
}

// lessonViewDTO is the playback payload. VideoURL and material links are
// presigned and only present when access was granted.
type lessonViewDTO struct {
	lessonListDTO
	Chapters     []model.Chapter  `json:"chapters"`
	VideoURL     string           `json:"videoUrl,omitempty"`
	Materials    []model.Material `json:"materials,omitempty"`
	SubtitlesURL string           `json:"subtitlesUrl,omitempty"`
}

func toLessonViewDTO(view *usecase.LessonView) lessonViewDTO {
	l := view.Lesson
	chapters := l.Chapters
	if chapters == nil {
		chapters = []model.Chapter{}
	}
	return lessonViewDTO{
		lessonListDTO: toLessonListDTO(&usecase.LessonListItem{Lesson: l, Accessible: view.Accessible}),
		Chapters:      chapters,
		VideoURL:      view.VideoURL,
		Materials:     view.Materials,
		SubtitlesURL:  l.SubtitlesURL,
	}
}

// adminLessonDTO is the admin payload: raw keys included.
type adminLessonDTO struct {
	lessonListDTO
	VideoKey     string           `json:"videoKey"`
	Chapters     []model.Chapter  `json:"chapters"`
	Materials    []model.Material `json:"materials"`
	SubtitlesURL string           `json:"subtitlesUrl"`
}

func toAdminLessonDTO(l *model.Lesson) adminLessonDTO {
	chapters := l.Chapters
	if chapters == nil {
		chapters = []model.Chapter{}
	}
	materials := l.Materials
	if materials == nil {
		materials = []model.Material{}
	}
	return adminLessonDTO{
		lessonListDTO: toLessonListDTO(&usecase.LessonListItem{Lesson: l}),
		VideoKey:      l.VideoKey,
		Chapters:      chapters,
		Materials:     materials,
		SubtitlesURL:  l.SubtitlesURL,
	}
}

type promoCodeDTO struct {
	ID        string     `json:"id"`
	Code      string     `json:"code"`
	Scope     string     `json:"scope"`
	CourseID  *string    `json:"courseId,omitempty"`
	MaxUses   int        `json:"maxUses"`
	UsedCount int        `json:"usedCount"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	IsActive  bool       `json:"isActive"`
	Notes     string     `json:"notes"`
	CreatedBy string     `json:"createdBy"`
	CreatedAt time.Time  `json:"createdAt"`
}

func toPromoCodeDTO(pc *model.PromoCode) promoCodeDTO {
	return promoCodeDTO{
		ID:        pc.ID,
		Code:      pc.Code,
		Scope:     string(pc.Scope),
		CourseID:  pc.CourseID,
		MaxUses:   pc.MaxUses,
		UsedCount: pc.UsedCount,
		ExpiresAt: pc.ExpiresAt,
		IsActive:  pc.IsActive,
		Notes:     pc.Notes,
		CreatedBy: pc.CreatedBy,
		CreatedAt: pc.CreatedAt,
	}
}

type teacherDTO struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Photo          string            `json:"photo"`
	Specialization string            `json:"specialization"`
	Bio            string            `json:"bio"`
	Experience     string            `json:"experience"`
	CourseIDs      []string          `json:"courseIds"`
	Order          int               `json:"order"`
	Active         bool              `json:"active"`
	Social         model.SocialLinks `json:"social"`
}

func toTeacherDTO(t *model.Teacher) teacherDTO {
	courseIDs := t.CourseIDs
	if courseIDs == nil {
		courseIDs = []string{}
	}
	return teacherDTO{
		ID:             t.ID,
		Name:           t.Name,
		Photo:          t.Photo,
		Specialization: t.Specialization,
		Bio:            t.Bio,
		Experience:     t.Experience,
		CourseIDs:      courseIDs,
		Order:          t.Order,
		Active:         t.Active,
		Social:         t.Social,
	}
}

type galleryItemDTO struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	ImageURL    string `json:"imageUrl"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Order       int    `json:"order"`
	Featured    bool   `json:"featured"`
}

func toGalleryItemDTO(g *model.GalleryItem) galleryItemDTO {
	return galleryItemDTO{
		ID:          g.ID,
		Title:       g.Title,
		ImageURL:    g.ImageURL,
		Category:    g.Category,
		Description: g.Description,
		Order:       g.Order,
		Featured:    g.Featured,
	}
}

type siteSettingsDTO struct {
	SiteName     string            `json:"siteName"`
	Tagline      string            `json:"tagline"`
	HeroTitle    string            `json:"heroTitle"`
	HeroSubtitle string            `json:"heroSubtitle"`
	ContactEmail string            `json:"contactEmail"`
	ContactPhone string            `json:"contactPhone"`
	FooterText   string            `json:"footerText"`
	SocialLinks  model.SocialLinks `json:"socialLinks"`
}

func toSiteSettingsDTO(s *model.SiteSettings) siteSettingsDTO {
	return siteSettingsDTO{
		SiteName:     s.SiteName,
		Tagline:      s.Tagline,
		HeroTitle:    s.HeroTitle,
		HeroSubtitle: s.HeroSubtitle,
		ContactEmail: s.ContactEmail,
		ContactPhone: s.ContactPhone,
		FooterText:   s.FooterText,
		SocialLinks:  s.SocialLinks,
	}
}

type activationDTO struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	UserName    string    `json:"userName"`
	UserEmail   string    `json:"userEmail"`
	Code        string    `json:"code"`
	Scope       string    `json:"scope"`
	ActivatedAt time.Time `json:"activatedAt"`
	IP          string    `json:"ip"`
	UserAgent   string    `json:"userAgent"`
}

func toActivationDTO(a *model.ActivationSummary) activationDTO {
	return activationDTO{
		ID:          a.ID,
		UserID:      a.UserID,
		UserName:    a.UserName,
		UserEmail:   a.UserEmail,
		Code:        a.Code,
		Scope:       string(a.Scope),
		ActivatedAt: a.ActivatedAt,
		IP:          a.IP,
		UserAgent:   a.UserAgent,
	}
}

// pageDTO wraps any paginated listing.
type pageDTO struct {
	Items interface{} `json:"items"`
	Total int         `json:"total"`
}
