package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"flerr-server/internal/domain/model"
	"flerr-server/internal/domain/ports/repository"
	"flerr-server/internal/usecase"
)

type statsDTO struct {
	TotalUsers        int         `json:"totalUsers"`
	PublishedCourses  int         `json:"publishedCourses"`
	TotalLessons      int         `json:"totalLessons"`
	TotalActivations  int         `json:"totalActivations"`
	ActivationsLast30 int         `json:"activationsLast30Days"`
	TopCourses        []courseDTO `json:"topCourses"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.adminUC.Stats(r.Context())
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, statsDTO{
		TotalUsers:        stats.TotalUsers,
		PublishedCourses:  stats.PublishedCourses,
		TotalLessons:      stats.TotalLessons,
		TotalActivations:  stats.TotalActivations,
		ActivationsLast30: stats.ActivationsLast30,
		TopCourses:        toCourseDTOs(stats.TopCourses),
	})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	offset, limit := pagination(r)
	f := repository.UserFilter{
		Search: r.URL.Query().Get("search"),
		Role:   r.URL.Query().Get("role"),
	}
	users, total, err := s.adminUC.ListUsers(r.Context(), f, offset, limit)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	items := make([]userDTO, 0, len(users))
	for _, u := range users {
		items = append(items, toUserDTO(u))
	}
	writeJSON(w, http.StatusOK, pageDTO{Items: items, Total: total})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.adminUC.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(user))
}

func (s *Server) handleSetUserRoles(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Roles []string `json:"roles"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, s.log, err)
		return
	}
	actor := claimsFrom(r.Context()).UserID
	user, err := s.adminUC.SetUserRoles(r.Context(), actor, chi.URLParam(r, "id"), req.Roles)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(user))
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	actor := claimsFrom(r.Context()).UserID
	if err := s.adminUC.DeleteUser(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleListTeachers(w http.ResponseWriter, r *http.Request) {
	teachers, err := s.teacherUC.ListPublic(r.Context())
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, teacherDTOs(teachers))
}

func (s *Server) handleAdminListTeachers(w http.ResponseWriter, r *http.Request) {
	teachers, err := s.teacherUC.ListAll(r.Context())
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, teacherDTOs(teachers))
}

func teacherDTOs(teachers []*model.Teacher) []teacherDTO {
	out := make([]teacherDTO, 0, len(teachers))
	for _, t := range teachers {
		out = append(out, toTeacherDTO(t))
	}
	return out
}

type teacherWriteRequest struct {
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

func (s *Server) handleSaveTeacher(w http.ResponseWriter, r *http.Request) {
	var req teacherWriteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, s.log, err)
		return
	}
	t := &model.Teacher{
		ID:             chi.URLParam(r, "id"),
		Name:           req.Name,
		Photo:          req.Photo,
		Specialization: req.Specialization,
		Bio:            req.Bio,
		Experience:     req.Experience,
		CourseIDs:      req.CourseIDs,
		Order:          req.Order,
		Active:         req.Active,
		Social:         req.Social,
	}
	if err := s.teacherUC.Save(r.Context(), t); err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toTeacherDTO(t))
}

func (s *Server) handleDeleteTeacher(w http.ResponseWriter, r *http.Request) {
	if err := s.teacherUC.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleListGallery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := s.galleryUC.List(r.Context(), q.Get("category"), q.Get("featured") == "true")
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	out := make([]galleryItemDTO, 0, len(items))
	for _, g := range items {
		out = append(out, toGalleryItemDTO(g))
	}
	writeJSON(w, http.StatusOK, out)
}

type galleryWriteRequest struct {
	Title       string `json:"title"`
	ImageURL    string `json:"imageUrl"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Order       int    `json:"order"`
	Featured    bool   `json:"featured"`
}

func (s *Server) handleSaveGalleryItem(w http.ResponseWriter, r *http.Request) {
	var req galleryWriteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, s.log, err)
		return
	}
	g := &model.GalleryItem{
		ID:          chi.URLParam(r, "id"),
		Title:       req.Title,
		ImageURL:    req.ImageURL,
		Category:    req.Category,
		Description: req.Description,
		Order:       req.Order,
		Featured:    req.Featured,
	}
	if err := s.galleryUC.Save(r.Context(), g); err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toGalleryItemDTO(g))
}

func (s *Server) handleDeleteGalleryItem(w http.ResponseWriter, r *http.Request) {
	if err := s.galleryUC.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.settingsUC.Get(r.Context())
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toSiteSettingsDTO(settings))
}

func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var req siteSettingsDTO
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, s.log, err)
		return
	}
	saved, err := s.settingsUC.Save(r.Context(), &model.SiteSettings{
		SiteName:     req.SiteName,
		Tagline:      req.Tagline,
		HeroTitle:    req.HeroTitle,
		HeroSubtitle: req.HeroSubtitle,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		FooterText:   req.FooterText,
		SocialLinks:  req.SocialLinks,
	})
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toSiteSettingsDTO(saved))
}

type uploadRequestDTO struct {
	Kind        string `json:"kind"`
	CourseID    string `json:"courseId"`
	LessonID    string `json:"lessonId"`
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
}

func (s *Server) handlePresignUpload(w http.ResponseWriter, r *http.Request) {
	var req uploadRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, s.log, err)
		return
	}
	ticket, err := s.uploadUC.PresignUpload(r.Context(), usecase.UploadRequest{
		Kind:        usecase.UploadKind(req.Kind),
		CourseID:    req.CourseID,
		LessonID:    req.LessonID,
		Filename:    req.Filename,
		ContentType: req.ContentType,
	})
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"key":       ticket.Key,
		"url":       ticket.URL,
		"expiresAt": ticket.ExpiresAt,
	})
}
