package web

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"flerr-server/internal/domain/model"
)

// pagination reads offset/limit query params with sane bounds.
func pagination(r *http.Request) (offset, limit int) {
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return offset, limit
}

// viewer resolves the authenticated user for access decisions, or nil for
// anonymous requests.
func (s *Server) viewer(r *http.Request) (*model.User, error) {
	claims := claimsFrom(r.Context())
	if claims == nil {
		return nil, nil
	}
	return s.authUC.Me(r.Context(), claims.UserID)
}

func courseFilterFrom(r *http.Request) model.CourseFilter {
	q := r.URL.Query()
	return model.CourseFilter{
		Level:    model.CourseLevel(q.Get("level")),
		Category: q.Get("category"),
		Search:   q.Get("search"),
	}
}

func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	offset, limit := pagination(r)
	courses, total, err := s.courseUC.ListPublic(r.Context(), courseFilterFrom(r), offset, limit)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, pageDTO{Items: toCourseDTOs(courses), Total: total})
}

func (s *Server) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	user, err := s.viewer(r)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	course, err := s.courseUC.GetBySlug(r.Context(), chi.URLParam(r, "slug"), user)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, courseViewDTO{
		courseDTO: toCourseDTO(course),
		HasAccess: courseAccess(user, course.ID),
	})
}

// courseAccess mirrors lesson access without the free-preview branch: admins
// see everything, everyone else needs an entitlement covering the course.
func courseAccess(u *model.User, courseID string) bool {
	if u == nil {
		return false
	}
	return u.IsAdmin() || model.CanAccessCourse(u.Entitlements, courseID)
}

func (s *Server) handleSetFavorite(w http.ResponseWriter, r *http.Request) {
	s.setFavorite(w, r, true)
}

func (s *Server) handleUnsetFavorite(w http.ResponseWriter, r *http.Request) {
	s.setFavorite(w, r, false)
}

func (s *Server) setFavorite(w http.ResponseWriter, r *http.Request, favorite bool) {
	err := s.courseUC.SetFavorite(r.Context(), claimsFrom(r.Context()).UserID, chi.URLParam(r, "id"), favorite)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"favorite": favorite})
}

type courseWriteRequest struct {
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
}

func (req *courseWriteRequest) toModel(id string) *model.Course {
	return &model.Course{
		ID:               id,
		Title:            req.Title,
		Slug:             req.Slug,
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		Level:            model.CourseLevel(req.Level),
		Categories:       req.Categories,
		CoverURL:         req.CoverURL,
		Price:            req.Price,
		Published:        req.Published,
		Instructor:       req.Instructor,
		DurationMin:      req.DurationMin,
	}
}

func (s *Server) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	var req courseWriteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, s.log, err)
		return
	}
	course := req.toModel("")
	if err := s.courseUC.Create(r.Context(), course); err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCourseDTO(course))
}

func (s *Server) handleUpdateCourse(w http.ResponseWriter, r *http.Request) {
	var req courseWriteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, s.log, err)
		return
	}
	course := req.toModel(chi.URLParam(r, "id"))
	if err := s.courseUC.Update(r.Context(), course); err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toCourseDTO(course))
}

func (s *Server) handleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	if err := s.courseUC.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleAdminGetCourse(w http.ResponseWriter, r *http.Request) {
	course, err := s.courseUC.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toCourseDTO(course))
}

func (s *Server) handleAdminListCourses(w http.ResponseWriter, r *http.Request) {
	offset, limit := pagination(r)
	courses, total, err := s.courseUC.ListAll(r.Context(), courseFilterFrom(r), offset, limit)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, pageDTO{Items: toCourseDTOs(courses), Total: total})
}
