package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"flerr-server/internal/domain/model"
)

// handleListLessons serves the course page: lesson metadata, lock state and
// the viewer's progress. Video keys never leave the server here.
func (s *Server) handleListLessons(w http.ResponseWriter, r *http.Request) {
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
	items, err := s.lessonUC.ListByCourse(r.Context(), course.ID, user)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	out := make([]lessonListDTO, 0, len(items))
	for _, item := range items {
		out = append(out, toLessonListDTO(item))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetLesson(w http.ResponseWriter, r *http.Request) {
	user, err := s.viewer(r)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	view, err := s.lessonUC.Get(r.Context(), chi.URLParam(r, "id"), user)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toLessonViewDTO(view))
}

func (s *Server) handleSaveProgress(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Percent int `json:"percent"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, s.log, err)
		return
	}
	err := s.lessonUC.SaveProgress(r.Context(), claimsFrom(r.Context()).UserID, chi.URLParam(r, "id"), req.Percent)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"percent": req.Percent})
}

type lessonWriteRequest struct {
	CourseID     string           `json:"courseId"`
	Title        string           `json:"title"`
	Slug         string           `json:"slug"`
	Description  string           `json:"description"`
	DurationSec  int              `json:"durationSec"`
	VideoKey     string           `json:"videoKey"`
	ThumbnailURL string           `json:"thumbnailUrl"`
	SubtitlesURL string           `json:"subtitlesUrl"`
	Materials    []model.Material `json:"materials"`
	Chapters     []model.Chapter  `json:"chapters"`
	FreePreview  bool             `json:"freePreview"`
	Order        int              `json:"order"`
}

func (req *lessonWriteRequest) toModel(id string) *model.Lesson {
	return &model.Lesson{
		ID:           id,
		CourseID:     req.CourseID,
		Title:        req.Title,
		Slug:         req.Slug,
		Description:  req.Description,
		DurationSec:  req.DurationSec,
		VideoKey:     req.VideoKey,
		ThumbnailURL: req.ThumbnailURL,
		SubtitlesURL: req.SubtitlesURL,
		Materials:    req.Materials,
		Chapters:     req.Chapters,
		FreePreview:  req.FreePreview,
		Order:        req.Order,
	}
}

func (s *Server) handleCreateLesson(w http.ResponseWriter, r *http.Request) {
	var req lessonWriteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, s.log, err)
		return
	}
	lesson := req.toModel("")
	if err := s.lessonUC.Create(r.Context(), lesson); err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAdminLessonDTO(lesson))
}

func (s *Server) handleUpdateLesson(w http.ResponseWriter, r *http.Request) {
	var req lessonWriteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, s.log, err)
		return
	}
	lesson := req.toModel(chi.URLParam(r, "id"))
	if err := s.lessonUC.Update(r.Context(), lesson); err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toAdminLessonDTO(lesson))
}

func (s *Server) handleDeleteLesson(w http.ResponseWriter, r *http.Request) {
	if err := s.lessonUC.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleAdminGetLesson(w http.ResponseWriter, r *http.Request) {
	lesson, err := s.lessonUC.GetRaw(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toAdminLessonDTO(lesson))
}
