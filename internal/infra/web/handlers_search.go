package web

import (
	"net/http"
	"strconv"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	results, err := s.searchUC.Search(r.Context(), q.Get("q"), limit)
	if err != nil {
		writeError(w, s.log, err)
		return
	}

	lessons := make([]lessonListDTO, 0, len(results.Lessons))
	for _, l := range results.Lessons {
		lessons = append(lessons, lessonListDTO{
			ID:           l.ID,
			CourseID:     l.CourseID,
			Title:        l.Title,
			Slug:         l.Slug,
			Description:  l.Description,
			DurationSec:  l.DurationSec,
			ThumbnailURL: l.ThumbnailURL,
			FreePreview:  l.FreePreview,
			Order:        l.Order,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"courses": toCourseDTOs(results.Courses),
		"lessons": lessons,
	})
}
