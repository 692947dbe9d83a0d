//go:build !integration

package web_test

import (
	"net/http"
	"strings"
	"testing"

	"flerr-server/internal/domain/model"
	"flerr-server/internal/usecase"
)

func TestServer_GetLesson(t *testing.T) {
	t.Parallel()

	lesson := &model.Lesson{
		ID:       "lesson-1",
		CourseID: "course-1",
		Title:    "Advanced Arranging",
		Slug:     "advanced-arranging",
		VideoKey: "videos/flowers-101/lesson-1/main.mp4",
		Order:    2,
	}

	t.Run("locked lesson omits playback and video key", func(t *testing.T) {
		f := newWebFixture(t, testConfig())
		f.lesson.view = &usecase.LessonView{Lesson: lesson, Accessible: false}

		rec := f.request(t, http.MethodGet, "/api/lessons/lesson-1", nil, f.student)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
		}
		if strings.Contains(rec.Body.String(), lesson.VideoKey) {
			t.Error("response leaks the raw video key")
		}
		var resp struct {
			Accessible bool   `json:"accessible"`
			VideoURL   string `json:"videoUrl"`
		}
		decodeBody(t, rec, &resp)
		if resp.Accessible || resp.VideoURL != "" {
			t.Errorf("locked lesson must not carry playback: %+v", resp)
		}
	})

	t.Run("granted lesson carries the signed URL only", func(t *testing.T) {
		f := newWebFixture(t, testConfig())
		f.lesson.view = &usecase.LessonView{
			Lesson:     lesson,
			Accessible: true,
			VideoURL:   "https://cdn.test/signed?sig=abc",
		}

		rec := f.request(t, http.MethodGet, "/api/lessons/lesson-1", nil, f.student)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var resp struct {
			Accessible bool   `json:"accessible"`
			VideoURL   string `json:"videoUrl"`
		}
		decodeBody(t, rec, &resp)
		if !resp.Accessible || !strings.Contains(resp.VideoURL, "sig=") {
			t.Errorf("expected signed playback URL: %+v", resp)
		}
		if strings.Contains(rec.Body.String(), `"videoKey"`) {
			t.Error("student payload must not include videoKey")
		}
	})

	t.Run("progress endpoint requires auth", func(t *testing.T) {
		f := newWebFixture(t, testConfig())
		rec := f.request(t, http.MethodPut, "/api/lessons/lesson-1/progress", map[string]int{"percent": 50}, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("progress saves for students", func(t *testing.T) {
		f := newWebFixture(t, testConfig())
		rec := f.request(t, http.MethodPut, "/api/lessons/lesson-1/progress", map[string]int{"percent": 50}, f.student)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
		}
	})
}
