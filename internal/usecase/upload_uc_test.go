//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"flerr-server/internal/domain"
	"flerr-server/internal/domain/model"
	"flerr-server/internal/domain/ports/repository"
	"flerr-server/internal/usecase"
)

func TestUploadUseCase_PresignUpload(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	courses := newMemCourseRepo()
	lessons := newMemLessonRepo()
	storage := &mockStorage{}
	uc := usecase.NewUploadUseCase(courses, lessons, storage, time.Hour, newTestLogger())

	course := &model.Course{Title: "C", Slug: "flowers-101", Published: true}
	if err := courses.Create(ctx, repository.NoTX, course); err != nil {
		t.Fatalf("create course: %v", err)
	}
	lesson := &model.Lesson{CourseID: course.ID, Title: "L", Slug: "l", Order: 1}
	if err := lessons.Create(ctx, repository.NoTX, lesson); err != nil {
		t.Fatalf("create lesson: %v", err)
	}

	t.Run("video key layout", func(t *testing.T) {
		ticket, err := uc.PresignUpload(ctx, usecase.UploadRequest{
			Kind: usecase.UploadVideo, CourseID: course.ID, LessonID: lesson.ID,
			Filename: "final.mp4", ContentType: "video/mp4",
		})
		if err != nil {
			t.Fatalf("presign: %v", err)
		}
		want := "videos/flowers-101/" + lesson.ID + "/final.mp4"
		if ticket.Key != want {
			t.Errorf("key = %q, want %q", ticket.Key, want)
		}
		if ticket.URL == "" {
			t.Error("missing upload URL")
		}
	})

	t.Run("cover key layout", func(t *testing.T) {
		ticket, err := uc.PresignUpload(ctx, usecase.UploadRequest{
			Kind: usecase.UploadCover, CourseID: course.ID, Filename: "cover.jpg",
		})
		if err != nil {
			t.Fatalf("presign: %v", err)
		}
		if ticket.Key != "covers/flowers-101/cover.jpg" {
			t.Errorf("key = %q", ticket.Key)
		}
	})

	t.Run("filename cannot escape its prefix", func(t *testing.T) {
		ticket, err := uc.PresignUpload(ctx, usecase.UploadRequest{
			Kind: usecase.UploadMaterial, CourseID: course.ID, LessonID: lesson.ID,
			Filename: "../../secrets.txt",
		})
		if err != nil {
			t.Fatalf("presign: %v", err)
		}
		if strings.Contains(ticket.Key, "..") {
			t.Errorf("key %q escapes the material prefix", ticket.Key)
		}
		if !strings.HasPrefix(ticket.Key, "materials/flowers-101/") {
			t.Errorf("key = %q, want materials prefix", ticket.Key)
		}
	})

	t.Run("lesson must belong to the course", func(t *testing.T) {
		other := &model.Course{Title: "O", Slug: "other", Published: true}
		if err := courses.Create(ctx, repository.NoTX, other); err != nil {
			t.Fatalf("create course: %v", err)
		}
		_, err := uc.PresignUpload(ctx, usecase.UploadRequest{
			Kind: usecase.UploadVideo, CourseID: other.ID, LessonID: lesson.ID, Filename: "x.mp4",
		})
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("err = %v, want ErrInvalidArgument", err)
		}
	})

	t.Run("rejects empty and hidden filenames", func(t *testing.T) {
		for _, name := range []string{"", "   ", ".hidden"} {
			_, err := uc.PresignUpload(ctx, usecase.UploadRequest{
				Kind: usecase.UploadImage, Filename: name,
			})
			if !errors.Is(err, domain.ErrInvalidArgument) {
				t.Errorf("Filename %q: err = %v, want ErrInvalidArgument", name, err)
			}
		}
	})
}
