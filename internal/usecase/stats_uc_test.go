//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"flerr-server/internal/domain"
	"flerr-server/internal/domain/model"
	"flerr-server/internal/domain/ports/repository"
	"flerr-server/internal/usecase"
)

func TestAdminUseCase_Stats(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	users := newMemUserRepo()
	courses := newMemCourseRepo()
	lessons := newMemLessonRepo()
	activations := newMemActivationRepo()
	uc := usecase.NewAdminUseCase(users, courses, lessons, activations, newTestLogger())

	for _, email := range []string{"one@test.io", "two@test.io"} {
		if err := users.Save(ctx, repository.NoTX, &model.User{Email: email, Name: "U", Roles: []string{model.RoleStudent}}); err != nil {
			t.Fatalf("save user: %v", err)
		}
	}
	pub := &model.Course{Title: "P", Slug: "p", Published: true, StudentsCount: 10}
	draft := &model.Course{Title: "D", Slug: "d", Published: false}
	for _, c := range []*model.Course{pub, draft} {
		if err := courses.Create(ctx, repository.NoTX, c); err != nil {
			t.Fatalf("create course: %v", err)
		}
	}
	if err := lessons.Create(ctx, repository.NoTX, &model.Lesson{CourseID: pub.ID, Title: "L", Slug: "l", Order: 1}); err != nil {
		t.Fatalf("create lesson: %v", err)
	}
	old := &model.Activation{UserID: "u1", PromoCodeID: "c1", ActivatedAt: time.Now().AddDate(0, 0, -60)}
	recent := &model.Activation{UserID: "u2", PromoCodeID: "c1", ActivatedAt: time.Now().Add(-time.Hour)}
	for _, a := range []*model.Activation{old, recent} {
		if err := activations.Insert(ctx, repository.NoTX, a); err != nil {
			t.Fatalf("insert activation: %v", err)
		}
	}

	stats, err := uc.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalUsers != 2 || stats.PublishedCourses != 1 || stats.TotalLessons != 1 {
		t.Errorf("counts = %+v", stats)
	}
	if stats.TotalActivations != 2 || stats.ActivationsLast30 != 1 {
		t.Errorf("activations = %d last30 = %d, want 2 and 1", stats.TotalActivations, stats.ActivationsLast30)
	}
	if len(stats.TopCourses) != 1 || stats.TopCourses[0].ID != pub.ID {
		t.Errorf("top courses = %+v", stats.TopCourses)
	}
}

func TestAdminUseCase_UserManagement(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	users := newMemUserRepo()
	uc := usecase.NewAdminUseCase(users, newMemCourseRepo(), newMemLessonRepo(), newMemActivationRepo(), newTestLogger())

	admin := &model.User{Email: "admin@test.io", Name: "Admin", Roles: []string{model.RoleStudent, model.RoleAdmin}}
	student := &model.User{Email: "student@test.io", Name: "Student", Roles: []string{model.RoleStudent}}
	for _, u := range []*model.User{admin, student} {
		if err := users.Save(ctx, repository.NoTX, u); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	t.Run("promote a student", func(t *testing.T) {
		updated, err := uc.SetUserRoles(ctx, admin.ID, student.ID, []string{model.RoleStudent, model.RoleAdmin})
		if err != nil {
			t.Fatalf("set roles: %v", err)
		}
		if !updated.IsAdmin() {
			t.Error("student should now be admin")
		}
	})

	t.Run("admin cannot drop own admin role", func(t *testing.T) {
		if _, err := uc.SetUserRoles(ctx, admin.ID, admin.ID, []string{model.RoleStudent}); !errors.Is(err, domain.ErrAccessDenied) {
			t.Fatalf("err = %v, want ErrAccessDenied", err)
		}
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		if _, err := uc.SetUserRoles(ctx, admin.ID, student.ID, []string{"superuser"}); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("err = %v, want ErrInvalidArgument", err)
		}
	})

	t.Run("admin cannot delete self", func(t *testing.T) {
		if err := uc.DeleteUser(ctx, admin.ID, admin.ID); !errors.Is(err, domain.ErrAccessDenied) {
			t.Fatalf("err = %v, want ErrAccessDenied", err)
		}
	})

	t.Run("delete another user", func(t *testing.T) {
		if err := uc.DeleteUser(ctx, admin.ID, student.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if _, err := users.FindByID(ctx, repository.NoTX, student.ID); !errors.Is(err, domain.ErrNotFound) {
			t.Error("student should be gone")
		}
	})
}
