//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"flerr-server/internal/domain"
	"flerr-server/internal/domain/model"
	"flerr-server/internal/domain/ports/repository"
	"flerr-server/internal/usecase"
)

type promoFixture struct {
	codes       *memPromoRepo
	users       *memUserRepo
	courses     *memCourseRepo
	activations *memActivationRepo
	uc          usecase.PromoUseCase
}

func newPromoFixture(t *testing.T) *promoFixture {
	t.Helper()
	f := &promoFixture{
		codes:       newMemPromoRepo(),
		users:       newMemUserRepo(),
		courses:     newMemCourseRepo(),
		activations: newMemActivationRepo(),
	}
	f.uc = usecase.NewPromoUseCase(f.codes, f.users, f.courses, f.activations, &mockTxManager{}, newTestLogger())
	return f
}

func (f *promoFixture) addUser(t *testing.T, email string) *model.User {
	t.Helper()
	u := &model.User{Email: email, Name: "Test User", Roles: []string{model.RoleStudent}}
	if err := f.users.Save(context.Background(), repository.NoTX, u); err != nil {
		t.Fatalf("save user: %v", err)
	}
	return u
}

func (f *promoFixture) addCode(t *testing.T, pc *model.PromoCode) *model.PromoCode {
	t.Helper()
	if err := f.codes.Create(context.Background(), repository.NoTX, pc); err != nil {
		t.Fatalf("create code: %v", err)
	}
	return pc
}

func TestPromoUseCase_Activate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("platform code grants global access", func(t *testing.T) {
		f := newPromoFixture(t)
		user := f.addUser(t, "a@test.io")
		f.addCode(t, &model.PromoCode{Code: "WELCOME2024", Scope: model.ScopePlatform, MaxUses: 100, IsActive: true})

		res, err := f.uc.Activate(ctx, user.ID, "welcome2024", "1.2.3.4", "test-agent")
		if err != nil {
			t.Fatalf("expected success, got: %v", err)
		}
		if res.Scope != model.ScopePlatform {
			t.Errorf("scope = %s, want platform", res.Scope)
		}

		reloaded, _ := f.users.FindByID(ctx, repository.NoTX, user.ID)
		if len(reloaded.Entitlements) != 1 || !reloaded.Entitlements[0].GlobalAccess {
			t.Fatalf("expected one global entitlement, got %+v", reloaded.Entitlements)
		}
		pc, _ := f.codes.FindByCode(ctx, repository.NoTX, "WELCOME2024")
		if pc.UsedCount != 1 {
			t.Errorf("usedCount = %d, want 1", pc.UsedCount)
		}
		if n, _ := f.activations.Count(ctx, repository.NoTX); n != 1 {
			t.Errorf("activation count = %d, want 1", n)
		}
	})

	t.Run("course code grants only that course", func(t *testing.T) {
		f := newPromoFixture(t)
		user := f.addUser(t, "b@test.io")
		course := &model.Course{Title: "Flowers 101", Slug: "flowers-101", Published: true}
		if err := f.courses.Create(ctx, repository.NoTX, course); err != nil {
			t.Fatalf("create course: %v", err)
		}
		f.addCode(t, &model.PromoCode{Code: "FLOWERS101", Scope: model.ScopeCourse, CourseID: &course.ID, MaxUses: 50, IsActive: true})

		res, err := f.uc.Activate(ctx, user.ID, "  flowers101 ", "1.2.3.4", "test-agent")
		if err != nil {
			t.Fatalf("expected success, got: %v", err)
		}
		if res.Course == nil || res.Course.ID != course.ID {
			t.Fatalf("expected bound course in result, got %+v", res.Course)
		}

		reloaded, _ := f.users.FindByID(ctx, repository.NoTX, user.ID)
		if !model.CanAccessCourse(reloaded.Entitlements, course.ID) {
			t.Error("expected access to the bound course")
		}
		if model.CanAccessCourse(reloaded.Entitlements, "some-other-course") {
			t.Error("course code must not grant access to other courses")
		}
	})

	t.Run("unknown code", func(t *testing.T) {
		f := newPromoFixture(t)
		user := f.addUser(t, "c@test.io")
		if _, err := f.uc.Activate(ctx, user.ID, "NOPE", "", ""); !errors.Is(err, domain.ErrCodeNotFound) {
			t.Fatalf("err = %v, want ErrCodeNotFound", err)
		}
	})

	t.Run("inactive code", func(t *testing.T) {
		f := newPromoFixture(t)
		user := f.addUser(t, "d@test.io")
		f.addCode(t, &model.PromoCode{Code: "PAUSED", Scope: model.ScopePlatform, MaxUses: 10, IsActive: false})
		if _, err := f.uc.Activate(ctx, user.ID, "PAUSED", "", ""); !errors.Is(err, domain.ErrCodeInactive) {
			t.Fatalf("err = %v, want ErrCodeInactive", err)
		}
	})

	t.Run("expired code", func(t *testing.T) {
		f := newPromoFixture(t)
		user := f.addUser(t, "e@test.io")
		past := time.Now().Add(-time.Hour)
		f.addCode(t, &model.PromoCode{Code: "OLD", Scope: model.ScopePlatform, MaxUses: 10, IsActive: true, ExpiresAt: &past})
		if _, err := f.uc.Activate(ctx, user.ID, "OLD", "", ""); !errors.Is(err, domain.ErrCodeExpired) {
			t.Fatalf("err = %v, want ErrCodeExpired", err)
		}
	})

	t.Run("exhausted code", func(t *testing.T) {
		f := newPromoFixture(t)
		user := f.addUser(t, "f@test.io")
		f.addCode(t, &model.PromoCode{Code: "FULL", Scope: model.ScopePlatform, MaxUses: 2, UsedCount: 2, IsActive: true})
		if _, err := f.uc.Activate(ctx, user.ID, "FULL", "", ""); !errors.Is(err, domain.ErrCodeExhausted) {
			t.Fatalf("err = %v, want ErrCodeExhausted", err)
		}
	})

	t.Run("second redemption by same user is rejected", func(t *testing.T) {
		f := newPromoFixture(t)
		user := f.addUser(t, "g@test.io")
		f.addCode(t, &model.PromoCode{Code: "ONCE", Scope: model.ScopePlatform, MaxUses: 10, IsActive: true})

		if _, err := f.uc.Activate(ctx, user.ID, "ONCE", "", ""); err != nil {
			t.Fatalf("first activation: %v", err)
		}
		if _, err := f.uc.Activate(ctx, user.ID, "ONCE", "", ""); !errors.Is(err, domain.ErrCodeAlreadyActivated) {
			t.Fatalf("err = %v, want ErrCodeAlreadyActivated", err)
		}

		reloaded, _ := f.users.FindByID(ctx, repository.NoTX, user.ID)
		if len(reloaded.Entitlements) != 1 {
			t.Errorf("entitlements = %d, want 1", len(reloaded.Entitlements))
		}
		pc, _ := f.codes.FindByCode(ctx, repository.NoTX, "ONCE")
		if pc.UsedCount != 1 {
			t.Errorf("usedCount = %d, want 1", pc.UsedCount)
		}
	})

	t.Run("deleting the code keeps granted access", func(t *testing.T) {
		f := newPromoFixture(t)
		user := f.addUser(t, "h@test.io")
		pc := f.addCode(t, &model.PromoCode{Code: "SHORTLIVED", Scope: model.ScopePlatform, MaxUses: 10, IsActive: true})

		if _, err := f.uc.Activate(ctx, user.ID, "SHORTLIVED", "", ""); err != nil {
			t.Fatalf("activate: %v", err)
		}
		if err := f.uc.Delete(ctx, pc.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}

		reloaded, _ := f.users.FindByID(ctx, repository.NoTX, user.ID)
		if len(reloaded.Entitlements) != 1 || !reloaded.Entitlements[0].GlobalAccess {
			t.Error("entitlement must survive code deletion")
		}
	})
}

// Concurrent redemptions of a code with maxUses=N must grant exactly N
// entitlements, never more.
func TestPromoUseCase_Activate_ConcurrentExhaustion(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	const maxUses = 5
	const attempts = 20

	f := newPromoFixture(t)
	f.addCode(t, &model.PromoCode{Code: "LIMITED", Scope: model.ScopePlatform, MaxUses: maxUses, IsActive: true})

	userIDs := make([]string, attempts)
	for i := range userIDs {
		u := f.addUser(t, "user"+string(rune('a'+i))+"@test.io")
		userIDs[i] = u.ID
	}

	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for _, id := range userIDs {
		wg.Add(1)
		go func(userID string) {
			defer wg.Done()
			_, err := f.uc.Activate(ctx, userID, "LIMITED", "", "")
			results <- err
		}(id)
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else if !errors.Is(err, domain.ErrCodeExhausted) {
			t.Errorf("unexpected failure: %v", err)
		}
	}
	if succeeded != maxUses {
		t.Errorf("succeeded = %d, want %d", succeeded, maxUses)
	}
	pc, _ := f.codes.FindByCode(ctx, repository.NoTX, "LIMITED")
	if pc.UsedCount != maxUses {
		t.Errorf("usedCount = %d, want %d", pc.UsedCount, maxUses)
	}
}

func TestPromoUseCase_Validate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newPromoFixture(t)
	user := f.addUser(t, "v@test.io")
	f.addCode(t, &model.PromoCode{Code: "CHECKME", Scope: model.ScopePlatform, MaxUses: 3, IsActive: true})

	pc, _, err := f.uc.Validate(ctx, user.ID, "checkme")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if pc.Code != "CHECKME" {
		t.Errorf("code = %s, want CHECKME", pc.Code)
	}

	// Validation must not consume a use or grant anything.
	stored, _ := f.codes.FindByCode(ctx, repository.NoTX, "CHECKME")
	if stored.UsedCount != 0 {
		t.Errorf("usedCount = %d, want 0 after validate", stored.UsedCount)
	}
	reloaded, _ := f.users.FindByID(ctx, repository.NoTX, user.ID)
	if len(reloaded.Entitlements) != 0 {
		t.Errorf("entitlements = %d, want 0 after validate", len(reloaded.Entitlements))
	}
}

func TestPromoUseCase_Create(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("normalizes case and whitespace", func(t *testing.T) {
		f := newPromoFixture(t)
		pc, err := f.uc.Create(ctx, usecase.PromoCreateInput{
			Code:    "  spring24 ",
			Scope:   model.ScopePlatform,
			MaxUses: 10,
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if pc.Code != "SPRING24" {
			t.Errorf("code = %q, want SPRING24", pc.Code)
		}
	})

	t.Run("generates a code when none given", func(t *testing.T) {
		f := newPromoFixture(t)
		pc, err := f.uc.Create(ctx, usecase.PromoCreateInput{Scope: model.ScopePlatform, MaxUses: 1})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if ok, _ := regexp.MatchString(`^[A-Z2-9]{4}-[A-Z2-9]{4}-[A-Z2-9]{4}$`, pc.Code); !ok {
			t.Errorf("generated code %q has unexpected format", pc.Code)
		}
	})

	t.Run("rejects bad input", func(t *testing.T) {
		f := newPromoFixture(t)
		cases := []usecase.PromoCreateInput{
			{Scope: "lifetime", MaxUses: 1},                 // unknown scope
			{Scope: model.ScopeCourse, MaxUses: 1},          // course scope without course
			{Scope: model.ScopePlatform, MaxUses: 0},        // no uses
			{Scope: model.ScopePlatform, MaxUses: -3},       // negative uses
		}
		for _, in := range cases {
			if _, err := f.uc.Create(ctx, in); !errors.Is(err, domain.ErrInvalidArgument) {
				t.Errorf("Create(%+v) err = %v, want ErrInvalidArgument", in, err)
			}
		}
	})

	t.Run("duplicate code conflicts", func(t *testing.T) {
		f := newPromoFixture(t)
		in := usecase.PromoCreateInput{Code: "DUP", Scope: model.ScopePlatform, MaxUses: 1}
		if _, err := f.uc.Create(ctx, in); err != nil {
			t.Fatalf("first create: %v", err)
		}
		if _, err := f.uc.Create(ctx, in); !errors.Is(err, domain.ErrAlreadyExists) {
			t.Fatalf("err = %v, want ErrAlreadyExists", err)
		}
	})
}

func TestPromoUseCase_Update(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newPromoFixture(t)
	pc := f.addCode(t, &model.PromoCode{Code: "EDITABLE", Scope: model.ScopePlatform, MaxUses: 5, IsActive: true})

	newMax := 20
	inactive := false
	updated, err := f.uc.Update(ctx, pc.ID, usecase.PromoPatch{MaxUses: &newMax, IsActive: &inactive})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.MaxUses != 20 || updated.IsActive {
		t.Errorf("updated = %+v, want maxUses=20 inactive", updated)
	}

	bad := 0
	if _, err := f.uc.Update(ctx, pc.ID, usecase.PromoPatch{MaxUses: &bad}); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}
