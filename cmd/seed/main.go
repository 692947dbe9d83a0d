package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"flerr-server/internal/config"
	"flerr-server/internal/domain/model"
	"flerr-server/internal/domain/ports/repository"
	pg "flerr-server/internal/infra/db/postgres"
)

// Seeds an admin account and a small demo catalog for local development.
func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	adminEmail := flag.String("admin-email", "admin@flerr.local", "seed admin email")
	adminPassword := flag.String("admin-password", "admin12345", "seed admin password")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, true)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := pg.RunMigrations(cfg.Database.URL); err != nil {
		log.Fatalf("migrations: %v", err)
	}
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	userRepo := pg.NewUserRepo(pool)
	courseRepo := pg.NewCourseRepo(pool)
	lessonRepo := pg.NewLessonRepo(pool)
	promoRepo := pg.NewPromoCodeRepo(pool)

	// If the admin already exists, assume the database is seeded.
	if _, err := userRepo.FindByEmail(ctx, repository.NoTX, *adminEmail); err == nil {
		fmt.Println("admin already present. No changes.")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}
	admin := &model.User{
		Email:        *adminEmail,
		PasswordHash: string(hash),
		Name:         "Admin",
		Roles:        []string{model.RoleStudent, model.RoleAdmin},
	}
	if err := userRepo.Save(ctx, repository.NoTX, admin); err != nil {
		log.Fatalf("create admin: %v", err)
	}
	fmt.Printf("seeded admin: %s (id=%s)\n", admin.Email, admin.ID)

	course := &model.Course{
		Title:            "Floristry Basics",
		Slug:             "floristry-basics",
		Description:      "A first course on flower arrangement fundamentals.",
		ShortDescription: "Learn the fundamentals of flower arrangement.",
		Level:            model.LevelBeginner,
		Categories:       []string{"floristry"},
		Price:            4900,
		Published:        true,
		Instructor:       "Admin",
		DurationMin:      180,
	}
	if err := courseRepo.Create(ctx, repository.NoTX, course); err != nil {
		log.Fatalf("create course: %v", err)
	}
	fmt.Printf("seeded course: %s (id=%s)\n", course.Slug, course.ID)

	lessons := []*model.Lesson{
		{CourseID: course.ID, Title: "Welcome", Slug: "welcome", DurationSec: 300, FreePreview: true, Order: 1},
		{CourseID: course.ID, Title: "Tools and Materials", Slug: "tools-and-materials", DurationSec: 900, Order: 2},
		{CourseID: course.ID, Title: "Your First Bouquet", Slug: "your-first-bouquet", DurationSec: 1500, Order: 3},
	}
	for _, l := range lessons {
		if err := lessonRepo.Create(ctx, repository.NoTX, l); err != nil {
			log.Fatalf("create lesson %q: %v", l.Slug, err)
		}
		fmt.Printf("seeded lesson: %s (id=%s)\n", l.Slug, l.ID)
	}

	codes := []*model.PromoCode{
		{Code: "WELCOME2024", Scope: model.ScopePlatform, MaxUses: 100, IsActive: true, CreatedBy: admin.ID, Notes: "launch promo"},
		{Code: "FLOWERS101", Scope: model.ScopeCourse, CourseID: &course.ID, MaxUses: 50, IsActive: true, CreatedBy: admin.ID, Notes: "single course promo"},
	}
	for _, pc := range codes {
		if err := promoRepo.Create(ctx, repository.NoTX, pc); err != nil {
			log.Fatalf("create promo code %q: %v", pc.Code, err)
		}
		fmt.Printf("seeded promo code: %s (scope=%s)\n", pc.Code, pc.Scope)
	}

	fmt.Println("Seeding complete.")
}
