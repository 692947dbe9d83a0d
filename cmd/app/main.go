package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flerr-server/internal/config"
	pg "flerr-server/internal/infra/db/postgres"
	"flerr-server/internal/infra/email"
	"flerr-server/internal/infra/logging"
	"flerr-server/internal/infra/metrics"
	red "flerr-server/internal/infra/redis"
	"flerr-server/internal/infra/storage"
	"flerr-server/internal/infra/web"
	"flerr-server/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, fallback secrets)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("dev mode enabled")
	}

	// ---- Postgres ----
	if err := pg.RunMigrations(cfg.Database.URL); err != nil {
		log.Fatalf("migrations: %v", err)
	}
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)

	// ---- Object storage ----
	objStorage, err := storage.NewMinioStorage(cfg.Storage)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	// ---- Repositories ----
	userRepo := pg.NewUserRepo(pool)
	promoRepo := pg.NewPromoCodeRepo(pool)
	activationRepo := pg.NewActivationRepo(pool)
	courseRepo := pg.NewCourseRepoCacheDecorator(pg.NewCourseRepo(pool), redisClient, cfg.Redis.CacheTTL)
	lessonRepo := pg.NewLessonRepo(pool)
	teacherRepo := pg.NewTeacherRepo(pool)
	galleryRepo := pg.NewGalleryRepo(pool)
	settingsRepo := pg.NewSiteSettingsRepo(pool)
	txManager := pg.NewTxManager(pool)

	mailer := email.NewLogMailer(logger)

	// ---- Use cases ----
	authUC := usecase.NewAuthUseCase(userRepo, mailer, logger)
	promoUC := usecase.NewPromoUseCase(promoRepo, userRepo, courseRepo, activationRepo, txManager, logger)
	courseUC := usecase.NewCourseUseCase(courseRepo, userRepo, logger)
	lessonUC := usecase.NewLessonUseCase(lessonRepo, courseRepo, userRepo, objStorage, cfg.Storage.URLExpiry, logger)
	teacherUC := usecase.NewTeacherUseCase(teacherRepo, logger)
	galleryUC := usecase.NewGalleryUseCase(galleryRepo, logger)
	settingsUC := usecase.NewSettingsUseCase(settingsRepo, logger)
	adminUC := usecase.NewAdminUseCase(userRepo, courseRepo, lessonRepo, activationRepo, logger)
	searchUC := usecase.NewSearchUseCase(courseRepo, lessonRepo, logger)
	uploadUC := usecase.NewUploadUseCase(courseRepo, lessonRepo, objStorage, cfg.Storage.URLExpiry, logger)

	// ---- Metrics ----
	metrics.MustRegister()

	// ---- HTTP server ----
	authManager := web.NewAuthManager(cfg.Auth, cfg.Server.SecureCookie)
	srv := web.NewServer(cfg, web.Deps{
		Auth:       authManager,
		Limiter:    rateLimiter,
		AuthUC:     authUC,
		PromoUC:    promoUC,
		CourseUC:   courseUC,
		LessonUC:   lessonUC,
		TeacherUC:  teacherUC,
		GalleryUC:  galleryUC,
		SettingsUC: settingsUC,
		AdminUC:    adminUC,
		SearchUC:   searchUC,
		UploadUC:   uploadUC,
	}, logger)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	cancel()
}
