package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"flerr-server/internal/config"
	"flerr-server/internal/infra/redis"
	"flerr-server/internal/usecase"
)

// Server owns the route tree and holds every use case behind it.
type Server struct {
	auth    *AuthManager
	limiter *redis.RateLimiter

	authUC     usecase.AuthUseCase
	promoUC    usecase.PromoUseCase
	courseUC   usecase.CourseUseCase
	lessonUC   usecase.LessonUseCase
	teacherUC  usecase.TeacherUseCase
	galleryUC  usecase.GalleryUseCase
	settingsUC usecase.SettingsUseCase
	adminUC    usecase.AdminUseCase
	searchUC   usecase.SearchUseCase
	uploadUC   usecase.UploadUseCase

	promoLimit int
	corsOrigin string
	log        *zerolog.Logger
}

type Deps struct {
	Auth    *AuthManager
	Limiter *redis.RateLimiter

	AuthUC     usecase.AuthUseCase
	PromoUC    usecase.PromoUseCase
	CourseUC   usecase.CourseUseCase
	LessonUC   usecase.LessonUseCase
	TeacherUC  usecase.TeacherUseCase
	GalleryUC  usecase.GalleryUseCase
	SettingsUC usecase.SettingsUseCase
	AdminUC    usecase.AdminUseCase
	SearchUC   usecase.SearchUseCase
	UploadUC   usecase.UploadUseCase
}

func NewServer(cfg *config.Config, deps Deps, logger *zerolog.Logger) *Server {
	return &Server{
		auth:       deps.Auth,
		limiter:    deps.Limiter,
		authUC:     deps.AuthUC,
		promoUC:    deps.PromoUC,
		courseUC:   deps.CourseUC,
		lessonUC:   deps.LessonUC,
		teacherUC:  deps.TeacherUC,
		galleryUC:  deps.GalleryUC,
		settingsUC: deps.SettingsUC,
		adminUC:    deps.AdminUC,
		searchUC:   deps.SearchUC,
		uploadUC:   deps.UploadUC,
		promoLimit: cfg.RateLimit.PromoPerMinute,
		corsOrigin: cfg.Server.CORSOrigin,
		log:        logger,
	}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(traceMiddleware)
	r.Use(recoverMiddleware(s.log))
	r.Use(requestLogMiddleware(s.log))
	r.Use(corsMiddleware(s.corsOrigin))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.handleRegister)
			r.Post("/login", s.handleLogin)
			r.Post("/refresh", s.handleRefresh)
			r.Post("/logout", s.handleLogout)
			r.Post("/forgot-password", s.handleForgotPassword)
			r.Post("/reset-password", s.handleResetPassword)
			r.With(s.requireAuth).Get("/me", s.handleMe)
		})

		r.Route("/courses", func(r chi.Router) {
			r.With(s.optionalAuth).Get("/", s.handleListCourses)
			r.With(s.optionalAuth).Get("/{slug}", s.handleGetCourse)
			r.With(s.optionalAuth).Get("/{slug}/lessons", s.handleListLessons)
			r.With(s.requireAuth).Put("/{id}/favorite", s.handleSetFavorite)
			r.With(s.requireAuth).Delete("/{id}/favorite", s.handleUnsetFavorite)
		})

		r.Route("/lessons", func(r chi.Router) {
			r.With(s.optionalAuth).Get("/{id}", s.handleGetLesson)
			r.With(s.requireAuth).Put("/{id}/progress", s.handleSaveProgress)
		})

		r.Route("/promo", func(r chi.Router) {
			r.With(s.requireAuth, s.promoRateLimit).Post("/validate", s.handleValidatePromo)
			r.With(s.requireAuth, s.promoRateLimit).Post("/activate", s.handleActivatePromo)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAdmin)
				r.Get("/", s.handleListPromoCodes)
				r.Post("/", s.handleCreatePromoCode)
				r.Get("/{id}", s.handleGetPromoCode)
				r.Patch("/{id}", s.handleUpdatePromoCode)
				r.Delete("/{id}", s.handleDeletePromoCode)
			})
		})

		r.Get("/teachers", s.handleListTeachers)
		r.Get("/gallery", s.handleListGallery)
		r.Get("/site-settings", s.handleGetSettings)
		r.Get("/search", s.handleSearch)

		r.Route("/admin", func(r chi.Router) {
			r.Use(s.requireAdmin)

			r.Get("/stats", s.handleStats)
			r.Get("/users", s.handleListUsers)
			r.Get("/users/{id}", s.handleGetUser)
			r.Put("/users/{id}/roles", s.handleSetUserRoles)
			r.Delete("/users/{id}", s.handleDeleteUser)
			r.Get("/activations", s.handleListActivations)

			r.Get("/courses", s.handleAdminListCourses)
			r.Post("/courses", s.handleCreateCourse)
			r.Get("/courses/{id}", s.handleAdminGetCourse)
			r.Put("/courses/{id}", s.handleUpdateCourse)
			r.Delete("/courses/{id}", s.handleDeleteCourse)

			r.Post("/lessons", s.handleCreateLesson)
			r.Get("/lessons/{id}", s.handleAdminGetLesson)
			r.Put("/lessons/{id}", s.handleUpdateLesson)
			r.Delete("/lessons/{id}", s.handleDeleteLesson)

			r.Get("/teachers", s.handleAdminListTeachers)
			r.Post("/teachers", s.handleSaveTeacher)
			r.Put("/teachers/{id}", s.handleSaveTeacher)
			r.Delete("/teachers/{id}", s.handleDeleteTeacher)

			r.Post("/gallery", s.handleSaveGalleryItem)
			r.Put("/gallery/{id}", s.handleSaveGalleryItem)
			r.Delete("/gallery/{id}", s.handleDeleteGalleryItem)

			r.Put("/site-settings", s.handleSaveSettings)
			r.Post("/uploads/url", s.handlePresignUpload)
		})
	})

	return r
}
