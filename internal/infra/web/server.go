package web

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"lms-platform/internal/config"
	"lms-platform/internal/domain/model"
	"lms-platform/internal/infra/logging"
	"lms-platform/internal/usecase"
)

type Server struct {
	userUC     usecase.UserUseCase
	courseUC   usecase.CourseUseCase
	lectureUC  usecase.LectureUseCase
	progressUC usecase.ProgressUseCase
	purchaseUC usecase.PurchaseUseCase
	auth       *AuthManager
	log        *zerolog.Logger

	server *http.Server
}

func NewServer(
	cfg *config.Config,
	userUC usecase.UserUseCase,
	courseUC usecase.CourseUseCase,
	lectureUC usecase.LectureUseCase,
	progressUC usecase.ProgressUseCase,
	purchaseUC usecase.PurchaseUseCase,
	auth *AuthManager,
	logger *zerolog.Logger,
) *Server {
	s := &Server{
		userUC:     userUC,
		courseUC:   courseUC,
		lectureUC:  lectureUC,
		progressUC: progressUC,
		purchaseUC: purchaseUC,
		auth:       auth,
		log:        logger,
	}
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      s.Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	return s
}

// Routes builds the chi router. Exposed separately so tests can mount it on
// httptest servers.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.handleRegister)
			r.Post("/login", s.handleLogin)
			r.With(s.auth.Middleware).Get("/profile", s.handleProfile)
		})

		r.Route("/courses", func(r chi.Router) {
			r.Get("/", s.handleListCourses)
			r.Get("/{courseID}", s.handleGetCourse)
			r.Get("/{courseID}/lectures", s.handleListLectures)

			r.Group(func(r chi.Router) {
				r.Use(s.auth.Middleware)
				r.Use(RequireRole(model.UserRoleInstructor, model.UserRoleAdmin))
				r.Post("/", s.handleCreateCourse)
				r.Put("/{courseID}", s.handleUpdateCourse)
				r.Post("/{courseID}/lectures", s.handleAddLecture)
				r.Delete("/{courseID}/lectures/{lectureID}", s.handleRemoveLecture)
			})
		})

		r.Route("/lectures", func(r chi.Router) {
			r.Use(s.auth.Middleware)
			r.Get("/{lectureID}/stream", s.handleStreamLecture)
		})

		r.Route("/payment", func(r chi.Router) {
			r.Use(s.auth.Middleware)
			r.Post("/order", s.handleCreateOrder)
			r.Post("/verify", s.handleVerifyPayment)
			r.Get("/purchases", s.handleListPurchases)
			r.With(RequireRole(model.UserRoleAdmin)).Post("/{purchaseID}/refund", s.handleRefund)
		})

		r.Route("/progress", func(r chi.Router) {
			r.Use(s.auth.Middleware)
			r.Get("/{courseID}", s.handleGetProgress)
			r.Post("/{courseID}/lectures/{lectureID}", s.handleRecordView)
		})
	})

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.WithRequestID(r.Context(), middleware.GetReqID(r.Context()))
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))
		logging.With(ctx, s.log).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Msg("http request")
	})
}

func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("http server listening")
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
