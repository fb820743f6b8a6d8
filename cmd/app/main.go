package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"lms-platform/internal/config"
	"lms-platform/internal/domain/ports/adapter"
	"lms-platform/internal/infra/db/postgres"
	"lms-platform/internal/infra/logging"
	"lms-platform/internal/infra/media"
	"lms-platform/internal/infra/metrics"
	"lms-platform/internal/infra/payment"
	red "lms-platform/internal/infra/redis"
	"lms-platform/internal/infra/sched"
	"lms-platform/internal/infra/web"
	"lms-platform/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := postgres.NewPgxPool(ctx, cfg.Database.URL)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer pool.Close()
	postgres.StartPoolStatsReporter(ctx, pool, 0)

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connect failed")
	}
	defer redisClient.Close()
	locker := red.NewLocker(redisClient)

	// ---- Media storage ----
	mediaStore, err := media.NewMinioStorage(&cfg.Media)
	if err != nil {
		logger.Fatal().Err(err).Msg("media storage init failed")
	}

	// ---- Repositories ----
	tm := postgres.NewTxManager(pool)
	purchaseRepo := postgres.NewPurchaseRepo(pool)
	courseRepo := postgres.NewCourseRepoCacheDecorator(postgres.NewCourseRepo(pool), redisClient)
	userRepo := postgres.NewUserRepo(pool)
	lectureRepo := postgres.NewLectureRepo(pool)
	progressRepo := postgres.NewProgressRepo(pool)

	// ---- Payment gateway ----
	var gateway adapter.PaymentGateway
	switch cfg.Payment.Provider {
	case "noop":
		gateway = payment.NewNoopGateway()
		logger.Warn().Msg("using noop payment gateway; orders auto-created, nothing is charged")
	default:
		gateway, err = payment.NewRazorpayGateway(cfg.Payment.KeyID, cfg.Payment.KeySecret, cfg.Payment.BaseURL, 0)
		if err != nil {
			logger.Fatal().Err(err).Msg("payment gateway init failed")
		}
	}
	verifier := payment.NewHMACVerifier(cfg.Payment.KeySecret)

	// ---- Use cases ----
	userUC := usecase.NewUserUseCase(userRepo)
	courseUC := usecase.NewCourseUseCase(courseRepo)
	lectureUC := usecase.NewLectureUseCase(lectureRepo, courseRepo, userRepo, mediaStore, logger)
	progressUC := usecase.NewProgressUseCase(progressRepo, userRepo)
	purchaseUC := usecase.NewPurchaseUseCase(
		purchaseRepo, courseRepo, userRepo, progressRepo,
		gateway, verifier, locker, tm,
		cfg.Payment.OrderCurrency, logger,
	)

	// ---- HTTP server ----
	auth := web.NewAuthManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	server := web.NewServer(cfg, userUC, courseUC, lectureUC, progressUC, purchaseUC, auth, logger)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server stopped")
			cancel()
		}
	}()

	// ---- Purchase reconciler ----
	reconciler := sched.NewPurchaseReconciler(purchaseUC, purchaseRepo, cfg.Reconciler, logger)
	go reconciler.Start(ctx)

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigc:
	case <-ctx.Done():
	}
	logger.Info().Msg("shutdown requested")
	cancel()
	_ = server.Shutdown(context.Background())
}
