package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/registrar-backend/internal/config"
	"github.com/stemsi/registrar-backend/internal/database"
	"github.com/stemsi/registrar-backend/internal/handler"
	"github.com/stemsi/registrar-backend/internal/logger"
	"github.com/stemsi/registrar-backend/internal/middleware"
	"github.com/stemsi/registrar-backend/internal/repository"
	"github.com/stemsi/registrar-backend/internal/repository/memstore"
	"github.com/stemsi/registrar-backend/internal/router"
	"github.com/stemsi/registrar-backend/internal/service"
	"github.com/stemsi/registrar-backend/internal/validator"
)

// stores bundles the persistence layer selected by STORE_DRIVER.
type stores struct {
	tx          service.Transactor
	students    service.StudentStore
	courses     service.CourseStore
	enrollments service.EnrollmentStore
	deps        map[string]handler.Pinger
	close       func()
}

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("store", cfg.StoreDriver).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Registrar Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Open Store ────────────────────────────────────────────────────
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.StoreDriver).Msg("Failed to open store")
	}
	defer st.close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	var limiter *middleware.RateLimiter
	if rdb != nil {
		defer rdb.Close()
		limiter = middleware.NewRateLimiter(rdb, cfg.RateLimitPerMinute, time.Minute, log)
		st.deps["redis"] = handler.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}

	// ─── Initialize Services ──────────────────────────────────────────
	studentService := service.NewStudentService(st.tx, st.students, st.enrollments, log)
	courseService := service.NewCourseService(st.tx, st.courses, st.enrollments, log)
	enrollmentService := service.NewEnrollmentService(st.tx, st.students, st.courses, st.enrollments, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Student:    handler.NewStudentHandler(studentService, log),
		Course:     handler.NewCourseHandler(courseService, log),
		Enrollment: handler.NewEnrollmentHandler(enrollmentService, log),
		System:     handler.NewSystemHandler(st.deps, log),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, limiter, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		log.Warn().Msg("Using in-memory store, data is lost on restart")
		mem := memstore.New()
		return &stores{
			tx:          mem,
			students:    mem.Students(),
			courses:     mem.Courses(),
			enrollments: mem.Enrollments(),
			deps:        map[string]handler.Pinger{},
			close:       func() {},
		}, nil
	}

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return &stores{
		tx:          database.NewTxManager(pool, log),
		students:    repository.NewStudentRepository(pool),
		courses:     repository.NewCourseRepository(pool),
		enrollments: repository.NewEnrollmentRepository(pool),
		deps:        map[string]handler.Pinger{"postgres": pool},
		close:       pool.Close,
	}, nil
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
