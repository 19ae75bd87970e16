package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/registrar-backend/internal/config"
	"github.com/stemsi/registrar-backend/internal/handler"
	"github.com/stemsi/registrar-backend/internal/middleware"
	"github.com/stemsi/registrar-backend/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Student    *handler.StudentHandler
	Course     *handler.CourseHandler
	Enrollment *handler.EnrollmentHandler
	System     *handler.SystemHandler
}

// SetupRouter configures middleware and routes. limiter may be nil, in
// which case requests are not rate limited.
func SetupRouter(
	handlers *Handlers,
	limiter *middleware.RateLimiter,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", response.HeaderRequestID}
	corsConfig.ExposeHeaders = []string{response.HeaderRequestID}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Brotli())

	router.GET("/", middleware.CacheControl(3600), handlers.System.Root)
	router.GET("/health", middleware.CacheControl(0), handlers.System.Health)

	// ─── Registrar API ─────────────────────────────────────────────────
	api := router.Group("/")
	if limiter != nil {
		api.Use(limiter.Middleware())
	}

	students := api.Group("/students")
	{
		students.GET("", handlers.Student.List)
		students.POST("", handlers.Student.Create)
		students.GET("/:id", handlers.Student.Get)
		students.PATCH("/:id", handlers.Student.Patch)
		students.DELETE("/:id", handlers.Student.Delete)
		students.GET("/:id/courses", handlers.Student.Courses)
	}

	courses := api.Group("/courses")
	{
		courses.GET("", handlers.Course.List)
		courses.POST("", handlers.Course.Create)
		courses.GET("/:id", handlers.Course.Get)
		courses.PATCH("/:id", handlers.Course.Patch)
		courses.DELETE("/:id", handlers.Course.Delete)
		courses.GET("/:id/students", handlers.Course.Students)
	}

	api.POST("/enrollments", handlers.Enrollment.Create)

	return router
}
