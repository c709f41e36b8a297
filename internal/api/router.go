package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/edusphere/elearning-api/internal/api/handler"
	"github.com/edusphere/elearning-api/internal/api/middleware"
	"github.com/edusphere/elearning-api/internal/core/domain"
	"github.com/edusphere/elearning-api/internal/core/ports"
	"github.com/edusphere/elearning-api/internal/core/service"
	mongodb "github.com/edusphere/elearning-api/internal/infrastructure/db/mongo"
	redisdb "github.com/edusphere/elearning-api/internal/infrastructure/db/redis"
	"github.com/edusphere/elearning-api/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, gateway ports.PaymentGateway, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("elearning"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	enrollmentRepo := mongodb.NewEnrollmentRepository(db)
	courseRepo := mongodb.NewCourseRepository(db)
	eventDedup := redisdb.NewEventDedup(rdb)

	authService := service.NewAuthService(userRepo, cfg.DefaultProfilePicture, log)
	tokenService := service.NewTokenService(userRepo, cfg.JWTSecret, cfg.SessionTTL, log)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, log)
	paymentService := service.NewPaymentService(gateway, log)
	courseService := service.NewCourseService(courseRepo, log)

	authHandler := handler.NewAuthHandler(authService, tokenService)
	passwordHandler := handler.NewPasswordHandler(authService)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	webhookHandler := handler.NewWebhookHandler(gateway, enrollmentService, eventDedup, !cfg.IsProduction(), log)
	courseHandler := handler.NewCourseHandler(courseService)
	adminHandler := handler.NewAdminHandler(authService)

	authMiddleware := middleware.Auth(tokenService)

	// --- Auth routes ---
	v1 := e.Group("/v1")
	v1.POST("/auth/register", authHandler.Register)
	v1.POST("/auth/login", authHandler.Login)
	v1.POST("/auth/oauth/callback", authHandler.OAuthCallback)
	v1.GET("/auth/session", authHandler.Session)
	v1.POST("/auth/password", passwordHandler.Setup, authMiddleware)
	v1.PUT("/auth/password", passwordHandler.Change, authMiddleware)

	// --- Catalog ---
	v1.GET("/courses/:id", courseHandler.Get)

	// --- Purchase pipeline ---
	v1.POST("/payments/intent", paymentHandler.CreateIntent, authMiddleware)
	v1.POST("/payments/confirm", paymentHandler.Confirm, authMiddleware)
	v1.GET("/payments/:id", paymentHandler.Get, authMiddleware)
	v1.POST("/enrollments", enrollmentHandler.Enroll, authMiddleware)
	v1.GET("/enrollments", enrollmentHandler.ListMine, authMiddleware)

	// Webhook authenticates by signature, not session.
	v1.POST("/webhooks/payment", webhookHandler.Receive)

	// --- Admin ---
	v1.POST("/admin/migrate-users", adminHandler.MigrateUsers, authMiddleware, middleware.RBAC(domain.RoleAdmin))

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
