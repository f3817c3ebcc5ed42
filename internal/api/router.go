package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/utilitrack/usage-system/internal/api/handler"
	"github.com/utilitrack/usage-system/internal/api/middleware"
	"github.com/utilitrack/usage-system/internal/core/domain"
	"github.com/utilitrack/usage-system/internal/core/service"
	mongorepo "github.com/utilitrack/usage-system/internal/infrastructure/db/mongo"
	redisstore "github.com/utilitrack/usage-system/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("usage"))

	// --- Dependencies ---
	userRepo := mongorepo.NewUserRepository(db)
	usageRepo := mongorepo.NewUsageRepository(db)
	recRepo := mongorepo.NewRecommendationRepository(db)
	revoker := redisstore.NewTokenRevocationStore(rdb, tokenTTL)

	authService := service.NewAuthService(userRepo, jwtSecret, tokenTTL)
	usageService := service.NewUsageService(usageRepo, log)
	recService := service.NewRecommendationService(usageRepo, recRepo, log)
	reportService := service.NewReportService(userRepo, usageRepo, usageService, log)

	authHandler := handler.NewAuthHandler(authService, revoker)
	userHandler := handler.NewUserHandler(authService, usageService, recService)
	adminHandler := handler.NewAdminHandler(reportService)

	authMiddleware := middleware.Auth(jwtSecret, revoker)

	// --- Landing page ---
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"service": "utility usage tracker",
			"login":   "/auth/login",
		})
	})

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/user_signup", authHandler.UserSignup)
	e.POST("/auth/admin_signup", authHandler.AdminSignup)
	e.GET("/auth/logout", authHandler.Logout, authMiddleware)

	// --- User routes (user role only; admins are redirected away) ---
	users := e.Group("/users", authMiddleware, middleware.RoleGate(domain.RoleUser))
	users.GET("/dashboard", userHandler.Dashboard)
	users.GET("/data_entry", userHandler.DataEntryForm)
	users.POST("/data_entry", userHandler.DataEntry)
	users.GET("/history", userHandler.History)
	users.GET("/power_usage", userHandler.PowerUsage)
	users.GET("/recommendations", userHandler.Recommendations)
	users.GET("/settings", userHandler.Settings)
	users.POST("/settings", userHandler.UpdateSettings)

	// --- Admin routes ---
	admin := e.Group("/admin", authMiddleware, middleware.RoleGate(domain.RoleAdmin))
	admin.GET("/dashboard", adminHandler.Dashboard)
	admin.GET("/users", adminHandler.Users)
	admin.GET("/history/:user_id", adminHandler.UserHistory)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}
