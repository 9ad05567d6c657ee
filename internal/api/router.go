package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bankabc/backoffice-api/internal/api/handler"
	"github.com/bankabc/backoffice-api/internal/api/middleware"
	"github.com/bankabc/backoffice-api/internal/core/domain"
	"github.com/bankabc/backoffice-api/internal/core/ports"
	"github.com/bankabc/backoffice-api/internal/core/service"
	"github.com/bankabc/backoffice-api/internal/infrastructure/config"
	mongodb "github.com/bankabc/backoffice-api/internal/infrastructure/db/mongo"
	redisdb "github.com/bankabc/backoffice-api/internal/infrastructure/db/redis"
	"github.com/bankabc/backoffice-api/internal/infrastructure/http/handlers"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, codec ports.TokenCodec, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("backoffice"))

	// --- Dependencies ---
	credRepo := mongodb.NewCredentialRepository(db)
	roleRepo := mongodb.NewRoleRepository(db)
	roleResolver := redisdb.NewRoleCache(rdb, roleRepo, cfg.Auth.RoleCacheTTL, log)
	employeeRepo := mongodb.NewEmployeeRepository(db)
	customerRepo := mongodb.NewCustomerRepository(db)

	authService := service.NewAuthService(credRepo, roleResolver, employeeRepo, codec, log,
		service.WithTokenTTL(cfg.Auth.TokenTTL),
		service.WithLookupTimeout(cfg.Auth.LookupTimeout),
		service.WithLookupRetries(cfg.Auth.LookupRetries),
	)
	directoryService := service.NewDirectoryService(employeeRepo, customerRepo, log)

	authHandler := handler.NewAuthHandler(authService)
	employeeHandler := handler.NewEmployeeHandler(directoryService)
	customerHandler := handler.NewCustomerHandler(directoryService)
	authMiddleware := middleware.Auth(codec)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Protected back-office routes ---
	v1 := e.Group("/v1", authMiddleware)
	v1.GET("/employees/me", employeeHandler.Me, middleware.RBAC(domain.RoleEmployee, domain.RoleAdmin))
	v1.GET("/employees", employeeHandler.List, middleware.RBAC(domain.RoleAdmin))
	v1.GET("/customers/:id", customerHandler.Get, middleware.RBAC(domain.RoleEmployee, domain.RoleAdmin))
	v1.PUT("/customers/:id", customerHandler.Update, middleware.RBAC(domain.RoleEmployee, domain.RoleAdmin))

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	return e
}
