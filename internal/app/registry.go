package app

import (
	"context"
	"net/http"
	"time"

	"go-ems/internal/attendance"
	"go-ems/internal/auth"
	"go-ems/internal/config"
	"go-ems/internal/dashboard"
	"go-ems/internal/department"
	"go-ems/internal/employee"
	"go-ems/internal/messaging/kafka"
	"go-ems/internal/middleware"
	"go-ems/internal/payroll"
	"go-ems/internal/payslip"
	"go-ems/internal/rbac"
	"go-ems/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// Dependencies are the infrastructure handles the router is built from.
// Redis and Outbox may be nil.
type Dependencies struct {
	DB       *gorm.DB
	Redis    *redis.Client
	Outbox   kafka.OutboxRepository
	Renderer payslip.Renderer
	HTTP     config.HTTPConfig
	JWT      config.JWTConfig
	Seed     config.SeedConfig
	Logger   *zap.Logger
}

func NewRouter(deps Dependencies) (*gin.Engine, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.L()
	}

	sqlDB, err := deps.DB.DB()
	if err != nil {
		return nil, err
	}

	policy, err := rbac.NewService(logger)
	if err != nil {
		return nil, err
	}

	renderer := deps.Renderer
	if renderer == nil {
		renderer = payslip.NewPDFRenderer("Rs. ")
	}

	// --- Repositories ---
	authRepo := auth.NewRepository(deps.DB)
	attendanceRepo := attendance.NewRepository(deps.DB)
	dashboardRepo := dashboard.NewRepository(deps.DB)
	departmentRepo := department.NewRepository(deps.DB)
	employeeRepo := employee.NewRepository(deps.DB)
	payrollRepo := payroll.NewRepository(deps.DB)

	// --- Services ---
	authService := auth.NewService(authRepo, auth.TokenConfig{
		Secret: []byte(deps.JWT.Secret),
		TTL:    deps.JWT.TTL,
	}, logger)
	identities := auth.NewIdentityService(authRepo, deps.Seed.DefaultPassword)
	attendanceService := attendance.NewService(sqlDB, attendanceRepo, logger)
	dashboardService := dashboard.NewService(dashboardRepo, logger)
	departmentService := department.NewService(sqlDB, departmentRepo, deps.Redis, logger)
	employeeService := employee.NewServiceWithOutbox(sqlDB, employeeRepo, identities, deps.Outbox, logger)
	payrollService := payroll.NewServiceWithOutbox(sqlDB, payrollRepo, renderer, deps.Outbox, logger)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	attendanceHandler := attendance.NewHandler(attendanceService)
	dashboardHandler := dashboard.NewHandler(dashboardService)
	departmentHandler := department.NewHandler(departmentService, logger)
	employeeHandler := employee.NewHandler(employeeService, logger)
	payrollHandler := payroll.NewHandler(payrollService, logger)
	rbacHandler := rbac.NewHandler(policy, logger)

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID())
	if deps.HTTP.RateLimit > 0 {
		router.Use(middleware.RateLimitByIP(rate.Limit(deps.HTTP.RateLimit), deps.HTTP.RateBurst))
	}

	router.GET("/healthz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := sqlDB.PingContext(ctx); err != nil {
			response.Error(c, http.StatusServiceUnavailable, "UNAVAILABLE", "Database unreachable", nil)
			return
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok"}, nil)
	})

	authenticate := middleware.AuthMiddleware([]byte(deps.JWT.Secret))

	// --- Routes Registration ---
	public := router.Group("/api/v1")
	auth.RegisterRoutes(public, authHandler, policy, authenticate)

	api := public.Group("", authenticate, middleware.ContextLogger(logger))
	{
		attendance.RegisterRoutes(api, attendanceHandler, policy, deps.Redis)
		dashboard.RegisterRoutes(api, dashboardHandler, policy)
		department.RegisterRoutes(api, departmentHandler, policy)
		employee.RegisterRoutes(api, employeeHandler, policy)
		payroll.RegisterRoutes(api, payrollHandler, policy, deps.Redis)
		rbac.RegisterRoutes(api, rbacHandler)
	}

	return router, nil
}
