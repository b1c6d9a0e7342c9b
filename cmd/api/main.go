package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/nordwerk/shiftplan-api/api/swagger"
	"github.com/nordwerk/shiftplan-api/internal/handler"
	"github.com/nordwerk/shiftplan-api/internal/middleware"
	"github.com/nordwerk/shiftplan-api/internal/repository"
	"github.com/nordwerk/shiftplan-api/internal/service"
	"github.com/nordwerk/shiftplan-api/pkg/cache"
	"github.com/nordwerk/shiftplan-api/pkg/config"
	"github.com/nordwerk/shiftplan-api/pkg/database"
	"github.com/nordwerk/shiftplan-api/pkg/export"
	"github.com/nordwerk/shiftplan-api/pkg/logger"
	corsmiddleware "github.com/nordwerk/shiftplan-api/pkg/middleware/cors"
	reqidmiddleware "github.com/nordwerk/shiftplan-api/pkg/middleware/requestid"
)

// @title Shiftplan API
// @version 1.0.0
// @description Shift planning and rotation backend
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// Rotation week caching degrades to direct reads without Redis.
		logr.Sugar().Warnw("redis unavailable, continuing without cache", "error", err)
		redisClient = nil
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	userRepo := repository.NewUserRepository(db)
	orgRepo := repository.NewOrgRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	planRepo := repository.NewShiftPlanRepository(db)
	rotationRepo := repository.NewRotationRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     "shiftplan-api",
	})
	orgSvc := service.NewOrgService(orgRepo, logr)
	employeeSvc := service.NewEmployeeService(employeeRepo, validate, logr)
	rotationSvc := service.NewRotationService(rotationRepo, orgRepo, redisClient, metricsSvc, cfg.Rotation, validate, logr)
	planSvc := service.NewPlanService(planRepo, employeeRepo, orgSvc, rotationSvc, cfg.Rotation, validate, logr)

	handlers := &handler.Set{
		Auth:      handler.NewAuthHandler(authSvc),
		Org:       handler.NewOrgHandler(orgSvc),
		Employees: handler.NewEmployeeHandler(employeeSvc),
		Plans:     handler.NewPlanHandler(planSvc, metricsSvc),
		Rotations: handler.NewRotationHandler(rotationSvc, metricsSvc),
		Metrics: handler.NewMetricsHandler(metricsSvc, func(ctx context.Context) error {
			return db.PingContext(ctx)
		}),
	}
	if cfg.Exports.Enabled {
		exportSvc := service.NewExportService(planRepo, employeeRepo, logr, export.NewCSVExporter(), export.NewPDFExporter())
		handlers.Exports = handler.NewExportHandler(exportSvc)
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	handlers.Register(r, cfg.APIPrefix, authSvc)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
