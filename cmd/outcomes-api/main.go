package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sma-outcomes-api/api/swagger"
	"github.com/noah-isme/sma-outcomes-api/internal/handler"
	internalmiddleware "github.com/noah-isme/sma-outcomes-api/internal/middleware"
	"github.com/noah-isme/sma-outcomes-api/internal/models"
	"github.com/noah-isme/sma-outcomes-api/internal/repository"
	"github.com/noah-isme/sma-outcomes-api/internal/service"
	"github.com/noah-isme/sma-outcomes-api/pkg/cache"
	"github.com/noah-isme/sma-outcomes-api/pkg/config"
	"github.com/noah-isme/sma-outcomes-api/pkg/database"
	"github.com/noah-isme/sma-outcomes-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-outcomes-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-outcomes-api/pkg/middleware/requestid"
)

// @title Academic Outcomes API
// @version 1.0.0
// @description Registered, failed and dropped-out student counts for administrators and teachers
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Fatal("failed to connect redis", zap.Error(err))
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, cfg.Dashboard.CacheEnabled && redisClient != nil)

	enrollmentRepo := repository.NewEnrollmentRepository(db)
	engine := service.NewOutcomeEngine(service.OutcomeEngineParams{
		Groups:      repository.NewGroupRepository(db),
		Enrollments: enrollmentRepo,
		Evaluations: repository.NewEvaluationRepository(db),
		UnitCounts:  repository.NewSubjectRepository(db),
		Students:    repository.NewStudentRepository(db),
		AuditLogs:   repository.NewAuditRepository(db),
		Dropouts:    repository.NewDropoutRepository(db),
		Metrics:     metricsSvc,
		Logger:      logr,
		Config: service.OutcomeEngineConfig{
			PassingScore:     cfg.Dashboard.PassingScore,
			DefaultUnitCount: cfg.Dashboard.DefaultUnitCount,
			ReasonScanLimit:  cfg.Dashboard.ReasonScanLimit,
		},
	})

	dashboardSvc := service.NewDashboardService(service.DashboardServiceParams{
		Engine:    engine,
		Cache:     cacheSvc,
		Validator: validator.New(),
		Logger:    logr,
		Config: service.DashboardServiceConfig{
			CacheTTL:           cfg.Dashboard.CacheTTL,
			StrictTeacherScope: cfg.Dashboard.StrictTeacherScope,
		},
	})
	exportSvc := service.NewExportService(dashboardSvc, logr)
	identities := service.NewIdentityCache(repository.NewInstructorRepository(db), cfg.Dashboard.IdentityTTL, time.Now)
	go purgeIdentities(ctx, identities, cfg.Dashboard.IdentityTTL)

	tokenSvc := service.NewTokenService(service.TokenConfig{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer})

	dashboardHandler := handler.NewDashboardHandler(dashboardSvc, exportSvc, identities)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, db)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(internalmiddleware.WithResponseMeta())
	api.Use(internalmiddleware.JWT(tokenSvc))
	api.Use(internalmiddleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin, models.RoleTeacher))
	api.GET("/dashboard", dashboardHandler.Summary)
	api.GET("/dashboard/export", dashboardHandler.Export)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}

func purgeIdentities(ctx context.Context, identities *service.IdentityCache, every time.Duration) {
	if every <= 0 {
		every = time.Minute
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			identities.Purge()
		}
	}
}
