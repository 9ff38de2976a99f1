package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/genkan-institute/genkan-api/api/swagger"
	"github.com/genkan-institute/genkan-api/internal/handler"
	"github.com/genkan-institute/genkan-api/internal/middleware"
	"github.com/genkan-institute/genkan-api/internal/repository"
	"github.com/genkan-institute/genkan-api/internal/service"
	"github.com/genkan-institute/genkan-api/pkg/cache"
	"github.com/genkan-institute/genkan-api/pkg/config"
	"github.com/genkan-institute/genkan-api/pkg/database"
	"github.com/genkan-institute/genkan-api/pkg/logger"
	"github.com/genkan-institute/genkan-api/pkg/mailer"
	corsmiddleware "github.com/genkan-institute/genkan-api/pkg/middleware/cors"
	reqidmiddleware "github.com/genkan-institute/genkan-api/pkg/middleware/requestid"
	"github.com/genkan-institute/genkan-api/pkg/storage"
)

// @title Genkan Institute API
// @version 1.0.0
// @description Class catalog, seat registration and reporting
// @BasePath /
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	// Redis is optional: without it the recap is recomputed per request.
	var cacheRepo *repository.CacheRepository
	if cfg.Reports.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, recap cache disabled", zap.Error(err))
		} else {
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
			defer cacheRepo.Close()
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Reports.CacheTTL, logr, cacheRepo != nil)

	imageStore, err := storage.NewImageStore(cfg.Uploads.Dir)
	if err != nil {
		logr.Fatal("failed to init image store", zap.Error(err))
	}

	validate := validator.New()

	batchRepo := repository.NewBatchRepository(db)
	registrationRepo := repository.NewRegistrationRepository(db)
	reportRepo := repository.NewReportRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	contactRepo := repository.NewContactRepository(db)

	smtpMailer := mailer.NewSMTP(cfg.Mail)

	reportSvc := service.NewReportService(reportRepo, cacheSvc, logr)
	catalogSvc := service.NewCatalogService(batchRepo, imageStore, reportSvc, validate, logr)
	registrationSvc := service.NewRegistrationService(registrationRepo, reportSvc, validate, logr)
	authSvc := service.NewAuthService(adminRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	contactSvc := service.NewContactService(contactRepo, smtpMailer, cfg.Mail.To, validate, logr)

	catalogHandler := handler.NewCatalogHandler(catalogSvc)
	registrationHandler := handler.NewRegistrationHandler(registrationSvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	authHandler := handler.NewAuthHandler(authSvc)
	contactHandler := handler.NewContactHandler(contactSvc)
	imageHandler := handler.NewImageHandler(imageStore, cfg.Uploads.MaxFileSizeBytes)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.Timeout(cfg.Database.QueryTimeout))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", metricsHandler.Expose)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/auth/login", authHandler.Login)

		api.GET("/batches", catalogHandler.ListPublic)
		api.GET("/batches/:id", catalogHandler.Get)
		api.POST("/registrations", registrationHandler.Register)
		api.POST("/contact", contactHandler.Submit)
		api.GET("/images/:id", imageHandler.Get)

		admin := api.Group("/admin", middleware.JWT(authSvc))
		{
			admin.GET("/batches", catalogHandler.List)
			admin.POST("/batches", catalogHandler.Create)
			admin.PUT("/batches/:id", catalogHandler.Update)
			admin.DELETE("/batches/:id", catalogHandler.Delete)
			admin.POST("/batches/:id/complete", registrationHandler.CompleteBatch)

			admin.GET("/registrations", registrationHandler.List)
			admin.GET("/registrations/:id", registrationHandler.Get)

			admin.GET("/reports/recap", reportHandler.Summaries)
			admin.GET("/reports/export/csv", reportHandler.ExportCSV)
			admin.GET("/reports/export/pdf", reportHandler.ExportPDF)

			admin.GET("/contact", contactHandler.List)
			admin.POST("/images", imageHandler.Upload)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
