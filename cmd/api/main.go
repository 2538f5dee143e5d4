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

	_ "github.com/RInot-Aikcraft/cours/api/swagger"
	"github.com/RInot-Aikcraft/cours/internal/handler"
	"github.com/RInot-Aikcraft/cours/internal/middleware"
	"github.com/RInot-Aikcraft/cours/internal/repository"
	"github.com/RInot-Aikcraft/cours/internal/service"
	"github.com/RInot-Aikcraft/cours/pkg/cache"
	"github.com/RInot-Aikcraft/cours/pkg/config"
	"github.com/RInot-Aikcraft/cours/pkg/database"
	"github.com/RInot-Aikcraft/cours/pkg/jobs"
	"github.com/RInot-Aikcraft/cours/pkg/logger"
	corsmiddleware "github.com/RInot-Aikcraft/cours/pkg/middleware/cors"
	reqidmiddleware "github.com/RInot-Aikcraft/cours/pkg/middleware/requestid"
	"github.com/RInot-Aikcraft/cours/pkg/storage"
)

// @title Cours API
// @version 1.0.0
// @description School administration REST API: sessions, levels, groups, students, users and enrollments.
// @BasePath /
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	uploads, err := storage.NewUploadStore(cfg.Uploads.Dir, cfg.Uploads.PublicPath)
	if err != nil {
		logr.Fatal("failed to prepare uploads directory", zap.Error(err))
	}

	metricsSvc := service.NewMetricsService()

	// Redis is optional; stats simply go uncached when it is down.
	var cacheRepo *repository.CacheRepository
	if cfg.Stats.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, stats caching disabled", zap.Error(err))
		} else {
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
			defer cacheRepo.Close() //nolint:errcheck
		}
	}
	var cacheSvc *service.CacheService
	if cacheRepo != nil {
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Stats.CacheTTL, logr, true)
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	levelRepo := repository.NewLevelRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:      cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
	})
	accountSvc := service.NewAccountService(userRepo, jobs.NewSuperseder(logr), logr)
	sessionSvc := service.NewSessionService(sessionRepo, validate, logr)
	levelSvc := service.NewLevelService(levelRepo, sessionRepo, validate, logr)
	groupSvc := service.NewGroupService(groupRepo, levelRepo, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, userRepo, uploads, cacheSvc, validate, logr)
	userSvc := service.NewUserService(userRepo, cacheSvc, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, groupRepo, studentRepo, validate, logr)
	exportSvc := service.NewExportService(enrollmentRepo, logr)
	statsSvc := service.NewStatsService(userRepo, cacheSvc, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	accountHandler := handler.NewAccountHandler(accountSvc)
	sessionHandler := handler.NewSessionHandler(sessionSvc)
	levelHandler := handler.NewLevelHandler(levelSvc)
	groupHandler := handler.NewGroupHandler(groupSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	userHandler := handler.NewUserHandler(userSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc, exportSvc)
	statsHandler := handler.NewStatsHandler(statsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))
	r.Static(uploads.PublicPath(), uploads.Dir())

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.POST("/login", authHandler.Login)
	r.POST("/check-username", accountHandler.CheckUsername)
	r.POST("/check-email", accountHandler.CheckEmail)
	r.POST("/suggest-usernames", accountHandler.SuggestUsernames)

	authed := r.Group("/", middleware.JWT(authSvc))
	{
		authed.GET("/me", authHandler.Me)

		authed.GET("/sessions", sessionHandler.List)
		authed.POST("/sessions", sessionHandler.Create)
		authed.GET("/sessions/:id", sessionHandler.Get)
		authed.PUT("/sessions/:id", sessionHandler.Update)
		authed.DELETE("/sessions/:id", sessionHandler.Delete)

		authed.GET("/niveaux", levelHandler.List)
		authed.POST("/niveaux", levelHandler.Create)
		authed.GET("/niveaux/:id", levelHandler.Get)
		authed.PUT("/niveaux/:id", levelHandler.Update)
		authed.DELETE("/niveaux/:id", levelHandler.Delete)

		authed.GET("/groupes", groupHandler.List)
		authed.POST("/groupes", groupHandler.Create)
		authed.GET("/groupes/:id", groupHandler.Get)
		authed.PUT("/groupes/:id", groupHandler.Update)
		authed.DELETE("/groupes/:id", groupHandler.Delete)

		authed.GET("/students", studentHandler.List)
		authed.POST("/students", studentHandler.Create)
		authed.GET("/students/:id", studentHandler.Get)
		authed.PUT("/students/:id", studentHandler.Update)
		authed.DELETE("/students/:id", studentHandler.Delete)

		authed.GET("/inscriptions", enrollmentHandler.List)
		authed.POST("/inscriptions", enrollmentHandler.Create)
		authed.GET("/inscriptions/export", enrollmentHandler.Export)
		authed.GET("/inscriptions/:id", enrollmentHandler.Get)
		authed.PUT("/inscriptions/:id", enrollmentHandler.Update)
		authed.DELETE("/inscriptions/:id", enrollmentHandler.Delete)

		authed.GET("/users", userHandler.List)
		authed.POST("/users", userHandler.Create)
		authed.GET("/users/:id", userHandler.Get)
		authed.PUT("/users/:id", userHandler.Update)
		authed.DELETE("/users/:id", userHandler.Delete)

		authed.GET("/stats", statsHandler.Overview)
		authed.GET("/recent-users", statsHandler.RecentUsers)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
