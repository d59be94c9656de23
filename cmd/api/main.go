package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	_ "github.com/web-academy/academy-api/api/swagger"
	"github.com/web-academy/academy-api/internal/handler"
	"github.com/web-academy/academy-api/internal/middleware"
	"github.com/web-academy/academy-api/internal/repository"
	"github.com/web-academy/academy-api/internal/router"
	"github.com/web-academy/academy-api/internal/service"
	"github.com/web-academy/academy-api/pkg/cache"
	"github.com/web-academy/academy-api/pkg/config"
	"github.com/web-academy/academy-api/pkg/database"
	"github.com/web-academy/academy-api/pkg/logger"
	"github.com/web-academy/academy-api/pkg/mailer"
	"github.com/web-academy/academy-api/pkg/storage"
)

// @title Web Academy API
// @version 1.0.0
// @description Multi-tenant backend for the Web Academy platform
// @BasePath /api
// @schemes http https
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, rate limiting disabled", "error", err)
	}

	store, err := storage.NewLocalStorage(cfg.Uploads.Dir)
	if err != nil {
		logr.Sugar().Fatalw("upload storage init failed", "error", err)
	}

	var outbound mailer.Mailer
	if sg := mailer.NewSendgrid(cfg.Mail); sg != nil {
		outbound = sg
	}

	validate := validator.New()
	metrics := service.NewMetricsService()

	notifications := service.NewNotificationService(outbound, cfg.AppURL, logr)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	notifications.Start(ctx)
	defer notifications.Stop()

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	filiereRepo := repository.NewFiliereRepository(db)
	newsRepo := repository.NewNewsRepository(db)
	guideRepo := repository.NewGuideRepository(db)
	outilRepo := repository.NewOutilRepository(db)
	timetableRepo := repository.NewTimetableRepository(db)
	evaluationRepo := repository.NewEvaluationCalendarRepository(db)
	discussionRepo := repository.NewDiscussionRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	authService := service.NewAuthService(userRepo, notifications, validate, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
	})
	userService := service.NewUserService(userRepo, notifications, validate, logr)
	courseService := service.NewCourseService(courseRepo, assignmentRepo, store, validate, logr)
	categoryService := service.NewCategoryService(categoryRepo, validate, logr)
	filiereService := service.NewFiliereService(filiereRepo, validate, logr)
	newsService := service.NewNewsService(newsRepo, validate, logr)
	guideService := service.NewGuideService(guideRepo, validate, logr)
	outilService := service.NewOutilService(outilRepo, validate, logr)
	timetableService := service.NewTimetableService(timetableRepo, validate, logr)
	evaluationService := service.NewEvaluationService(evaluationRepo, validate, logr)
	discussionService := service.NewDiscussionService(discussionRepo, validate, logr)
	assignmentService := service.NewAssignmentService(assignmentRepo, userRepo, validate, logr)
	settingsService := service.NewSettingsService(settingsRepo, validate, logr)
	dashboardService := service.NewDashboardService(statsRepo, logr)
	exportService := service.NewExportService(userService, logr)

	var limiter *middleware.RateLimiter
	if redisClient != nil {
		limiter = middleware.NewRateLimiter(redisClient, cfg.RateLimit, metrics, logr)
	}

	engine := router.New(router.Deps{
		Config:      cfg,
		Logger:      logr,
		AuthService: authService,
		Metrics:     metrics,
		RateLimiter: limiter,
		Storage:     store,

		Auth:        handler.NewAuthHandler(authService, assignmentService),
		Users:       handler.NewUserHandler(userService, exportService),
		Courses:     handler.NewCourseHandler(courseService),
		Uploads:     handler.NewUploadHandler(courseService, settingsService, metrics, store),
		Categories:  handler.NewCategoryHandler(categoryService),
		Filieres:    handler.NewFiliereHandler(filiereService),
		News:        handler.NewNewsHandler(newsService),
		Guides:      handler.NewGuideHandler(guideService),
		Outils:      handler.NewOutilHandler(outilService),
		Timetables:  handler.NewTimetableHandler(timetableService),
		Evaluations: handler.NewEvaluationHandler(evaluationService),
		Discussions: handler.NewDiscussionHandler(discussionService),
		Assignments: handler.NewAssignmentHandler(assignmentService),
		Settings:    handler.NewSettingsHandler(settingsService),
		Dashboard:   handler.NewDashboardHandler(dashboardService),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Sugar().Infow("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("forced shutdown", "error", err)
	}
}
