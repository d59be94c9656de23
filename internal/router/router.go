package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/web-academy/academy-api/internal/handler"
	"github.com/web-academy/academy-api/internal/middleware"
	"github.com/web-academy/academy-api/internal/service"
	"github.com/web-academy/academy-api/pkg/config"
	"github.com/web-academy/academy-api/pkg/logger"
	corsmiddleware "github.com/web-academy/academy-api/pkg/middleware/cors"
	reqidmiddleware "github.com/web-academy/academy-api/pkg/middleware/requestid"
	"github.com/web-academy/academy-api/pkg/storage"
)

// Deps bundles everything the HTTP layer needs.
type Deps struct {
	Config      *config.Config
	Logger      *zap.Logger
	AuthService *service.AuthService
	Metrics     *service.MetricsService
	RateLimiter *middleware.RateLimiter
	Storage     *storage.LocalStorage

	Auth        *handler.AuthHandler
	Users       *handler.UserHandler
	Courses     *handler.CourseHandler
	Uploads     *handler.UploadHandler
	Categories  *handler.CategoryHandler
	Filieres    *handler.FiliereHandler
	News        *handler.NewsHandler
	Guides      *handler.GuideHandler
	Outils      *handler.OutilHandler
	Timetables  *handler.TimetableHandler
	Evaluations *handler.EvaluationHandler
	Discussions *handler.DiscussionHandler
	Assignments *handler.AssignmentHandler
	Settings    *handler.SettingsHandler
	Dashboard   *handler.DashboardHandler
}

// New builds the gin engine with every route mounted.
func New(d Deps) *gin.Engine {
	if d.Config.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(d.Logger))
	r.Use(corsmiddleware.New(d.Config.CORS.AllowedOrigins))
	if d.Metrics != nil {
		r.Use(middleware.Metrics(d.Metrics))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}
	if d.Config.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	if d.Storage != nil {
		r.Static("/uploads", d.Storage.Dir())
	}

	api := r.Group(d.Config.APIPrefix)
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authed := middleware.Authenticate(d.AuthService)
	optional := middleware.OptionalAuth(d.AuthService)
	admin := middleware.RequireAdmin()
	staff := middleware.RequireAdminOrInstructor()

	auth := api.Group("/auth")
	{
		limited := auth.Group("")
		if d.RateLimiter != nil {
			limited.Use(d.RateLimiter.Limit())
		}
		limited.POST("/register", d.Auth.Register)
		limited.POST("/login", d.Auth.Login)
		limited.POST("/forgot-password", d.Auth.ForgotPassword)
		limited.POST("/reset-password", d.Auth.ResetPassword)

		auth.GET("/user", authed, d.Auth.Me)
		auth.PUT("/profile", authed, d.Auth.UpdateProfile)
		auth.GET("/assignments", authed, d.Auth.MyAssignments)
	}

	api.GET("/courses", optional, d.Courses.List)
	api.GET("/courses/mine", authed, staff, d.Courses.Mine)
	api.GET("/courses/:id", optional, d.Courses.Get)
	api.POST("/courses", authed, staff, d.Courses.Create)
	api.PUT("/courses/:id", authed, staff, d.Courses.Update)
	api.DELETE("/courses/:id", authed, staff, d.Courses.Delete)
	api.POST("/courses/:id/resources", authed, staff, d.Uploads.UploadResource)
	api.DELETE("/courses/:id/resources/:resourceId", authed, staff, d.Courses.DeleteResource)

	api.GET("/news", optional, d.News.List)
	api.GET("/news/:id", optional, d.News.Get)
	api.POST("/news", authed, admin, d.News.Create)
	api.PUT("/news/:id", authed, admin, d.News.Update)
	api.DELETE("/news/:id", authed, admin, d.News.Delete)

	api.GET("/guides", optional, d.Guides.List)
	api.GET("/guides/:id", optional, d.Guides.Get)
	api.POST("/guides", authed, admin, d.Guides.Create)
	api.PUT("/guides/:id", authed, admin, d.Guides.Update)
	api.DELETE("/guides/:id", authed, admin, d.Guides.Delete)

	api.GET("/outils", optional, d.Outils.List)
	api.GET("/outils/:id", optional, d.Outils.Get)
	api.POST("/outils", authed, admin, d.Outils.Create)
	api.PUT("/outils/:id", authed, admin, d.Outils.Update)
	api.DELETE("/outils/:id", authed, admin, d.Outils.Delete)

	api.GET("/timetables", optional, d.Timetables.List)
	api.GET("/timetables/:id", optional, d.Timetables.Get)
	api.POST("/timetables", authed, admin, d.Timetables.Create)
	api.PUT("/timetables/:id", authed, admin, d.Timetables.Update)
	api.DELETE("/timetables/:id", authed, admin, d.Timetables.Delete)

	api.GET("/evaluation-calendars", optional, d.Evaluations.List)
	api.GET("/evaluation-calendars/:id", optional, d.Evaluations.Get)
	api.POST("/evaluation-calendars", authed, admin, d.Evaluations.Create)
	api.PUT("/evaluation-calendars/:id", authed, admin, d.Evaluations.Update)
	api.DELETE("/evaluation-calendars/:id", authed, admin, d.Evaluations.Delete)

	api.GET("/filieres", d.Filieres.ListPublic)
	api.GET("/settings", d.Settings.GetPublic)

	discussions := api.Group("/discussions")
	{
		discussions.GET("", optional, d.Discussions.List)
		discussions.GET("/:id", optional, d.Discussions.Get)
		discussions.POST("", authed, d.Discussions.Create)
		discussions.PUT("/:id", authed, d.Discussions.Update)
		discussions.DELETE("/:id", authed, d.Discussions.Delete)
		discussions.POST("/:id/replies", authed, d.Discussions.Reply)
		discussions.DELETE("/:id/replies/:replyId", authed, d.Discussions.DeleteReply)
	}

	adminGroup := api.Group("/admin", authed, admin)
	{
		adminGroup.GET("/stats", d.Dashboard.Stats)
		adminGroup.GET("/courses", d.Courses.List)

		adminGroup.GET("/users", d.Users.List)
		adminGroup.GET("/users/export", d.Users.Export)
		adminGroup.GET("/users/:id", d.Users.Get)
		adminGroup.POST("/users", d.Users.Create)
		adminGroup.PUT("/users/:id", d.Users.Update)
		adminGroup.PUT("/users/:id/verify-identity", d.Users.VerifyIdentity)
		adminGroup.DELETE("/users/:id", d.Users.Delete)

		adminGroup.GET("/categories", d.Categories.List)
		adminGroup.GET("/categories/:id", d.Categories.Get)
		adminGroup.POST("/categories", d.Categories.Create)
		adminGroup.PUT("/categories/:id", d.Categories.Update)
		adminGroup.DELETE("/categories/:id", d.Categories.Delete)

		adminGroup.GET("/filieres", d.Filieres.List)
		adminGroup.GET("/filieres/:id", d.Filieres.Get)
		adminGroup.POST("/filieres", d.Filieres.Create)
		adminGroup.PUT("/filieres/:id", d.Filieres.Update)
		adminGroup.DELETE("/filieres/:id", d.Filieres.Delete)

		adminGroup.GET("/assignments", d.Assignments.List)
		adminGroup.GET("/assignments/:id", d.Assignments.Get)
		adminGroup.POST("/assignments", d.Assignments.Create)
		adminGroup.PUT("/assignments/:id", d.Assignments.Update)
		adminGroup.DELETE("/assignments/:id", d.Assignments.Delete)

		adminGroup.GET("/settings", d.Settings.Get)
		adminGroup.PUT("/settings", d.Settings.Update)
	}

	return r
}
