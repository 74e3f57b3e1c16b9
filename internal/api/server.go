package api

import (
	"fmt"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/vietanh2810/volunteer-api/docs"
	v1 "github.com/vietanh2810/volunteer-api/internal/api/handler/v1"
	"github.com/vietanh2810/volunteer-api/internal/api/handler/v1/roster"
	"github.com/vietanh2810/volunteer-api/internal/api/middleware"
	"github.com/vietanh2810/volunteer-api/internal/authz"
	"github.com/vietanh2810/volunteer-api/internal/config"
	"github.com/vietanh2810/volunteer-api/internal/repository"
	"github.com/vietanh2810/volunteer-api/internal/repository/dao"
	"github.com/vietanh2810/volunteer-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
	Hub    *roster.Hub
}

type handlers struct {
	auth       *v1.AuthHandler
	user       *v1.UserHandler
	event      *v1.EventHandler
	signup     *v1.SignupHandler
	comment    *v1.CommentHandler
	attendance *v1.AttendanceHandler
}

func NewServer(conf *config.AppConfig, db *gorm.DB) (*Server, error) {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
		Hub:    roster.NewHub(conf.API.AllowedCORSDomains),
	}

	s.MountMiddlewares()

	if err := s.MountHandlers(s.initHandlers(db)); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Server) initHandlers(db *gorm.DB) handlers {
	authorizer := authz.NewAuthorizer(authz.Policy{
		OwnerCanViewRoster: s.Config.API.OwnerCanViewRoster,
	})

	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	signupRepo := repository.NewSignupRepository(dao.NewSignupDAO(db))
	commentRepo := repository.NewCommentRepository(dao.NewCommentDAO(db))
	attendanceRepo := repository.NewAttendanceRepository(dao.NewAttendanceDAO(db))

	return handlers{
		auth:       v1.NewAuthHandler(s.Config.API, service.NewAuthService(userRepo)),
		user:       v1.NewUserHandler(service.NewUserService(userRepo)),
		event:      v1.NewEventHandler(service.NewEventService(eventRepo, signupRepo, authorizer)),
		signup:     v1.NewSignupHandler(service.NewSignupService(signupRepo, eventRepo, authorizer, s.Hub), s.Hub),
		comment:    v1.NewCommentHandler(service.NewCommentService(commentRepo, eventRepo, authorizer)),
		attendance: v1.NewAttendanceHandler(service.NewAttendanceService(attendanceRepo, eventRepo, signupRepo, authorizer)),
	}
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(h handlers) error {
	const basePath = "/api/v1"

	authLimiter, err := middleware.NewRateLimiter(s.Config.RateLimit.AuthRate)
	if err != nil {
		return fmt.Errorf("auth rate limiter -> %w", err)
	}

	authenticator := middleware.NewAuthenticator(s.Config.API.JWTSigningKey)

	auth := s.Router.Group(basePath, middleware.RateLimit(authLimiter))
	{
		auth.POST("/auth/register", h.auth.HandleRegister)
		auth.POST("/auth/login", h.auth.HandleLogin)
	}

	public := s.Router.Group(basePath, authenticator.Identify())
	{
		public.GET("/events", h.event.HandleListEvents)
		public.GET("/events/:eventID", h.event.HandleGetEvent)
		public.GET("/events/:eventID/comments", h.comment.HandleListComments)
	}

	private := s.Router.Group(basePath, authenticator.Identify(), authenticator.RequireLogin())
	{
		private.GET("/users/me", h.user.HandleGetMe)

		private.GET("/events/all", h.event.HandleListAllEvents)
		private.POST("/events", h.event.HandleCreateEvent)
		private.PUT("/events/:eventID", h.event.HandleUpdateEvent)
		private.PUT("/events/:eventID/approve", h.event.HandleApproveEvent)
		private.PUT("/events/:eventID/decline", h.event.HandleDeclineEvent)
		private.DELETE("/events/:eventID", h.event.HandleDeleteEvent)

		private.POST("/events/:eventID/signup", h.signup.HandleSignup)
		private.DELETE("/events/:eventID/withdraw", h.signup.HandleWithdraw)
		private.GET("/events/:eventID/signups", h.signup.HandleListSignups)
		private.GET("/events/:eventID/signups/stream", h.signup.HandleRosterStream)

		private.POST("/events/:eventID/comments", h.comment.HandlePostComment)
		private.DELETE("/comments/:commentID", h.comment.HandleDeleteComment)

		private.GET("/events/:eventID/attendance", h.attendance.HandleListAttendance)
		private.POST("/events/:eventID/attendance", h.attendance.HandleMarkAttendance)
	}

	s.Router.GET("/", v1.HandleHealthcheck)
	s.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Volunteer Events API"
	docs.SwaggerInfo.Description = "Event submission, moderation and capacity-safe volunteer signups."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	return nil
}
