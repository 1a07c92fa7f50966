package server

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"time"

	"anoa.com/newsaddiction/internal/config"
	"anoa.com/newsaddiction/internal/entity"
	"anoa.com/newsaddiction/internal/jobs"
	"anoa.com/newsaddiction/internal/middleware"
	"anoa.com/newsaddiction/pkg/mailer"
	"anoa.com/newsaddiction/pkg/ratelimiter"
	"anoa.com/newsaddiction/pkg/social"
	"anoa.com/newsaddiction/pkg/storage"

	articleHttp "anoa.com/newsaddiction/internal/modules/article/delivery/http"
	articleRepo "anoa.com/newsaddiction/internal/modules/article/repository"
	articleService "anoa.com/newsaddiction/internal/modules/article/service"

	notifHttp "anoa.com/newsaddiction/internal/modules/notification/delivery/http"
	notifRepo "anoa.com/newsaddiction/internal/modules/notification/repository"
	notifService "anoa.com/newsaddiction/internal/modules/notification/service"

	publisherHttp "anoa.com/newsaddiction/internal/modules/publisher/delivery/http"
	publisherRepo "anoa.com/newsaddiction/internal/modules/publisher/repository"
	publisherService "anoa.com/newsaddiction/internal/modules/publisher/service"

	searchService "anoa.com/newsaddiction/internal/modules/search/service"

	subscriptionHttp "anoa.com/newsaddiction/internal/modules/subscription/delivery/http"
	subscriptionRepo "anoa.com/newsaddiction/internal/modules/subscription/repository"
	subscriptionService "anoa.com/newsaddiction/internal/modules/subscription/service"

	userHttp "anoa.com/newsaddiction/internal/modules/user/delivery/http"
	userRepo "anoa.com/newsaddiction/internal/modules/user/repository"
	userService "anoa.com/newsaddiction/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dependencies are the external systems the server talks to. Redis, Search and
// Storage may be nil; the features behind them are then switched off.
type Dependencies struct {
	DB      *gorm.DB
	Redis   *redis.Client
	Search  searchService.MeiliSearchService
	Storage storage.ImageStorage
	Mailer  mailer.Mailer
	Poster  social.Poster
	Log     *zap.Logger
}

type Server struct {
	engine    *gin.Engine
	http      *http.Server
	scheduler *jobs.Scheduler
	log       *zap.Logger
}

func NewServer(cfg *config.Config, deps Dependencies) (*Server, error) {
	log := deps.Log
	limiter := ratelimiter.New(deps.Redis)

	users := userRepo.NewUserRepository(deps.DB)
	resetTokens := userRepo.NewResetTokenRepository(deps.DB)
	publishers := publisherRepo.NewPublisherRepository(deps.DB)
	subscriptions := subscriptionRepo.NewSubscriptionRepository(deps.DB)
	notifications := notifRepo.NewNotificationRepository(deps.DB)
	articles := articleRepo.NewArticleRepository(deps.DB)

	authSvc := userService.NewAuthService(users, deps.Storage, deps.Search, limiter, userService.AuthOptions{
		Secret:         cfg.JWTSecret,
		TokenTTL:       cfg.JWTTTL(),
		LoginRateLimit: cfg.RateLimitLogin,
	}, log)
	resetSvc := userService.NewPasswordResetService(users, resetTokens, deps.Mailer, limiter, userService.ResetOptions{
		TTL:       cfg.ResetTokenTTL,
		SiteURL:   cfg.SiteURL,
		MailFrom:  cfg.MailFrom,
		RateLimit: cfg.RateLimitReset,
	}, log)

	notificationSvc := notifService.NewNotificationService(notifications, deps.Redis, log)
	dispatcher := notifService.NewDispatcher(notifications, notificationSvc, deps.Mailer, deps.Poster, notifService.DispatchOptions{
		SiteName: cfg.SiteName,
		SiteURL:  cfg.SiteURL,
		MailFrom: cfg.MailFrom,
	}, log)

	publisherSvc := publisherService.NewPublisherService(publishers, log)
	subscriptionSvc := subscriptionService.NewSubscriptionService(subscriptions, users)
	articleSvc := articleService.NewArticleService(
		articles,
		publishers,
		articleService.NewResolver(publishers, users),
		dispatcher,
		deps.Storage,
		deps.Search,
		log,
	)

	scheduler := jobs.NewScheduler(log)
	if err := scheduler.Register(jobs.NewResetTokenPurgeJob(resetSvc, cfg.TokenPurgeSchedule, log)); err != nil {
		return nil, err
	}

	origins := cfg.Origins()
	checkOrigin := func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(origins, origin)
	}

	authHandler := userHttp.NewAuthHandler(authSvc, resetSvc)
	articleHandler := articleHttp.NewArticleHandler(articleSvc)
	publisherHandler := publisherHttp.NewPublisherHandler(publisherSvc)
	subscriptionHandler := subscriptionHttp.NewSubscriptionHandler(subscriptionSvc)
	notificationHandler := notifHttp.NewNotificationHandler(notificationSvc, deps.Redis, checkOrigin, log)

	router := gin.New()
	setupCORS(router, origins)
	router.Use(middleware.RequestLogger(log))
	router.Use(gin.Recovery())

	authMiddleware := middleware.NewAuthMiddleware(users, cfg.JWTSecret)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Basic-auth feed for external clients.
	router.GET("/get/articles/", authMiddleware.BasicAuth(cfg.SiteName), articleHandler.API)

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/request-reset", authHandler.RequestReset)
		auth.GET("/reset-password/:token", authHandler.ValidateReset)
		auth.POST("/reset-password/:token", authHandler.ConsumeReset)
	}

	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.GET("/me", authHandler.Me)
		protected.PUT("/me", authHandler.UpdateProfile)

		protected.GET("/notifications", notificationHandler.GetNotifications)
		protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		protected.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
		protected.GET("/notifications/ws", notificationHandler.HandleWebSocket)

		reader := protected.Group("")
		reader.Use(authMiddleware.RequireRole(entity.RoleReader))
		{
			reader.GET("/articles", articleHandler.Browse)
			reader.GET("/articles/:id", articleHandler.GetPublished)

			reader.GET("/journalists/:id", subscriptionHandler.GetJournalist)
			reader.PUT("/journalists/:id/subscription", subscriptionHandler.Subscribe)
			reader.DELETE("/journalists/:id/subscription", subscriptionHandler.Unsubscribe)
			reader.POST("/journalists/:id/subscription", subscriptionHandler.Toggle)

			reader.GET("/publishers/:id", publisherHandler.GetDetails)
			reader.PUT("/publishers/:id/subscription", publisherHandler.Subscribe)
			reader.DELETE("/publishers/:id/subscription", publisherHandler.Unsubscribe)
			reader.POST("/publishers/:id/subscription", publisherHandler.ToggleSubscription)
		}

		journalist := protected.Group("/journalist")
		journalist.Use(authMiddleware.RequireRole(entity.RoleJournalist))
		{
			journalist.GET("/articles", articleHandler.ListMine)
			journalist.POST("/articles", articleHandler.Create)
			journalist.GET("/articles/:id", articleHandler.GetMine)
			journalist.PUT("/articles/:id", articleHandler.Update)
			journalist.DELETE("/articles/:id", articleHandler.Delete)
			journalist.GET("/articles/:id/publish-options", articleHandler.PublishOptions)
			journalist.POST("/articles/:id/publish", articleHandler.Publish)
		}

		editor := protected.Group("/editor")
		editor.Use(authMiddleware.RequireRole(entity.RoleEditor))
		{
			editor.GET("/publishers", publisherHandler.AssignedPublishers)
			editor.GET("/publishers/:id", publisherHandler.Dashboard)
			editor.GET("/publishers/:id/journalists", publisherHandler.Journalists)
			editor.GET("/publishers/:id/journalists/assignable", publisherHandler.AssignableJournalists)
			editor.POST("/publishers/:id/journalists", publisherHandler.AssignJournalist)
			editor.DELETE("/publishers/:id/journalists/:journalist_id", publisherHandler.UnassignJournalist)
			editor.GET("/publishers/:id/articles", articleHandler.PublisherArticles)

			editor.GET("/articles/:id", articleHandler.EditorGet)
			editor.PUT("/articles/:id", articleHandler.EditorUpdate)
			editor.DELETE("/articles/:id", articleHandler.EditorDelete)
			editor.POST("/articles/:id/approve", articleHandler.Approve)
			editor.POST("/articles/:id/reject", articleHandler.Reject)
		}
	}

	return &Server{
		engine:    router,
		scheduler: scheduler,
		log:       log,
	}, nil
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run starts the background jobs and serves until Shutdown is called.
func (s *Server) Run(addr string) error {
	s.scheduler.Start()
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.log.Info("server listening", zap.String("addr", addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.scheduler.Stop()
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func setupCORS(router *gin.Engine, origins []string) {
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
