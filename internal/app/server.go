// File: internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"dormview_backend/internal/common"
	"dormview_backend/internal/config"
	"dormview_backend/internal/dorm"
	"dormview_backend/internal/feedback"
	"dormview_backend/internal/firebase"
	"dormview_backend/internal/jobs"
	"dormview_backend/internal/middleware"
	"dormview_backend/internal/moderation"
	"dormview_backend/internal/photo"
	"dormview_backend/internal/platform/elasticsearch"
	"dormview_backend/internal/push"
	"dormview_backend/internal/school"
	"dormview_backend/internal/shared"
	"dormview_backend/internal/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config
	logger     *zap.Logger

	// Exposed for CLI subcommands that reuse the wired dependencies.
	ESClient  *elasticsearch.ESClientWrapper
	AppLogger *zap.Logger
	DB        *gorm.DB

	// Handlers
	userHandler       *user.Handler
	schoolHandler     *school.Handler
	dormHandler       *dorm.Handler
	photoHandler      *photo.Handler
	feedbackHandler   *feedback.Handler
	pushHandler       *push.Handler
	moderationHandler *moderation.Handler

	// Jobs
	pendingReminderJob *jobs.PendingReminderJob

	// Middleware instances
	authMW      gin.HandlerFunc
	adminRoleMW gin.HandlerFunc
}

// NewServer creates a new instance of our application server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	userHandler *user.Handler,
	schoolHandler *school.Handler,
	dormHandler *dorm.Handler,
	photoHandler *photo.Handler,
	feedbackHandler *feedback.Handler,
	pushHandler *push.Handler,
	moderationHandler *moderation.Handler,
	pendingReminderJob *jobs.PendingReminderJob,
	db *gorm.DB,
	esClient *elasticsearch.ESClientWrapper,
	firebaseService *firebase.FirebaseService,
	userService shared.Service,
) (*Server, error) {
	gin.SetMode(cfg.GinMode)
	router := gin.New()

	// --- Global Middleware ---
	router.Use(middleware.ZapLogger(logger, cfg))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())

	// CORS Middleware
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsConfig.AllowCredentials = true
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	// Create middleware instances
	authMW := middleware.AuthMiddleware(firebaseService, userService, logger.Named("AuthMiddleware"))
	adminRoleMW := middleware.RoleAuthMiddleware(common.RoleAdmin)

	// --- Setup Routes ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "DormView API is healthy!"})
	})

	// Stored photos are served directly off disk. Uploads land under
	// PHOTO_STORAGE_PATH and responses reference them via PHOTO_PUBLIC_BASE_URL.
	router.Static(cfg.PhotoPublicBaseURL, cfg.PhotoStoragePath)

	v1 := router.Group("/api/v1")

	userHandler.RegisterRoutes(v1, authMW)
	schoolHandler.RegisterRoutes(v1, authMW, adminRoleMW)
	dormHandler.RegisterRoutes(v1, authMW, adminRoleMW)
	photoHandler.RegisterRoutes(v1, authMW, adminRoleMW)
	feedbackHandler.RegisterRoutes(v1, authMW, adminRoleMW)
	moderationHandler.RegisterRoutes(v1, authMW, adminRoleMW)

	// Device token registration requires a signed-in user.
	deviceGroup := v1.Group("/devices", authMW)
	pushHandler.RegisterRoutes(deviceGroup)

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer:         httpServer,
		router:             router,
		cfg:                cfg,
		logger:             logger,
		ESClient:           esClient,
		AppLogger:          logger,
		DB:                 db,
		userHandler:        userHandler,
		schoolHandler:      schoolHandler,
		dormHandler:        dormHandler,
		photoHandler:       photoHandler,
		feedbackHandler:    feedbackHandler,
		pushHandler:        pushHandler,
		moderationHandler:  moderationHandler,
		pendingReminderJob: pendingReminderJob,
		authMW:             authMW,
		adminRoleMW:        adminRoleMW,
	}, nil
}

func (s *Server) Start() error {
	if s.pendingReminderJob != nil {
		if err := s.pendingReminderJob.SetupAndStart(); err != nil {
			s.logger.Error("Failed to setup and start pending reminder job", zap.Error(err))
		}
	} else {
		s.logger.Info("Pending reminder job is not configured, skipping start.")
	}

	s.logger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP Server stopped gracefully or an error occurred")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	if s.pendingReminderJob != nil {
		s.pendingReminderJob.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}
