// File: internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"marvel_nexus_backend/internal/auth"
	"marvel_nexus_backend/internal/catalog"
	"marvel_nexus_backend/internal/collection"
	"marvel_nexus_backend/internal/config"
	"marvel_nexus_backend/internal/jobs"
	"marvel_nexus_backend/internal/middleware"
	"marvel_nexus_backend/internal/session"
	"marvel_nexus_backend/internal/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config
	logger     *zap.Logger

	sessionExpiryJob *jobs.SessionExpiryJob
}

// NewServer creates a new instance of our application server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	authHandler *auth.Handler,
	userHandler *user.Handler,
	catalogHandler *catalog.Handler,
	collectionHandler *collection.Handler,
	sessionService *session.Service,
	userService *user.Service,
	sessionExpiryJob *jobs.SessionExpiryJob,
) (*Server, error) {
	gin.SetMode(cfg.GinMode)
	router := gin.New()

	// --- Global Middleware ---
	router.Use(middleware.ZapLogger(logger, cfg))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.FrontendOrigin}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader}
	corsConfig.AllowCredentials = true
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	// Resolves the session cookie into the request context without
	// rejecting anonymous requests. Routes that need a user add RequireAuth.
	router.Use(middleware.SessionLoader(sessionService, userService, cfg, logger.Named("SessionLoader")))

	// --- Setup Routes ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Marvel Nexus API is healthy!"})
	})

	router.Static("/uploads", cfg.UploadDir)

	authHandler.RegisterRoutes(router)
	userHandler.RegisterRoutes(router, middleware.RequireAuth())
	catalogHandler.RegisterRoutes(router)
	collectionHandler.RegisterRoutes(router)

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.ServerTimeout,
		WriteTimeout: cfg.ServerTimeout,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer:       httpServer,
		router:           router,
		cfg:              cfg,
		logger:           logger,
		sessionExpiryJob: sessionExpiryJob,
	}, nil
}

// Router exposes the underlying gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) Start() error {
	if s.sessionExpiryJob != nil {
		if err := s.sessionExpiryJob.SetupAndStart(); err != nil {
			s.logger.Error("Failed to setup and start session expiry job", zap.Error(err))
		}
	} else {
		s.logger.Info("Session expiry job is not configured, skipping start.")
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
	if s.sessionExpiryJob != nil {
		s.sessionExpiryJob.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}
