// internal/interfaces/http/server.go
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/darshanrathod27/rathod-mart-storefront/internal/config"
	"github.com/darshanrathod27/rathod-mart-storefront/internal/interfaces/http/middleware"
	"github.com/darshanrathod27/rathod-mart-storefront/internal/interfaces/http/routes"
	"github.com/darshanrathod27/rathod-mart-storefront/internal/interfaces/http/session"
)

const sessionCookie = middleware.SessionCookie

// HealthChecker is the liveness surface of the snapshot store.
type HealthChecker interface {
	Health() error
}

// Pinger reports backend reachability for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	config      *config.Config
	logger      *logrus.Logger
	gin         *gin.Engine
	httpServer  *http.Server
	registry    *session.Registry
	storeHealth HealthChecker
	remote      Pinger
	redisClient *redis.Client
}

// NewServer creates a new HTTP server instance. redisClient is nil unless the
// redis storage provider is configured; rate limiting piggybacks on it.
func NewServer(cfg *config.Config, logger *logrus.Logger, registry *session.Registry, storeHealth HealthChecker, remote Pinger, redisClient *redis.Client) *Server {
	return &Server{
		config:      cfg,
		logger:      logger,
		registry:    registry,
		storeHealth: storeHealth,
		remote:      remote,
		redisClient: redisClient,
	}
}

// buildRouter assembles the gin engine with all middleware and routes.
func (s *Server) buildRouter() *gin.Engine {
	// Set Gin mode based on environment
	if s.config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Create Gin engine
	s.gin = gin.New()

	// Setup middleware
	s.setupMiddleware()

	// Setup routes
	s.setupRoutes()

	return s.gin
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.buildRouter()

	// Create HTTP server
	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.gin,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	s.logger.Infof("HTTP server starting on port %s", s.config.Server.Port)

	// Start server
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info("HTTP server stopped gracefully")
	return nil
}

// setupMiddleware configures all middleware for the server
func (s *Server) setupMiddleware() {
	// Recovery middleware - recover from panics
	s.gin.Use(gin.Recovery())

	// Custom logger middleware
	s.gin.Use(middleware.Logger(s.logger))

	// Request ID middleware
	s.gin.Use(middleware.RequestID())

	// CORS middleware
	s.gin.Use(middleware.CORS(s.config))

	// Security headers middleware
	s.gin.Use(middleware.SecurityHeaders())

	// Rate limiting middleware, only when Redis is around
	if s.redisClient != nil {
		s.gin.Use(middleware.RateLimit(s.config, s.redisClient))
	}

	// Request size limit middleware
	s.gin.Use(middleware.RequestSizeLimit(1 << 20)) // 1MB limit

	// Timeout middleware
	s.gin.Use(middleware.Timeout(s.config))
}

// setupRoutes configures all routes for the server
func (s *Server) setupRoutes() {
	// Health check endpoint (no session required)
	s.gin.GET("/health", s.healthCheck)
	s.gin.GET("/ready", s.readinessCheck)

	// API v1 routes: identity resolution, then session binding
	apiV1 := s.gin.Group("/api/v1")
	apiV1.Use(middleware.Identity(s.config))
	apiV1.Use(s.sessionMiddleware())

	routes.SetupRoutes(apiV1)

	if s.config.IsDevelopment() {
		s.gin.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"message":     s.config.App.Name,
				"version":     s.config.App.Version,
				"environment": s.config.App.Environment,
				"health":      "/health",
				"endpoints": gin.H{
					"cart":     "/api/v1/cart",
					"wishlist": "/api/v1/wishlist",
				},
			})
		})
	}
}

// sessionMiddleware binds each request to a session's engine pair, creating
// the session cookie on first contact and re-syncing the engines when the
// authentication state changes.
func (s *Server) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(sessionCookie)
		if err != nil || id == "" {
			id = uuid.New().String()
			maxAge := int(s.config.Storage.SnapshotTTL.Seconds())
			c.SetCookie(sessionCookie, id, maxAge, "/", "", s.config.IsProduction(), true)
		}

		sess := s.registry.Get(id)
		token := middleware.GetTokenFromContext(c)
		authenticated := middleware.IsAuthenticatedFromContext(c)

		// Sync failures keep the engines' previous state; the request still
		// proceeds and the next auth transition retries.
		if err := sess.EnsureAuth(c.Request.Context(), token, authenticated); err != nil {
			s.logger.WithError(err).WithField("session_id", id).Warn("session sync failed")
		}

		c.Set("session", sess)
		c.Next()
	}
}

// healthCheck handles health check requests
func (s *Server) healthCheck(c *gin.Context) {
	if err := s.storeHealth.Health(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  "snapshot store unavailable",
		})
		return
	}

	// backend reachability is informational: the gateway still serves guest
	// sessions when the backend is down
	backend := "reachable"
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if err := s.remote.Ping(ctx); err != nil {
		backend = "unreachable"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"backend":     backend,
		"timestamp":   time.Now().UTC(),
		"version":     s.config.App.Version,
		"environment": s.config.App.Environment,
		"sessions":    s.registry.Len(),
	})
}

// readinessCheck handles readiness check requests
func (s *Server) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"timestamp": time.Now().UTC(),
	})
}
