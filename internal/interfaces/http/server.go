// Package http is the HTTP/JSON adapter: it wires gin routes to the
// repositories and maps domain errors to response statuses.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fnutaifi/custody-sheets/internal/auth"
	"github.com/fnutaifi/custody-sheets/internal/repository"
	"github.com/fnutaifi/custody-sheets/pkg/database"
)

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	BcryptCost   int
}

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	db         *database.DB
	users      *repository.UserRepository
	sheets     *repository.SheetRepository
	tokens     *auth.TokenManager
	logger     *zap.Logger
}

// NewServer creates the HTTP server with all routes registered.
func NewServer(
	config ServerConfig,
	db *database.DB,
	users *repository.UserRepository,
	sheets *repository.SheetRepository,
	tokens *auth.TokenManager,
	logger *zap.Logger,
) *Server {
	router := gin.New()

	s := &Server{
		config: config,
		router: router,
		db:     db,
		users:  users,
		sheets: sheets,
		tokens: tokens,
		logger: logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures middleware for the router
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
	s.router.Use(corsMiddleware())
}

// loggingMiddleware logs every request with method, path, status and latency
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		s.logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		)
	}
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	api := s.router.Group("/api")

	api.POST("/auth/register", s.handleRegister)
	api.POST("/auth/login", s.handleLogin)
	api.GET("/health", s.handleHealth)

	authed := api.Group("")
	authed.Use(auth.Middleware(s.tokens))
	{
		authed.GET("/sheets", s.handleListSheets)
		authed.POST("/sheets", s.handleSaveSheet)
		authed.GET("/sheets/:id/export", s.handleExportSheet)
		authed.DELETE("/sheets/:id", auth.RequireLead(), s.handleDeleteSheet)

		admin := authed.Group("/users", auth.RequireLead())
		{
			admin.GET("", s.handleListUsers)
			admin.POST("", s.handleCreateUser)
			admin.PUT("/:id", s.handleUpdateUser)
			admin.PUT("/:id/role", s.handleUpdateUserRole)
			admin.DELETE("/:id", s.handleDeleteUser)
		}
	}
}

// Start begins serving HTTP requests. It blocks until the listener fails
// or Shutdown is called.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.config.Host, s.config.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("HTTP server listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Router exposes the gin engine for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// handleHealth handles GET /api/health, reporting database connectivity.
func (s *Server) handleHealth(c *gin.Context) {
	if err := s.db.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "db": "disconnected"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "connected"})
}
