package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/norahairline/norahairline/internal/database"
	"github.com/norahairline/norahairline/internal/store"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	router *gin.Engine
	db     *database.DB
	store  *store.Store
}

// NewServer creates a new server instance
func NewServer(db *database.DB) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	server := &Server{
		router: router,
		db:     db,
		store:  store.New(db),
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	{
		api.GET("/health", s.healthCheck)
	}
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// healthCheck endpoint for monitoring
func (s *Server) healthCheck(c *gin.Context) {
	ctx := c.Request.Context()

	if err := s.db.HealthCheck(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"error":  "database connection failed",
		})
		return
	}

	admins, err := s.store.CountAdmins(ctx)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"error":  "schema not initialised",
		})
		return
	}

	if admins == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"error":  "no administrator, run nora bootstrap",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"admins": admins,
	})
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
