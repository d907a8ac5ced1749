// Package remixhttp exposes a single remix session over HTTP.
package remixhttp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mhpenta/remix/session"
)

// Server serves the session API.
type Server struct {
	addr    string
	router  *gin.Engine
	session *session.Session
	logger  *slog.Logger

	// genCtx outlives individual requests so a generation started by
	// POST /generate keeps running after the response is written.
	genCtx    context.Context
	genCancel context.CancelFunc
}

// ServerConfig describes the server's dependencies.
type ServerConfig struct {
	Addr    string
	Session *session.Session
	Logger  *slog.Logger

	// MaxUploadBytes caps an uploaded image; remix.MaxImageSize when zero.
	MaxUploadBytes int64
}

// NewServer builds the HTTP server.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Session == nil {
		return nil, errors.New("remix http server requires a session")
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(cfg.Logger))

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		addr:      cfg.Addr,
		router:    router,
		session:   cfg.Session,
		logger:    cfg.Logger,
		genCtx:    ctx,
		genCancel: cancel,
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	newHandler(cfg.Session, cfg.Logger, cfg.MaxUploadBytes, s.generationContext).Register(router.Group("/api/session"))

	return s, nil
}

func (s *Server) generationContext() context.Context {
	return s.genCtx
}

// requestLogger logs every request at debug level.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if query := c.Request.URL.RawQuery; query != "" {
			path = path + "?" + query
		}
		c.Next()
		logger.Debug("http request",
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"ip", c.ClientIP(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

// Handler returns the underlying router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	if s == nil {
		return ""
	}
	return s.addr
}

// Start serves until ctx is cancelled or the listener fails. On shutdown a
// generation still in flight has its context cancelled.
func (s *Server) Start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	defer s.genCancel()

	srv := &http.Server{Addr: s.addr, Handler: s.router, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	s.logger.Info("http server listening", "addr", s.addr)

	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
		s.logger.Info("http server stopped")
		return nil
	case err := <-errCh:
		return err
	}
}
