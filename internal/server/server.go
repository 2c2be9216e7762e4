// ABOUTME: HTTP service exposing the batch report pipeline.
// ABOUTME: Wires gin routes, request logging, and graceful shutdown.

package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nau-tools/edx-reportgen/internal/config"
	"github.com/nau-tools/edx-reportgen/internal/report"
	"go.uber.org/zap"
)

// Server hosts the report-generation endpoints. Each request runs its own
// batch with its own LMS session; no state is shared between requests.
type Server struct {
	cfg    config.ServerConfig
	log    *zap.Logger
	runner *report.Runner
}

// New builds a Server around the given batch runner.
func New(cfg config.ServerConfig, log *zap.Logger, runner *report.Runner) *Server {
	return &Server{cfg: cfg, log: log, runner: runner}
}

// Router assembles the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/api/generate", s.handleGenerate)
	r.POST("/api/generate-multipart", s.handleGenerateMultipart)

	return r
}

// Run serves until SIGINT/SIGTERM, then shuts down gracefully within the
// configured timeout. In-flight batches get to finish; there is no way to
// cancel an already-submitted course request.
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      s.Router(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		s.log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
