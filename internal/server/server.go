package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/ridwanfathin/nfe-ingestion-service/internal/config"
	"github.com/ridwanfathin/nfe-ingestion-service/internal/handler"
	"github.com/ridwanfathin/nfe-ingestion-service/internal/middleware"
)

// Server represents the HTTP server for the NF-e ingestion service
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	config     config.ServerConfig
	log        *slog.Logger
}

// NewServer creates and configures a new server instance
func NewServer(cfg *config.Config, log *slog.Logger, invoices *handler.InvoiceHandler, health *handler.HealthHandler) *Server {
	gin.SetMode(cfg.Server.GinMode)

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.CORS))
	router.Use(middleware.RequestLogger(log))

	server := &Server{
		router: router,
		config: cfg.Server,
		log:    log,
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}

	health.RegisterRoutes(router)
	invoices.RegisterRoutes(router)
	server.setupDocs()

	return server
}

// Handler returns the gin router instance
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupDocs serves the Swagger UI at /api-docs/index.html
func (s *Server) setupDocs() {
	s.router.GET("/api-docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	s.router.GET("/api-docs", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/api-docs/index.html")
	})
}

// Start serves until SIGINT/SIGTERM or ctx is done, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening", slog.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	if err := s.Shutdown(); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	s.log.Info("server exited gracefully")
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
