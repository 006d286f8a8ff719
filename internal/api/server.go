package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/injury-triage-server/internal/domain"
	"github.com/injury-triage-server/internal/middleware"
	"github.com/injury-triage-server/pkg/external"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// Triager is the part of the triage service the HTTP layer needs.
type Triager interface {
	Triage(ctx context.Context, image *domain.ImageInput) (*domain.TriageResult, error)
	StrategyOverview() *domain.StrategyOverview
}

// BreakerMonitor reports the classifier circuit breaker state and counters.
type BreakerMonitor interface {
	State() string
	Stats() external.BreakerStats
}

// CacheMonitor reports classification cache hit counters.
type CacheMonitor interface {
	Stats() external.CacheStats
}

// Server represents the HTTP server
type Server struct {
	configManager domain.ConfigManager
	logger        *logrus.Logger
	triager       Triager
	breaker       BreakerMonitor
	cache         CacheMonitor
	router        *gin.Engine
	server        *http.Server
}

// NewServer creates a new HTTP server instance. breaker and cache may be nil.
func NewServer(configManager domain.ConfigManager, logger *logrus.Logger, triager Triager, breaker BreakerMonitor, cache CacheMonitor) *Server {
	cfg := configManager.GetConfig()

	// Tests choose their own mode.
	if gin.Mode() != gin.TestMode {
		if cfg.Logging.Level == "debug" {
			gin.SetMode(gin.DebugMode)
		} else {
			gin.SetMode(gin.ReleaseMode)
		}
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RequestLogger(logger))

	server := &Server{
		configManager: configManager,
		logger:        logger,
		triager:       triager,
		breaker:       breaker,
		cache:         cache,
		router:        router,
	}

	server.setupRoutes()

	return server
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.configManager.GetServerConfig()
	addr := net.JoinHostPort(cfg.Host, fmt.Sprintf("%d", cfg.Port))

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("HTTP server listening")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(shutdownCtx)
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	triage := s.router.Group("/triage")
	{
		triage.POST("", s.handleTriage)
		triage.GET("/strategy", s.handleStrategy)
	}
}

// corsMiddleware allows any origin; the API is consumed by a browser UI
// served from elsewhere.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-Correlation-ID, X-Request-ID")
		c.Header("Access-Control-Expose-Headers", "Content-Length, X-Correlation-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
