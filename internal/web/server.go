package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/indirizzi-api/internal/web/handlers"
	"github.com/indirizzi-api/internal/web/middleware"
)

// Server represents the web server
type Server struct {
	config     *Config
	normalizer handlers.Normalizer
	metrics    *middleware.Metrics
	logger     zerolog.Logger
	httpServer *http.Server
	handler    http.Handler
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the base logger for request logs
func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithMetrics enables HTTP metrics and the /metrics route
func WithMetrics(m *middleware.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// NewServer creates a new web server instance
func NewServer(config *Config, normalizer handlers.Normalizer, opts ...Option) *Server {
	server := &Server{
		config:     config,
		normalizer: normalizer,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(server)
	}

	server.setupRoutes()

	server.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port),
		Handler:           server.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Covers the Overpass client timeout plus parsing and encoding
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server
}

// NewMetrics builds HTTP metrics on a registry, for callers that share it with
// the business metrics.
func NewMetrics(reg *prometheus.Registry) *middleware.Metrics {
	return middleware.NewMetrics(reg, reg, "indirizzi")
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	router := mux.NewRouter()

	if s.metrics != nil {
		router.Use(s.metrics.Middleware)
		if s.config.Metrics.Enabled {
			router.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
		}
	}

	router.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)

	protected := router.NewRoute().Subrouter()
	protected.Use(middleware.APIKey(s.config.Auth.APIKey))
	protected.Handle("/normalize-address", handlers.NewNormalizeHandler(s.normalizer)).Methods(http.MethodPost)

	// Request IDs and access logs wrap the router so 404s are logged too
	s.handler = middleware.RequestID(middleware.RequestLogger(s.logger)(router))
}

// Handler exposes the full middleware chain, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until SIGINT or SIGTERM, then shuts down gracefully
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.httpServer.Addr).Msg("starting server")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-stop:
	}

	s.logger.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.logger.Info().Msg("server stopped")
	return nil
}
