package http

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/dcpatrol/patrol/internal/observability"
)

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	ListenAddr      string        // Listen address (e.g., "0.0.0.0:8080")
	ReadTimeout     time.Duration // Read timeout
	WriteTimeout    time.Duration // Write timeout
	IdleTimeout     time.Duration // Idle timeout
	EnableH2C       bool          // Enable HTTP/2 Cleartext
	MaxHeaderBytes  int           // Max header size
	ShutdownTimeout time.Duration // Graceful shutdown timeout
}

// Server wraps the HTTP server around the configured router
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	listener   net.Listener
	router     *gin.Engine
	logger     observability.Logger
}

// NewServer creates a new HTTP server instance
func NewServer(config ServerConfig, router *gin.Engine) *Server {
	if config.ReadTimeout == 0 {
		config.ReadTimeout = 30 * time.Second
	}
	if config.WriteTimeout == 0 {
		config.WriteTimeout = 30 * time.Second
	}
	if config.IdleTimeout == 0 {
		config.IdleTimeout = 120 * time.Second
	}
	if config.MaxHeaderBytes == 0 {
		config.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if config.ShutdownTimeout == 0 {
		config.ShutdownTimeout = 10 * time.Second
	}

	return &Server{
		config: config,
		router: router,
		logger: observability.New("http-server", ""),
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	// Create listener first (supports port 0 for testing)
	listener, err := net.Listen("tcp", s.config.ListenAddr)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}
	s.listener = listener
	s.config.ListenAddr = listener.Addr().String()

	var handler http.Handler = s.router
	if s.config.EnableH2C {
		handler = h2c.NewHandler(s.router, &http2.Server{
			MaxConcurrentStreams: 250,
			MaxReadFrameSize:     1 << 20, // 1MB
		})
	}

	s.httpServer = &http.Server{
		Addr:           s.config.ListenAddr,
		Handler:        handler,
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
	}

	s.logger.Infow("Starting HTTP server", "address", s.config.ListenAddr, "h2c", s.config.EnableH2C)

	go func() {
		if err := s.httpServer.Serve(s.listener); err != nil && err != http.ErrServerClosed {
			s.logger.Errorw("HTTP server error", "error", err)
		}
	}()

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Infow("Stopping HTTP server", "address", s.config.ListenAddr)

	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("HTTP server stopped successfully")
	return nil
}

// GetAddr returns the server's listen address
func (s *Server) GetAddr() string {
	return s.config.ListenAddr
}
