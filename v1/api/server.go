package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/verona-ai/profilesearch/v1/logger"
)

type ServerConfig struct {
	Address         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Server runs the gin engine on a net/http server.
type Server struct {
	httpServer *http.Server
	cfg        ServerConfig
	logger     logger.Logger
}

func NewServer(cfg ServerConfig, router *gin.Engine, log logger.Logger) *Server {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Address,
			Handler:           router,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      cfg.WriteTimeout,
			MaxHeaderBytes:    1 << 20,
		},
		cfg:    cfg,
		logger: log,
	}
}

// Start binds the listener synchronously and serves in the background, so a
// bad address fails application start.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("[HTTP] listen %s: %w", s.httpServer.Addr, err)
	}
	s.logger.Info("[HTTP] server listening", nil, map[string]interface{}{"address": ln.Addr().String()})

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("[HTTP] server stopped", err, nil)
		}
	}()
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("[HTTP] shutdown: %w", err)
	}
	s.logger.Info("[HTTP] server stopped", nil, nil)
	return nil
}
