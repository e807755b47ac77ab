package server

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Server wraps the standard HTTP server with helper methods for boot
// and graceful shutdown.
type Server struct {
	httpServer *http.Server
}

func New(port string, handler http.Handler) *Server {
	addr := port
	if addr == "" {
		addr = "8080"
	}
	if addr[0] != ':' {
		addr = fmt.Sprintf(":%s", addr)
	}

	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
