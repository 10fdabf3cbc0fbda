package web

import (
	"context"
	"net/http"
	"time"

	"github.com/avagyans/filegate/internal/logging"
	"github.com/avagyans/filegate/internal/server/blacklist"
	"github.com/avagyans/filegate/internal/server/config"
)

// Server owns the gin engine and the underlying http.Server.
type Server struct {
	svc     *Services
	revoked blacklist.Store
	secret  []byte
	log     logging.Logger

	httpServer *http.Server
}

func NewServer(cfg *config.Config, svc *Services, revoked blacklist.Store, log logging.Logger) *Server {
	s := &Server{
		svc:     svc,
		revoked: revoked,
		secret:  []byte(cfg.SecretKey),
		log:     log,
	}
	s.httpServer = &http.Server{
		Addr:    cfg.EndpointAddrHTTP,
		Handler: s.buildRouter(),
	}
	return s
}

// Handler exposes the routed handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves until the listener fails or Shutdown is called.
func (s *Server) Run() error {
	s.log.Info(context.Background(), "http server starting", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
