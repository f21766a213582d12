package http

import (
	"context"
	"errors"
	stdhttp "net/http"
	"time"

	"modelwatch/internal/platform/config"
	"modelwatch/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// Server couples a chi mux with the stdlib http.Server that serves it
type Server struct {
	addr string
	mux  *chi.Mux
	srv  *stdhttp.Server
}

// NewServer builds the API server on cfg's API_PORT, ":4000" when unset.
// Options receive the raw chi mux before any routes exist, which is where
// the composition root installs the middleware stack
func NewServer(cfg config.Conf, opts ...func(*chi.Mux)) *Server {
	addr := cfg.MayPort("API_PORT", ":4000")

	m := chi.NewRouter()
	for _, o := range opts {
		o(m)
	}

	return &Server{
		addr: addr,
		mux:  m,
		srv: &stdhttp.Server{
			Addr:              addr,
			Handler:           m,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Router returns the platform facade over the server's mux
func (s *Server) Router() Router { return AdaptChi(s.mux) }

// Addr returns the configured listen address
func (s *Server) Addr() string { return s.addr }

// Run serves until the listener fails or Shutdown drains the server. A
// drained server returns nil, callers only ever see real faults
func (s *Server) Run(ctx context.Context) error {
	logger.C(ctx).Info().Str("addr", s.addr).Msg("http listening")

	if err := s.srv.ListenAndServe(); !errors.Is(err, stdhttp.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires
func (s *Server) Shutdown(ctx context.Context) error { return s.srv.Shutdown(ctx) }
