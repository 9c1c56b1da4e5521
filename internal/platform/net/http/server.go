package http

import (
	"context"
	"errors"
	stdhttp "net/http"
	"time"

	"moodmeter/internal/platform/config"
	"moodmeter/internal/platform/logger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Server is a thin wrapper over chi + stdlib http.Server
type Server struct {
	addr  string
	grace time.Duration
	mux   *chi.Mux
	srv   *stdhttp.Server
}

// NewServer builds the server from a config view (API_PORT, SHUTDOWN_GRACE)
// opts receive the *chi.Mux so callers can add root middleware before routes
func NewServer(cfg config.Conf, opts ...func(*chi.Mux)) *Server {
	addr := cfg.MayString("API_PORT", ":4000")
	m := chi.NewRouter()
	for _, o := range opts {
		o(m)
	}
	return &Server{
		addr:  addr,
		grace: cfg.MayDuration("SHUTDOWN_GRACE", 10*time.Second),
		mux:   m,
		srv: &stdhttp.Server{
			Addr:              addr,
			Handler:           m,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Router returns a Router facade over the internal chi mux
func (s *Server) Router() Router { return AdaptChi(s.mux) }

// Addr returns the configured listening address
func (s *Server) Addr() string { return s.addr }

// Run serves until ctx is done, then drains in-flight requests for the grace period
func (s *Server) Run(ctx context.Context) error {
	log := logger.Named("http")

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.addr).Msg("http listening")
		errc <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, stdhttp.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.Background(), s.grace)
	defer cancel()
	log.Info().Dur("grace", s.grace).Msg("http draining")
	if err := s.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// MountProfiler serves pprof and expvar under prefix when enabled
// the bare prefix redirects to the pprof index
func MountProfiler(r Router, prefix string, enabled bool) {
	if !enabled {
		return
	}
	r.Get(prefix, func(w stdhttp.ResponseWriter, req *stdhttp.Request) {
		stdhttp.Redirect(w, req, prefix+"/pprof/", stdhttp.StatusFound)
	})
	r.Handle(prefix+"/*", stdhttp.StripPrefix(prefix, chimw.Profiler()))
}
