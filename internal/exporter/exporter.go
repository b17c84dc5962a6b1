// Package exporter serves the pull-based exposition endpoint.
//
// Gauge values are exposed in the standard text format on /metrics; a
// plain-text listing of current readings is served on / for quick
// inspection. The server runs as its own task with an explicit start and
// a joined shutdown.
package exporter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hostpulse/monitor/internal/middleware"
	"github.com/hostpulse/monitor/internal/registry"
)

// Server is the exposition HTTP server.
type Server struct {
	srv    *http.Server
	logger *zap.SugaredLogger
}

// Router builds the exposition routes over the given registry.
func Router(reg *registry.Registry, logger *zap.SugaredLogger) chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.Gzip)
	router.Use(chimiddleware.StripSlashes)
	router.Use(chimiddleware.Timeout(15 * time.Second))

	// Compression is left to the Gzip middleware.
	router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(
		reg.Gatherer(),
		promhttp.HandlerOpts{DisableCompression: true},
	))
	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		ReadingsHandler(w, r, reg)
	})
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, "ok\n")
	})
	return router
}

// ReadingsHandler writes the current reading of every active metric,
// one per line, "unset" for metrics that were never sampled.
func ReadingsHandler(w http.ResponseWriter, r *http.Request, reg *registry.Registry) {
	readings := reg.ReadAll()
	names := make([]string, 0, len(readings))
	for name := range readings {
		names = append(names, name)
	}
	sort.Strings(names)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	for _, name := range names {
		reading := readings[name]
		if reading.Set {
			fmt.Fprintf(w, "%s: %g\n", name, reading.Value)
		} else {
			fmt.Fprintf(w, "%s: unset\n", name)
		}
	}
}

// New creates the exposition server for addr.
func New(addr string, reg *registry.Registry, logger *zap.SugaredLogger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:    addr,
			Handler: Router(reg, logger),
		},
		logger: logger,
	}
}

// Start launches the server in its own goroutine. A listen failure is
// delivered on the returned channel; a clean shutdown is not.
func (s *Server) Start() <-chan error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Infow("exposition endpoint starting", "address", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	return errCh
}

// Shutdown stops the server, waiting for in-flight requests up to the
// context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
