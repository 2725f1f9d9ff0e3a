// Package ops serves the operational HTTP surface: health and metrics.
package ops

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jeyoh/moneyball/internal/middleware"
	"github.com/jeyoh/moneyball/internal/storage"
)

const shutdownTimeout = 5 * time.Second

// Server exposes /healthz and /metrics on its own listener, separate from
// the chat gateway.
type Server struct {
	http   *http.Server
	logger *slog.Logger
}

// NewServer builds the ops server on addr, probing store for health checks
func NewServer(addr string, store storage.Storage, logger *slog.Logger) *Server {
	r := mux.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))

	r.HandleFunc("/healthz", healthHandler(store)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return &Server{
		http:   &http.Server{Addr: addr, Handler: r},
		logger: logger,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("ops server listening", slog.String("addr", s.http.Addr))
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// healthHandler reports healthy when a cheap storage read succeeds
func healthHandler(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := store.ListBalances(r.Context(), ""); err != nil {
			http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
