package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ButyrinIA/blogbackend/internal/config"
	"github.com/ButyrinIA/blogbackend/internal/service"
	"github.com/ButyrinIA/blogbackend/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
)

type Server struct {
	cfg      *config.Config
	service  *service.Service
	registry *prometheus.Registry
	metrics  *metrics
	handler  http.Handler
}

func New(cfg *config.Config, storage storage.Storage) *Server {
	s := &Server{
		cfg:      cfg,
		service:  service.New(storage),
		registry: prometheus.NewRegistry(),
	}
	s.metrics = newMetrics(s.registry)
	s.handler = s.routes()

	return s
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is cancelled, then shuts down gracefully within the
// configured timeout.
func (s *Server) Run(ctx context.Context) error {
	addr := s.cfg.Server.Addr()
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	slog.Info("starting server", slog.String("address", addr))

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen and serve: %w", err)
		}
		return nil
	case <-ctx.Done():
		slog.Info("shutdown signal received", slog.String("address", addr))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		if !errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("shutdown server: %w", err)
		}

		slog.Warn("graceful shutdown timed out, forcing close", slog.String("address", addr))
		if closeErr := srv.Close(); closeErr != nil {
			slog.Error("force close server failed", slog.String("address", addr), "error", closeErr)
		}
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen and serve: %w", err)
	}

	slog.Info("server stopped", slog.String("address", addr))
	return nil
}
