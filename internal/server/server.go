// Package server exposes the monitor view as a read-only JSON service.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ccollicutt/etlwatch/pkg/backend"
	"github.com/ccollicutt/etlwatch/pkg/elapsed"
	"github.com/ccollicutt/etlwatch/pkg/joblog"
	"github.com/ccollicutt/etlwatch/pkg/timestamp"
)

// HistorySource fetches job history from the backend.
type HistorySource interface {
	JobHistory(ctx context.Context, q backend.HistoryQuery) (*backend.JobPage, error)
	BaseURL() string
}

// Server serves the monitor JSON API.
type Server struct {
	history    HistorySource
	jobs       *joblog.Log
	logger     *zap.Logger
	normalizer *timestamp.Normalizer
	clock      elapsed.Clock
	pageSize   int
}

// Option configures a Server.
type Option func(*Server)

// WithNormalizer sets how raw backend timestamps are read.
func WithNormalizer(n *timestamp.Normalizer) Option {
	return func(s *Server) {
		if n != nil {
			s.normalizer = n
		}
	}
}

// WithClock sets the clock used as the render time.
func WithClock(c elapsed.Clock) Option {
	return func(s *Server) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithPageSize sets the default history page size.
func WithPageSize(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// New creates a server. jobs may be nil, in which case /api/joblog is empty.
func New(history HistorySource, jobs *joblog.Log, logger *zap.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		history:    history,
		jobs:       jobs,
		logger:     logger,
		normalizer: timestamp.New(),
		clock:      elapsed.SystemClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes returns the router with every endpoint mounted.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(requestLogger(s.logger))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/monitor", s.handleMonitor)
		r.Get("/timestamps/normalize", s.handleNormalize)
		r.Get("/joblog", s.handleJobLog)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving on %s: %w", addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	}
}

// requestLogger logs one line per request through zap.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("took", time.Since(start)),
				zap.String("request_id", chimw.GetReqID(r.Context())),
			)
		})
	}
}
