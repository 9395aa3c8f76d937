package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Status is the state of the order watcher.
type Status struct {
	LastPoll   time.Time `json:"last_poll"`
	OpenOrders int       `json:"open_orders"`
	Returns    int       `json:"returns"`
	LastError  string    `json:"last_error,omitempty"`
}

// StatusSource reports the current watcher status.
type StatusSource interface {
	Status() Status
}

// Server exposes health, metrics and watcher status over HTTP.
type Server struct {
	port     int
	source   StatusSource
	gatherer prometheus.Gatherer
	logger   *otelzap.Logger
}

// Config holds server configuration.
type Config struct {
	Port int
}

// New creates a new server instance. Metrics are gathered from gatherer.
func New(cfg Config, source StatusSource, gatherer prometheus.Gatherer, logger *otelzap.Logger) *Server {
	return &Server{
		port:     cfg.Port,
		source:   source,
		gatherer: gatherer,
		logger:   logger,
	}
}

// Handler returns the routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/status", s.handleStatus)
	return mux
}

// Run starts the HTTP server and blocks until context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server", zap.Int("port", s.port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	status := s.source.Status()
	if status.LastError != "" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	if err := json.NewEncoder(w).Encode(status); err != nil {
		s.logger.Error("Encoding status", zap.Error(err))
	}
}
