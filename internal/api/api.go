package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"chat-session/internal/api/middleware"
	"chat-session/internal/queue"
	"chat-session/internal/websocket"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 10 * time.Second

type RouteRegistrar func(r chi.Router, s *APIServer)

type Config struct {
	ListenAddr string
	Queue      *queue.RequestQueueManager
	Relay      *websocket.Handler
	CORS       middleware.CORSConfig
	// Registry receives the HTTP collectors and backs /metrics. Nil means
	// the process-wide default registry.
	Registry *prometheus.Registry
}

type APIServer struct {
	listenAddr          string
	requestQueueManager *queue.RequestQueueManager
	routeRegistrars     []RouteRegistrar
	handler             *websocket.Handler
	cors                middleware.CORSConfig
	metrics             *relayMetrics
}

func NewAPIServer(cfg Config, registrars ...RouteRegistrar) *APIServer {
	var (
		reg      prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if cfg.Registry != nil {
		reg, gatherer = cfg.Registry, cfg.Registry
	}

	return &APIServer{
		listenAddr:          cfg.ListenAddr,
		requestQueueManager: cfg.Queue,
		routeRegistrars:     registrars,
		handler:             cfg.Relay,
		cors:                cfg.CORS,
		metrics:             newMetrics(reg, gatherer, cfg.ListenAddr, cfg.Queue),
	}
}

// Router assembles every registered route plus /metrics.
func (s *APIServer) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.metrics.instrument)

	for _, reg := range s.routeRegistrars {
		reg(r, s)
	}

	r.Handle("/metrics", s.metrics.handler())

	return r
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *APIServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.listenAddr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.listenAddr).Msg("[api] server listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("[api] shutdown error")
		return err
	}
	log.Info().Msg("[api] server stopped")
	return nil
}

func (s *APIServer) Handler() *websocket.Handler {
	return s.handler
}
