// Package apihttp exposes the local read-only surface: the projected view,
// raw records, health and metrics. It never accepts mutations; commands go
// to the remote backend through the sync layer.
package apihttp

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Akshay-Kumar/organizerr-client/internal/domain"
	"github.com/Akshay-Kumar/organizerr-client/internal/torrents"
)

// SyncReader is the read side of the torrent sync layer.
type SyncReader interface {
	View() []domain.TorrentRecord
	ConnState() torrents.ConnState
	LiveStats() map[int64]domain.LiveStats
}

type Server struct {
	sync      SyncReader
	logger    *slog.Logger
	rateRPS   float64
	rateBurst int
	handler   http.Handler
}

type ServerOption func(*Server)

func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithRateLimit overrides the global token-bucket limits.
func WithRateLimit(rps float64, burst int) ServerOption {
	return func(s *Server) {
		s.rateRPS = rps
		s.rateBurst = burst
	}
}

func NewServer(sync SyncReader, opts ...ServerOption) *Server {
	s := &Server{
		sync:      sync,
		rateRPS:   100,
		rateBurst: 200,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/view", s.handleView)
	mux.HandleFunc("/torrents", s.handleTorrents)
	mux.HandleFunc("/internal/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	traced := otelhttp.NewHandler(loggingMiddleware(s.logger, mux), "organizerr-client",
		otelhttp.WithFilter(func(r *http.Request) bool {
			p := r.URL.Path
			return p != "/metrics" && p != "/internal/health"
		}),
	)
	s.handler = recoveryMiddleware(s.logger, rateLimitMiddleware(s.rateRPS, s.rateBurst, metricsMiddleware(traced)))
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}
