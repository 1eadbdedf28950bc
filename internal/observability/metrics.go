package observability

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	ExternalRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "tourplan", Name: "external_requests_total", Help: "Requests to the catalog and planning service."},
		[]string{"endpoint", "status"},
	)
	ExternalLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tourplan", Name: "external_request_duration_seconds",
			Help:    "Catalog and planning service request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)
	Generations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "tourplan", Name: "generations_total", Help: "Itinerary generations by outcome."},
		[]string{"outcome"}, // outcome: success|failure|rejected|discarded
	)
	GenerationLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "tourplan", Name: "generation_duration_seconds",
			Help:    "Itinerary generation duration seconds.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		},
	)
	Exports = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "tourplan", Name: "exports_total", Help: "Downloads and shares by kind and outcome."},
		[]string{"kind", "outcome"},
	)
	HandoffEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "tourplan", Name: "handoff_events_total", Help: "Handoff store reads/writes/misses/clears."},
		[]string{"backend", "event"}, // event: save|load|miss|clear
	)
)

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(ExternalRequests, ExternalLatency, Generations, GenerationLatency, Exports, HandoffEvents)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done. An empty addr disables it.
func Serve(ctx context.Context, addr string, reg *prometheus.Registry, log zerolog.Logger) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(reg))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	go func() {
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

func ObserveExternal(endpoint string, status int, dur time.Duration) {
	ExternalRequests.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	ExternalLatency.WithLabelValues(endpoint).Observe(dur.Seconds())
}

func ObserveGeneration(outcome string, dur time.Duration) {
	Generations.WithLabelValues(outcome).Inc()
	if dur > 0 {
		GenerationLatency.Observe(dur.Seconds())
	}
}

func ObserveExport(kind string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	Exports.WithLabelValues(kind, outcome).Inc()
}

func ObserveHandoff(backend, event string) {
	HandoffEvents.WithLabelValues(backend, event).Inc()
}
