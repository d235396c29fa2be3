// Package metrics provides the report sinks: Prometheus for batch progress,
// InfluxDB for persisted verdicts, and a fan-out for combinations.
package metrics

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/reachset/occucheck/core/report"
)

// PromSink records check results in Prometheus metrics.
type PromSink struct {
	sources  *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewPromSink registers the checker metrics on the default Prometheus
// registerer. The metrics server is started separately.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	sources := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "occucheck_sources_total",
		Help: "Occupancy sources checked, by verdict",
	}, []string{"verdict"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "occucheck_check_duration_seconds",
		Help:    "Wall time of a single source check",
		Buckets: prometheus.DefBuckets,
	})

	if err := reg.Register(sources); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			sources = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(duration); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			duration = are.ExistingCollector.(prometheus.Histogram)
		} else {
			return nil, err
		}
	}
	return &PromSink{sources: sources, duration: duration}, nil
}

// RecordResult increments the verdict counter and observes the duration.
func (s *PromSink) RecordResult(r report.Result) error {
	s.sources.WithLabelValues(verdict(r)).Inc()
	s.duration.Observe(r.Elapsed.Seconds())
	return nil
}

// RecordSummary is a no-op: the counters already carry the aggregate.
func (s *PromSink) RecordSummary(report.Summary) error { return nil }

func verdict(r report.Result) string {
	switch {
	case r.Failed():
		return "failed"
	case r.Collision():
		return "collision"
	default:
		return "clear"
	}
}

// StartPromServer exposes Prometheus metrics on the given port until the
// context is cancelled. A dedicated ServeMux avoids interfering with other
// handlers.
func StartPromServer(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: net.JoinHostPort("", port), Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
