// Package parsemetrics wires github.com/prometheus/client_golang the way
// metrics.go does: a small struct of promauto-registered vectors, plus a
// Handler method for mounting under an HTTP mux.
package parsemetrics

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Kind names what der.Error.Kind a failed parse or encode carried, used as
// a metric label. It mirrors the der.Kind enum without importing der, so
// this package stays usable from any caller that only has a string.
type Kind string

// Metrics holds the registry and vectors registered in it.
type Metrics struct {
	registry *prometheus.Registry

	parseLatency    *prometheus.HistogramVec
	parseFailures   *prometheus.CounterVec
	parseSuccesses  *prometheus.CounterVec
	encodeSuccesses *prometheus.CounterVec
	buildInfo       *prometheus.GaugeVec
}

// New creates a Metrics object and registers its vectors in registry. If
// registry is nil, prometheus.DefaultRegisterer is used.
func New(registry *prometheus.Registry, appVersion, buildTimeStamp string) *Metrics {
	out := &Metrics{registry: registry}

	var registerer prometheus.Registerer = out.registry
	if out.registry == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registerer)

	out.parseLatency = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "derinspect",
			Name:      "parse_duration_seconds",
			Help:      "Time spent parsing one top-level structure, partitioned by type.",
		},
		[]string{"type"},
	)

	out.parseFailures = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "derinspect",
			Name:      "parse_failures_total",
			Help:      "How many parse attempts failed, partitioned by type and der.Kind.",
		},
		[]string{"type", "kind"},
	)

	out.parseSuccesses = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "derinspect",
			Name:      "parse_successes_total",
			Help:      "How many parse attempts succeeded, partitioned by type.",
		},
		[]string{"type"},
	)

	out.encodeSuccesses = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "derinspect",
			Name:      "encode_successes_total",
			Help:      "How many Encode() calls succeeded, partitioned by type.",
		},
		[]string{"type"},
	)

	out.buildInfo = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "derinspect",
			Name:      "build_info",
			Help:      "Indicates build info of the current running tool.",
		},
		[]string{"version", "timestamp"},
	)
	out.buildInfo.WithLabelValues(appVersion, buildTimeStamp).Add(1)

	return out
}

// ParseTimer starts a latency observation for parsing a value of the named
// type. Call the returned function once parsing completes.
func (m *Metrics) ParseTimer(typeName string) func() {
	if m == nil || m.parseLatency == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		m.parseLatency.WithLabelValues(typeName).Observe(time.Since(start).Seconds())
	}
}

// ParseSuccess increments the success counter for the named type.
func (m *Metrics) ParseSuccess(typeName string) {
	if m == nil || m.parseSuccesses == nil {
		return
	}
	m.parseSuccesses.WithLabelValues(typeName).Inc()
}

// ParseFailure increments the failure counter for the named type and kind.
func (m *Metrics) ParseFailure(typeName string, kind Kind) {
	if m == nil || m.parseFailures == nil {
		return
	}
	m.parseFailures.WithLabelValues(typeName, string(kind)).Inc()
}

// EncodeSuccess increments the encode-success counter for the named type.
func (m *Metrics) EncodeSuccess(typeName string) {
	if m == nil || m.encodeSuccesses == nil {
		return
	}
	m.encodeSuccesses.WithLabelValues(typeName).Inc()
}

// Handler returns the HTTP handler serving the registered metrics.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		panic(errors.New("metrics object not created"))
	}
	registerer := prometheus.DefaultRegisterer
	gatherer := prometheus.DefaultGatherer
	if m.registry != nil {
		registerer = m.registry
		gatherer = m.registry
	}
	return promhttp.InstrumentMetricHandler(registerer, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}

// ListenAndServe starts an HTTP server exposing /metrics at address, exactly
// as metrics.go's startMetricsServer does. stopFunc must be called with a
// shutdown timeout to stop the server cleanly; failureChannel surfaces any
// ListenAndServe error.
func ListenAndServe(address string, m *Metrics) (stopFunc func(time.Duration), failureChannel <-chan error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{
		Addr:         address,
		Handler:      mux,
		TLSNextProto: make(map[string]func(*http.Server, *tls.Conn, http.Handler)),
	}

	stopFunc = func(shutdownTimeout time.Duration) {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		done := make(chan struct{})
		go func() {
			_ = srv.Shutdown(shutdownCtx) //nolint:errcheck
			close(done)
		}()
		<-done
	}

	resultCh := make(chan error, 1)
	startedCh := make(chan struct{})
	go func() {
		close(startedCh)
		if err := srv.ListenAndServe(); err != nil {
			select {
			case resultCh <- err:
			default:
			}
		}
		close(resultCh)
	}()
	<-startedCh

	return stopFunc, resultCh
}
