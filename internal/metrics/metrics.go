// Package metrics exposes Prometheus instrumentation for orientation
// evaluations and the HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "boxpacker"

// Evaluation outcomes.
const (
	OutcomeSuccess          = "success"
	OutcomeInvalidDimension = "invalid_dimension"
	OutcomeDomainError      = "domain_error"
	OutcomeError            = "error"
)

// Recorder owns a private registry so several instances can coexist in tests.
type Recorder struct {
	registry *prometheus.Registry

	evaluationsTotal    *prometheus.CounterVec
	orientationsChosen  *prometheus.CounterVec
	packableUnits       prometheus.Histogram
	evaluationDuration  prometheus.Histogram
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// New creates a Recorder with process and Go runtime collectors registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		evaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "evaluations_total",
				Help:      "Total number of orientation evaluations by outcome",
			},
			[]string{"outcome"},
		),
		orientationsChosen: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "orientations_selected_total",
				Help:      "Number of times each orientation won an evaluation",
			},
			[]string{"orientation"},
		),
		packableUnits: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "packable_units",
				Help:      "Units packable with the winning orientation",
				Buckets:   []float64{0, 1, 10, 100, 1000, 10000, 100000, 1000000},
			},
		),
		evaluationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "evaluation_duration_seconds",
				Help:      "Orientation search latency in seconds",
				Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01},
			},
		),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"method", "route"},
		),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.evaluationsTotal,
		r.orientationsChosen,
		r.packableUnits,
		r.evaluationDuration,
		r.httpRequestsTotal,
		r.httpRequestDuration,
	)

	return r
}

// ObserveEvaluation records a successful search.
func (r *Recorder) ObserveEvaluation(orientation string, units int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.evaluationsTotal.WithLabelValues(OutcomeSuccess).Inc()
	r.orientationsChosen.WithLabelValues(orientation).Inc()
	r.packableUnits.Observe(float64(units))
	r.evaluationDuration.Observe(elapsed.Seconds())
}

// ObserveFailure records a rejected evaluation.
func (r *Recorder) ObserveFailure(outcome string) {
	if r == nil {
		return
	}
	r.evaluationsTotal.WithLabelValues(outcome).Inc()
}

// ObserveRequest records one completed HTTP request.
func (r *Recorder) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
