package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PromSink exports forwarding events and breaker states to Prometheus
type PromSink struct {
	registry *prometheus.Registry

	requests     *prometheus.CounterVec
	errors       *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	bytes        *prometheus.CounterVec
	breakerState *prometheus.GaugeVec
	routeReloads *prometheus.CounterVec
	routeGen     prometheus.Gauge
}

// NewPromSink creates a sink on its own registry, including the Go runtime
// and process collectors
func NewPromSink() *PromSink {
	s := &PromSink{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_upstream_requests_total",
				Help: "Upstream exchanges that returned a response, by service",
			},
			[]string{"service"},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_upstream_errors_total",
				Help: "Upstream exchanges that failed at the transport level, by service",
			},
			[]string{"service"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gateway_upstream_latency_seconds",
				Help:    "Upstream exchange latency, by service",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service"},
		),
		bytes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_upstream_response_bytes_total",
				Help: "Bytes received from upstream responses, by service",
			},
			[]string{"service"},
		),
		breakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "gateway_circuit_breaker_state",
				Help: "Circuit breaker state by service (0 closed, 1 open, 2 half-open)",
			},
			[]string{"service"},
		),
		routeReloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_route_reloads_total",
				Help: "Route table reload attempts, by source and result",
			},
			[]string{"source", "result"},
		),
		routeGen: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "gateway_route_table_generation",
				Help: "Generation of the route table currently served",
			},
		),
	}

	s.registry.MustRegister(
		s.requests,
		s.errors,
		s.latency,
		s.bytes,
		s.breakerState,
		s.routeReloads,
		s.routeGen,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return s
}

// RecordRequest implements Sink
func (s *PromSink) RecordRequest(service string, latencyMs int64, bytes int64) {
	s.requests.WithLabelValues(service).Inc()
	s.latency.WithLabelValues(service).Observe(float64(latencyMs) / 1000)
	if bytes > 0 {
		s.bytes.WithLabelValues(service).Add(float64(bytes))
	}
}

// RecordError implements Sink
func (s *PromSink) RecordError(service string) {
	s.errors.WithLabelValues(service).Inc()
}

// SetBreakerState records a breaker state as its numeric value
func (s *PromSink) SetBreakerState(service string, state int) {
	s.breakerState.WithLabelValues(service).Set(float64(state))
}

// ForgetService drops per-service series for a service no longer routed
func (s *PromSink) ForgetService(service string) {
	s.breakerState.DeleteLabelValues(service)
}

// RecordReload counts a route reload attempt
func (s *PromSink) RecordReload(source string, generation uint64, err error) {
	if err != nil {
		s.routeReloads.WithLabelValues(source, "error").Inc()
		return
	}
	s.routeReloads.WithLabelValues(source, "success").Inc()
	s.routeGen.Set(float64(generation))
}

// Registry returns the underlying registry
func (s *PromSink) Registry() *prometheus.Registry {
	return s.registry
}

// Handler serves the registry in the Prometheus exposition format
func (s *PromSink) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
}
