// Package handlers exposes the gateway over HTTP: the execution routes that
// forward to whitelisted services, the performance and health endpoints, and
// route administration.
package handlers

import (
	"time"

	"service-gateway/internal/circuitbreaker"
	"service-gateway/internal/forwarder"
	"service-gateway/internal/metrics"
	"service-gateway/internal/routesource"
	"service-gateway/internal/routing"
)

const (
	// ExecutionPrefix is the path prefix of forwarded requests
	ExecutionPrefix = "/api/execution"
	// StreamPrefix is the path prefix of streamed downloads
	StreamPrefix = ExecutionPrefix + "/stream"
	// UploadPrefix is the path prefix of multipart uploads
	UploadPrefix = ExecutionPrefix + "/upload"
	// AsyncPrefix is the path prefix of requests run on the worker pool
	AsyncPrefix = ExecutionPrefix + "/async"

	maxUploadMemory = 32 << 20
	maxAsyncBody    = 10 << 20
)

// Handlers holds the components the HTTP surface reads from
type Handlers struct {
	forwarder    *forwarder.Forwarder
	async        *forwarder.AsyncForwarder
	resolver     *routing.Resolver
	breakers     *circuitbreaker.Registry
	collector    *metrics.Collector
	reloader     *routesource.Reloader
	asyncTimeout time.Duration
}

// Deps lists the components handlers need. Async and Reloader may be nil;
// their routes then answer 503.
type Deps struct {
	Forwarder    *forwarder.Forwarder
	Async        *forwarder.AsyncForwarder
	Resolver     *routing.Resolver
	Breakers     *circuitbreaker.Registry
	Collector    *metrics.Collector
	Reloader     *routesource.Reloader
	AsyncTimeout time.Duration
}

// New creates the handler set
func New(d Deps) *Handlers {
	if d.AsyncTimeout <= 0 {
		d.AsyncTimeout = 30 * time.Second
	}
	return &Handlers{
		forwarder:    d.Forwarder,
		async:        d.Async,
		resolver:     d.Resolver,
		breakers:     d.Breakers,
		collector:    d.Collector,
		reloader:     d.Reloader,
		asyncTimeout: d.AsyncTimeout,
	}
}
