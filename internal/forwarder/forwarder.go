// Package forwarder ties route resolution, circuit breaking and the outbound
// HTTP call together. Forward never returns an error: every failure is
// reported through the Outcome.
package forwarder

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"service-gateway/internal/common/errors"
	httpclient "service-gateway/internal/common/http"
	"service-gateway/internal/common/logging"
	"service-gateway/internal/metrics"
)

// Resolver authorizes and locates service paths
type Resolver interface {
	Authorize(service, path string) bool
	Locate(service, path string) (string, bool)
}

// Breaker gates calls per service
type Breaker interface {
	AllowRequest(service string) bool
	RecordSuccess(service string)
	RecordFailure(service string)
}

// Request is an inbound call to be forwarded
type Request struct {
	Service string
	Path    string
	Method  string
	Query   []QueryParam
	Headers http.Header
	Body    io.Reader

	// ContentLength is the body size when known. Zero or less means unknown
	// and the body is sent chunked.
	ContentLength int64
}

// Forwarder forwards requests to whitelisted upstreams
type Forwarder struct {
	resolver Resolver
	breakers Breaker
	executor httpclient.Executor
	sink     metrics.Sink
	logger   logging.Logger
	now      func() time.Time
}

// New creates a forwarder. A nil sink discards metrics.
func New(resolver Resolver, breakers Breaker, executor httpclient.Executor, sink metrics.Sink) *Forwarder {
	if sink == nil {
		sink = metrics.Discard
	}
	return &Forwarder{
		resolver: resolver,
		breakers: breakers,
		executor: executor,
		sink:     sink,
		logger:   logging.GetGlobalLogger().WithFields(logging.String("component", "forwarder")),
		now:      time.Now,
	}
}

// Forward authorizes, locates and executes req. Breaker state is read before
// the outbound call and written after it; no lock is held across the call.
func (f *Forwarder) Forward(ctx context.Context, req *Request) *Outcome {
	outcome, target := f.admit(req)
	if outcome != nil {
		return outcome
	}

	start := f.now()
	resp, err := f.executor.Execute(ctx, req.Method, target, req.Headers, httpclient.SizedBody(req.Body, req.ContentLength))
	latency := f.now().Sub(start)

	if err != nil {
		return f.failed(ctx, req, target, latency, err)
	}

	f.breakers.RecordSuccess(req.Service)
	f.sink.RecordRequest(req.Service, latency.Milliseconds(), int64(len(resp.Body)))

	return &Outcome{
		Decision:       Forwarded,
		Service:        req.Service,
		TargetURL:      target,
		UpstreamStatus: resp.StatusCode,
		Headers:        resp.Headers,
		Body:           resp.Body,
		BytesWritten:   int64(len(resp.Body)),
		Latency:        latency,
	}
}

// ForwardStream is Forward for large downloads: the upstream body is copied
// to w as it arrives instead of being buffered. When the executor cannot
// stream it falls back to Forward and writes the buffered body.
//
// Nothing has been written to w when the outcome has an error and no
// UpstreamStatus.
func (f *Forwarder) ForwardStream(ctx context.Context, req *Request, w http.ResponseWriter) *Outcome {
	streamer, ok := f.executor.(httpclient.Streamer)
	if !ok {
		outcome := f.Forward(ctx, req)
		if outcome.Succeeded() {
			httpclient.CopyHeaders(w.Header(), outcome.Headers)
			w.WriteHeader(outcome.UpstreamStatus)
			_, _ = w.Write(outcome.Body)
		}
		return outcome
	}

	outcome, target := f.admit(req)
	if outcome != nil {
		return outcome
	}

	start := f.now()
	resp, err := streamer.Stream(ctx, req.Method, target, req.Headers, httpclient.SizedBody(req.Body, req.ContentLength))
	if err != nil {
		return f.failed(ctx, req, target, f.now().Sub(start), err)
	}
	defer resp.Body.Close()

	httpclient.CopyHeaders(w.Header(), resp.Headers)
	w.WriteHeader(resp.StatusCode)

	src := &trackingReader{r: resp.Body}
	n, copyErr := io.Copy(w, src)
	latency := f.now().Sub(start)

	if src.err != nil {
		// headers are already on the wire; the caller sees a truncated body
		outcome := f.failed(ctx, req, target, latency, errors.TransportError("upstream stream interrupted", src.err, false))
		outcome.UpstreamStatus = resp.StatusCode
		outcome.Headers = resp.Headers
		outcome.BytesWritten = n
		return outcome
	}

	f.breakers.RecordSuccess(req.Service)
	f.sink.RecordRequest(req.Service, latency.Milliseconds(), n)

	if copyErr != nil {
		f.logger.WithContext(ctx).Debug("Client went away during stream",
			logging.String("service", req.Service),
			logging.Err(copyErr),
		)
	}

	return &Outcome{
		Decision:       Forwarded,
		Service:        req.Service,
		TargetURL:      target,
		UpstreamStatus: resp.StatusCode,
		Headers:        resp.Headers,
		BytesWritten:   n,
		Latency:        latency,
	}
}

// admit runs the fail-fast checks. It returns a terminal outcome, or nil and
// the final target URL when the call may proceed.
func (f *Forwarder) admit(req *Request) (*Outcome, string) {
	if !f.resolver.Authorize(req.Service, req.Path) {
		return &Outcome{
			Decision: Denied,
			Service:  req.Service,
			Err:      errors.RouteDeniedError(req.Service, req.Path),
		}, ""
	}

	target, ok := f.resolver.Locate(req.Service, req.Path)
	if !ok {
		return &Outcome{
			Decision: NotConfigured,
			Service:  req.Service,
			Err:      errors.RouteNotConfiguredError(req.Service),
		}, ""
	}

	target = BuildURL(target, req.Query)

	if !f.breakers.AllowRequest(req.Service) {
		return &Outcome{
			Decision:  CircuitOpen,
			Service:   req.Service,
			TargetURL: target,
			Err:       errors.CircuitOpenError(req.Service),
		}, ""
	}

	return nil, target
}

// failed records a transport failure against the service. A failure caused by
// the caller cancelling ctx says nothing about the upstream and is reported
// as Canceled without touching the breaker or the error counters.
func (f *Forwarder) failed(ctx context.Context, req *Request, target string, latency time.Duration, err error) *Outcome {
	if ctx.Err() != nil && stderrors.Is(err, context.Canceled) {
		f.logger.WithContext(ctx).Debug("Caller cancelled forward",
			logging.String("service", req.Service),
			logging.String("target", target),
			logging.Err(err),
		)
		return &Outcome{
			Decision:  Canceled,
			Service:   req.Service,
			TargetURL: target,
			Latency:   latency,
			Err:       errors.CanceledError("forward", err),
		}
	}

	if !errors.IsType(err, errors.ErrTypeTransport) {
		err = errors.TransportError("upstream request failed", err, httpclient.IsUnavailable(err))
	}

	f.breakers.RecordFailure(req.Service)
	f.sink.RecordError(req.Service)

	f.logger.WithContext(ctx).Warn("Upstream transport failure",
		logging.String("service", req.Service),
		logging.String("method", req.Method),
		logging.String("target", target),
		logging.Int64("latency_ms", latency.Milliseconds()),
		logging.Err(err),
	)

	return &Outcome{
		Decision:  Forwarded,
		Service:   req.Service,
		TargetURL: target,
		Latency:   latency,
		Err:       err,
	}
}

// trackingReader remembers the first read error that is not io.EOF, so a
// failed upstream read can be told apart from a failed client write
type trackingReader struct {
	r   io.Reader
	err error
}

func (t *trackingReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if err != nil && err != io.EOF && t.err == nil {
		t.err = err
	}
	return n, err
}
