// Package metrics records per-service forwarding statistics. The Collector
// keeps an in-memory view for the performance endpoints; PromSink exports the
// same events to Prometheus.
package metrics

// Sink receives forwarding outcomes. Implementations must be safe for
// concurrent use and must not block.
type Sink interface {
	// RecordRequest records an upstream exchange that produced a response
	RecordRequest(service string, latencyMs int64, bytes int64)
	// RecordError records an exchange that failed at the transport level
	RecordError(service string)
}

type multiSink []Sink

// Multi fans every event out to each non-nil sink
func Multi(sinks ...Sink) Sink {
	out := make(multiSink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (m multiSink) RecordRequest(service string, latencyMs int64, bytes int64) {
	for _, s := range m {
		s.RecordRequest(service, latencyMs, bytes)
	}
}

func (m multiSink) RecordError(service string) {
	for _, s := range m {
		s.RecordError(service)
	}
}

// Discard is a Sink that drops everything
var Discard Sink = discard{}

type discard struct{}

func (discard) RecordRequest(string, int64, int64) {}
func (discard) RecordError(string)                  {}
