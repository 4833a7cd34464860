package forwarder

import (
	"net/http"
	"time"

	"service-gateway/internal/common/errors"
)

// Decision is how Forward disposed of a request
type Decision int

const (
	// Denied means the whitelist rejected the service/path pair
	Denied Decision = iota
	// NotConfigured means no route entry exists for the service
	NotConfigured
	// CircuitOpen means the service's breaker rejected the call
	CircuitOpen
	// Forwarded means an upstream exchange was attempted
	Forwarded
	// Expired means a queued request's context ended before a worker took it
	Expired
	// Canceled means the caller went away before the upstream answered
	Canceled
)

func (d Decision) String() string {
	switch d {
	case Denied:
		return "denied"
	case NotConfigured:
		return "not_configured"
	case CircuitOpen:
		return "circuit_open"
	case Forwarded:
		return "forwarded"
	case Expired:
		return "expired"
	case Canceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Outcome is the result of one Forward call. Err is set for every decision
// except a Forwarded exchange that produced an upstream response.
type Outcome struct {
	Decision       Decision
	Service        string
	TargetURL      string
	UpstreamStatus int
	Headers        http.Header
	Body           []byte
	BytesWritten   int64
	Latency        time.Duration
	Err            error
}

// StatusCode is the status returned to the inbound caller. Upstream statuses
// pass through unchanged.
func (o *Outcome) StatusCode() int {
	switch o.Decision {
	case Denied:
		return http.StatusForbidden
	case NotConfigured:
		return http.StatusBadRequest
	case CircuitOpen:
		return http.StatusServiceUnavailable
	case Canceled:
		return errors.StatusClientClosedRequest
	}
	if o.Err != nil {
		return errors.HTTPStatus(o.Err)
	}
	return o.UpstreamStatus
}

// Succeeded reports whether an upstream response was received
func (o *Outcome) Succeeded() bool {
	return o.Decision == Forwarded && o.Err == nil
}
