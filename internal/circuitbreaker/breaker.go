// Package circuitbreaker provides the per-service circuit breakers that gate
// outbound gateway calls, plus a gobreaker-backed guard for the gateway's own
// dependencies.
package circuitbreaker

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"
)

// State represents the current state of the circuit breaker
type State int32

const (
	// StateClosed means the circuit breaker is closed and allowing requests through
	StateClosed State = iota
	// StateOpen means the circuit breaker is open and rejecting requests
	StateOpen
	// StateHalfOpen means the circuit breaker is letting probes through to test recovery
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// MarshalJSON encodes the state by name
func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Config holds the thresholds shared by every breaker in a registry
type Config struct {
	// Enabled turns breaker bookkeeping on; when false every request is allowed
	Enabled bool
	// FailureThreshold is the number of consecutive transport failures that opens the circuit
	FailureThreshold int
	// OpenTimeout is how long the circuit stays open before a probe is allowed
	OpenTimeout time.Duration
	// SuccessThreshold is the number of half-open successes needed to close the circuit
	SuccessThreshold int
	// MaxBreakers bounds the number of tracked services; 0 means unbounded
	MaxBreakers int
}

// DefaultConfig returns the gateway defaults: 5 failures, 60s open, 3 successes
func DefaultConfig() Config {
	return Config{
		Enabled:          true,
		FailureThreshold: 5,
		OpenTimeout:      60 * time.Second,
		SuccessThreshold: 3,
		MaxBreakers:      10000,
	}
}

// Validate checks if the configuration is valid
func (c Config) Validate() error {
	if c.FailureThreshold <= 0 {
		return fmt.Errorf("FailureThreshold must be positive, got %d", c.FailureThreshold)
	}
	if c.OpenTimeout <= 0 {
		return fmt.Errorf("OpenTimeout must be positive, got %v", c.OpenTimeout)
	}
	if c.SuccessThreshold <= 0 {
		return fmt.Errorf("SuccessThreshold must be positive, got %d", c.SuccessThreshold)
	}
	if c.MaxBreakers < 0 {
		return fmt.Errorf("MaxBreakers must be non-negative, got %d", c.MaxBreakers)
	}
	return nil
}

// Snapshot is one immutable observation of a breaker. A breaker never
// mutates a published snapshot; each change publishes a new one.
type Snapshot struct {
	State        State
	FailureCount int
	SuccessCount int
	OpenedAt     time.Time
	LastFailure  time.Time
}

// Clock returns the current time
type Clock func() time.Time

// transition records a state change produced by a successful swap
type transition struct {
	from, to State
}

func (t transition) changed() bool { return t.from != t.to }

// breaker is the CAS state machine of a single service
type breaker struct {
	name  string
	state atomic.Pointer[Snapshot]
}

func newBreaker(name string) *breaker {
	b := &breaker{name: name}
	b.state.Store(&Snapshot{State: StateClosed})
	return b
}

func (b *breaker) load() Snapshot {
	return *b.state.Load()
}

// update applies next to the current snapshot until a compare-and-swap
// succeeds. next returns false when nothing needs to change.
func (b *breaker) update(next func(Snapshot) (Snapshot, bool)) (Snapshot, transition) {
	for {
		cur := b.state.Load()
		proposed, ok := next(*cur)
		if !ok {
			return *cur, transition{cur.State, cur.State}
		}
		if b.state.CompareAndSwap(cur, &proposed) {
			return proposed, transition{cur.State, proposed.State}
		}
	}
}

func (b *breaker) allow(cfg Config, now time.Time) (bool, transition) {
	snap, tr := b.update(func(s Snapshot) (Snapshot, bool) {
		if s.State != StateOpen || now.Sub(s.OpenedAt) < cfg.OpenTimeout {
			return s, false
		}
		s.State = StateHalfOpen
		s.SuccessCount = 0
		return s, true
	})
	return snap.State != StateOpen, tr
}

func (b *breaker) success(cfg Config) transition {
	_, tr := b.update(func(s Snapshot) (Snapshot, bool) {
		switch s.State {
		case StateClosed:
			if s.FailureCount == 0 {
				return s, false
			}
			s.FailureCount = 0
			return s, true
		case StateHalfOpen:
			s.SuccessCount++
			if s.SuccessCount >= cfg.SuccessThreshold {
				s.State = StateClosed
				s.FailureCount = 0
				s.SuccessCount = 0
			}
			return s, true
		default:
			return s, false
		}
	})
	return tr
}

func (b *breaker) failure(cfg Config, now time.Time) transition {
	_, tr := b.update(func(s Snapshot) (Snapshot, bool) {
		s.LastFailure = now
		switch s.State {
		case StateClosed:
			s.FailureCount++
			if s.FailureCount >= cfg.FailureThreshold {
				s.State = StateOpen
				s.OpenedAt = now
				s.SuccessCount = 0
			}
		case StateHalfOpen:
			s.FailureCount++
			s.State = StateOpen
			s.OpenedAt = now
			s.SuccessCount = 0
		case StateOpen:
			s.FailureCount++
		}
		return s, true
	})
	return tr
}

func (b *breaker) reset() transition {
	_, tr := b.update(func(s Snapshot) (Snapshot, bool) {
		return Snapshot{State: StateClosed}, true
	})
	return tr
}
