package circuitbreaker

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"service-gateway/internal/common/logging"
)

// TransitionListener observes breaker state changes. Listeners run
// synchronously after the change is published and must not block.
type TransitionListener func(service string, from, to State)

// Stats is the JSON view of one breaker
type Stats struct {
	Name             string     `json:"name"`
	State            State      `json:"state"`
	FailureCount     int        `json:"failure_count"`
	SuccessCount     int        `json:"success_count"`
	FailureThreshold int        `json:"failure_threshold"`
	SuccessThreshold int        `json:"success_threshold"`
	OpenTimeoutMs    int64      `json:"open_timeout_ms"`
	OpenedAt         *time.Time `json:"opened_at,omitempty"`
	LastFailure      *time.Time `json:"last_failure,omitempty"`
}

// Option configures a Registry
type Option func(*Registry)

// WithClock replaces time.Now, mainly for tests
func WithClock(clock Clock) Option {
	return func(r *Registry) { r.clock = clock }
}

// WithLogger sets the registry logger
func WithLogger(logger logging.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// WithTransitionListener registers a listener for state changes
func WithTransitionListener(fn TransitionListener) Option {
	return func(r *Registry) { r.listeners = append(r.listeners, fn) }
}

// Registry owns one breaker per service name. Breakers are created lazily by
// AllowRequest, RecordSuccess and RecordFailure; read-only queries never
// create state.
type Registry struct {
	config    Config
	clock     Clock
	logger    logging.Logger
	listeners []TransitionListener

	mu       sync.RWMutex
	breakers map[string]*breaker

	overflow atomic.Uint64
}

// NewRegistry creates a registry. An invalid config falls back to the
// defaults, keeping the Enabled flag and MaxBreakers bound the caller asked for.
func NewRegistry(config Config, opts ...Option) *Registry {
	r := &Registry{
		config:   config,
		clock:    time.Now,
		breakers: make(map[string]*breaker),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logging.GetGlobalLogger().WithFields(logging.Field{"component", "circuit_breaker"})
	}

	if err := config.Validate(); err != nil {
		r.logger.Warn("Invalid circuit breaker config, using defaults", logging.Err(err))
		fallback := DefaultConfig()
		fallback.Enabled = config.Enabled
		if config.MaxBreakers >= 0 {
			fallback.MaxBreakers = config.MaxBreakers
		}
		r.config = fallback
	}
	return r
}

// Config returns the thresholds in effect
func (r *Registry) Config() Config {
	return r.config
}

// AllowRequest reports whether a call to service may proceed. An OPEN
// breaker whose timeout has elapsed moves to HALF_OPEN and lets this call
// through; every call in HALF_OPEN is allowed.
func (r *Registry) AllowRequest(service string) bool {
	if !r.config.Enabled {
		return true
	}
	b := r.getOrCreate(service)
	if b == nil {
		return true
	}
	allowed, tr := b.allow(r.config, r.clock())
	r.notify(service, tr)
	return allowed
}

// RecordSuccess records a completed upstream exchange
func (r *Registry) RecordSuccess(service string) {
	if !r.config.Enabled {
		return
	}
	if b := r.getOrCreate(service); b != nil {
		r.notify(service, b.success(r.config))
	}
}

// RecordFailure records a transport failure
func (r *Registry) RecordFailure(service string) {
	if !r.config.Enabled {
		return
	}
	if b := r.getOrCreate(service); b != nil {
		r.notify(service, b.failure(r.config, r.clock()))
	}
}

// State returns the breaker state, CLOSED for services never seen
func (r *Registry) State(service string) State {
	if b := r.get(service); b != nil {
		return b.load().State
	}
	return StateClosed
}

// Snapshot returns the current snapshot of a tracked service
func (r *Registry) Snapshot(service string) (Snapshot, bool) {
	if b := r.get(service); b != nil {
		return b.load(), true
	}
	return Snapshot{}, false
}

// ServiceStats returns stats for a tracked service
func (r *Registry) ServiceStats(service string) (Stats, bool) {
	b := r.get(service)
	if b == nil {
		return Stats{}, false
	}
	return r.stats(b), true
}

// Stats returns stats for every tracked service, sorted by name
func (r *Registry) Stats() []Stats {
	r.mu.RLock()
	list := make([]*breaker, 0, len(r.breakers))
	for _, b := range r.breakers {
		list = append(list, b)
	}
	r.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool { return list[i].name < list[j].name })

	out := make([]Stats, len(list))
	for i, b := range list {
		out[i] = r.stats(b)
	}
	return out
}

// Len returns the number of tracked services
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.breakers)
}

// Overflow returns how many lookups were refused a breaker because the
// registry was full
func (r *Registry) Overflow() uint64 {
	return r.overflow.Load()
}

// Reset forces a tracked breaker back to CLOSED
func (r *Registry) Reset(service string) bool {
	b := r.get(service)
	if b == nil {
		return false
	}
	r.notify(service, b.reset())
	r.logger.Info("Circuit breaker reset", logging.Field{"circuit_breaker", service})
	return true
}

// ResetAll forces every tracked breaker back to CLOSED
func (r *Registry) ResetAll() {
	for _, s := range r.Stats() {
		r.Reset(s.Name)
	}
}

// Prune drops breakers for services not in keep and returns how many were
// removed. It is called with the service names of each new route table.
func (r *Registry) Prune(keep []string) int {
	allowed := make(map[string]struct{}, len(keep))
	for _, name := range keep {
		allowed[name] = struct{}{}
	}

	r.mu.Lock()
	removed := 0
	for name := range r.breakers {
		if _, ok := allowed[name]; !ok {
			delete(r.breakers, name)
			removed++
		}
	}
	r.mu.Unlock()

	if removed > 0 {
		r.logger.Info("Pruned circuit breakers", logging.Int("removed", removed), logging.Int("kept", len(keep)))
	}
	return removed
}

func (r *Registry) get(service string) *breaker {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.breakers[service]
}

func (r *Registry) getOrCreate(service string) *breaker {
	if b := r.get(service); b != nil {
		return b
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if b, ok := r.breakers[service]; ok {
		return b
	}
	if r.config.MaxBreakers > 0 && len(r.breakers) >= r.config.MaxBreakers {
		if r.overflow.Add(1) == 1 {
			r.logger.Warn("Circuit breaker registry full, new services run unguarded",
				logging.Int("max_breakers", r.config.MaxBreakers),
				logging.String("service", service),
			)
		}
		return nil
	}

	b := newBreaker(service)
	r.breakers[service] = b
	return b
}

func (r *Registry) notify(service string, tr transition) {
	if !tr.changed() {
		return
	}

	fields := []logging.Field{
		{"circuit_breaker", service},
		{"from", tr.from.String()},
		{"to", tr.to.String()},
	}
	if tr.to == StateOpen {
		r.logger.Warn("Circuit breaker opened", fields...)
	} else {
		r.logger.Info("Circuit breaker state changed", fields...)
	}

	for _, fn := range r.listeners {
		fn(service, tr.from, tr.to)
	}
}

func (r *Registry) stats(b *breaker) Stats {
	snap := b.load()
	s := Stats{
		Name:             b.name,
		State:            snap.State,
		FailureCount:     snap.FailureCount,
		SuccessCount:     snap.SuccessCount,
		FailureThreshold: r.config.FailureThreshold,
		SuccessThreshold: r.config.SuccessThreshold,
		OpenTimeoutMs:    r.config.OpenTimeout.Milliseconds(),
	}
	if !snap.OpenedAt.IsZero() {
		t := snap.OpenedAt
		s.OpenedAt = &t
	}
	if !snap.LastFailure.IsZero() {
		t := snap.LastFailure
		s.LastFailure = &t
	}
	return s
}
