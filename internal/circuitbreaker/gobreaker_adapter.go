package circuitbreaker

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"service-gateway/internal/common/errors"
	"service-gateway/internal/common/logging"
)

// GuardConfig configures a Guard
type GuardConfig struct {
	// MaxFailures is the number of consecutive failures that opens the guard
	MaxFailures int
	// Timeout is how long the guard stays open before a trial call
	Timeout time.Duration
	// MaxHalfOpenRequests is the number of trial calls allowed while half-open
	MaxHalfOpenRequests int
}

// SourceGuardConfig suits route sources polled or reloaded on demand
var SourceGuardConfig = GuardConfig{
	MaxFailures:         3,
	Timeout:             30 * time.Second,
	MaxHalfOpenRequests: 1,
}

// Validate checks if the configuration is valid
func (c GuardConfig) Validate() error {
	if c.MaxFailures <= 0 {
		return fmt.Errorf("MaxFailures must be positive, got %d", c.MaxFailures)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("Timeout must be positive, got %v", c.Timeout)
	}
	if c.MaxHalfOpenRequests <= 0 {
		return fmt.Errorf("MaxHalfOpenRequests must be positive, got %d", c.MaxHalfOpenRequests)
	}
	return nil
}

// Guard wraps Sony's gobreaker around calls the gateway makes to its own
// dependencies, such as fetching route documents from Redis. Upstream
// services are tracked by Registry instead.
type Guard struct {
	name    string
	breaker *gobreaker.CircuitBreaker
	logger  logging.Logger
}

// NewGuard creates a gobreaker-backed guard
func NewGuard(name string, config GuardConfig, logger logging.Logger) *Guard {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	if err := config.Validate(); err != nil {
		logger.Warn("Invalid guard config, using defaults",
			logging.Field{"error", err.Error()},
			logging.Field{"name", name},
		)
		config = SourceGuardConfig
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: uint32(config.MaxHalfOpenRequests),
		Interval:    time.Minute,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(config.MaxFailures)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("Guard state changed",
				logging.Field{"guard", name},
				logging.Field{"from", from.String()},
				logging.Field{"to", to.String()},
			)
		},
		IsSuccessful: func(err error) bool {
			// the dependency answered; the content was the problem
			return err == nil ||
				errors.IsType(err, errors.ErrTypeValidation) ||
				errors.IsType(err, errors.ErrTypeConfig) ||
				errors.IsType(err, errors.ErrTypeNotFound)
		},
	}

	return &Guard{
		name:    name,
		breaker: gobreaker.NewCircuitBreaker(settings),
		logger:  logger,
	}
}

// Execute runs fn unless the guard is open
func (g *Guard) Execute(ctx context.Context, fn func(context.Context) error) error {
	_, err := g.breaker.Execute(func() (interface{}, error) {
		return nil, fn(ctx)
	})

	if stderrors.Is(err, gobreaker.ErrOpenState) || stderrors.Is(err, gobreaker.ErrTooManyRequests) {
		return errors.ConnectionError(fmt.Sprintf("guard '%s' is open", g.name), err)
	}
	return err
}

// State returns the current state of the guard
func (g *Guard) State() State {
	switch g.breaker.State() {
	case gobreaker.StateOpen:
		return StateOpen
	case gobreaker.StateHalfOpen:
		return StateHalfOpen
	default:
		return StateClosed
	}
}

// Stats returns current counts in the registry's JSON shape
func (g *Guard) Stats() Stats {
	counts := g.breaker.Counts()
	return Stats{
		Name:         g.name,
		State:        g.State(),
		FailureCount: int(counts.ConsecutiveFailures),
		SuccessCount: int(counts.ConsecutiveSuccesses),
	}
}
