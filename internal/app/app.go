package app

import (
	"context"

	"service-gateway/internal/circuitbreaker"
	"service-gateway/internal/common/logging"
	"service-gateway/internal/config"
	"service-gateway/internal/forwarder"
	"service-gateway/internal/metrics"
	"service-gateway/internal/redis"
	"service-gateway/internal/routesource"
	"service-gateway/internal/routing"
)

// App holds all the application dependencies
type App struct {
	Config      *config.Config
	RedisClient *redis.Client
	Store       *routing.Store
	Resolver    *routing.Resolver
	Breakers    *circuitbreaker.Registry
	Collector   *metrics.Collector
	Prometheus  *metrics.PromSink
	Reloader    *routesource.Reloader
	Forwarder   *forwarder.Forwarder
	Async       *forwarder.AsyncForwarder
	Logger      logging.Logger
}

// New creates a new application instance with all dependencies and loads
// the initial route table
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logging.GetGlobalLogger().WithFields(logging.Field{"component", "app"}),
	}

	// Initialize components in order of dependency
	if err := app.initializeRedis(ctx); err != nil {
		return nil, err
	}

	app.initializeMetrics()
	app.initializeRouting()

	if err := app.initializeRouteSource(ctx); err != nil {
		app.Cleanup()
		return nil, err
	}

	app.initializeForwarding()

	return app, nil
}

func (app *App) initializeMetrics() {
	app.Collector = metrics.NewCollector()
	app.Prometheus = metrics.NewPromSink()
}

// initializeRouting builds the route store, resolver and breaker registry and
// keeps breakers and per-service series in step with the route table
func (app *App) initializeRouting() {
	app.Store = routing.NewStore(nil)
	app.Resolver = routing.NewResolver(app.Store, routing.ResolverOptions{
		CacheTTL:     app.Config.CacheTTL,
		CacheMaxSize: app.Config.CacheMaxSize,
	})

	app.Breakers = circuitbreaker.NewRegistry(circuitbreaker.Config{
		Enabled:          app.Config.CircuitBreakerEnabled,
		FailureThreshold: app.Config.CircuitBreakerFailureThreshold,
		OpenTimeout:      app.Config.CircuitBreakerTimeout,
		SuccessThreshold: app.Config.CircuitBreakerSuccessThreshold,
		MaxBreakers:      app.Config.CircuitBreakerMaxBreakers,
	}, circuitbreaker.WithTransitionListener(func(service string, _, to circuitbreaker.State) {
		app.Prometheus.SetBreakerState(service, int(to))
	}))

	app.Store.OnSwap(func(old, current *routing.Table) {
		app.Breakers.Prune(current.ServiceNames())
		for _, name := range removedServices(old, current) {
			app.Prometheus.ForgetService(name)
		}
	})

	app.Logger.Info("Routing initialized",
		logging.Field{"cache_ttl", app.Config.CacheTTL.String()},
		logging.Field{"cache_max_size", app.Config.CacheMaxSize},
		logging.Field{"circuit_breaker_enabled", app.Config.CircuitBreakerEnabled},
	)
}

// removedServices lists services present in old but not in current
func removedServices(old, current *routing.Table) []string {
	if old == nil {
		return nil
	}
	var removed []string
	for _, name := range old.ServiceNames() {
		if _, ok := current.Entry(name); !ok {
			removed = append(removed, name)
		}
	}
	return removed
}

// Shutdown stops background reloads and drains the worker pool
func (app *App) Shutdown(ctx context.Context) error {
	if app.Reloader != nil {
		app.Reloader.StopSchedule(ctx)
	}

	if app.Async != nil {
		if err := app.Async.Shutdown(ctx); err != nil {
			return err
		}
		app.Logger.Info("Async worker pool stopped")
	}
	return nil
}

// Cleanup releases all resources
func (app *App) Cleanup() {
	if app.RedisClient != nil {
		if err := app.RedisClient.Close(); err != nil {
			app.Logger.Warn("Error closing Redis client", logging.Field{"error", err.Error()})
		}
		app.RedisClient = nil
	}
}
