package app

import (
	httpclient "service-gateway/internal/common/http"
	"service-gateway/internal/common/logging"
	"service-gateway/internal/forwarder"
	"service-gateway/internal/metrics"
)

func (app *App) initializeForwarding() {
	client := httpclient.NewClient(
		httpclient.WithTimeout(app.Config.RequestTimeout),
		httpclient.WithMaxIdleConns(app.Config.MaxTotalConnections),
		httpclient.WithMaxConnsPerHost(app.Config.MaxConnectionsPerRoute),
		httpclient.WithIdleConnTimeout(app.Config.IdleConnTimeout),
	)

	app.Forwarder = forwarder.New(app.Resolver, app.Breakers, client, metrics.Multi(app.Collector, app.Prometheus))
	app.Async = forwarder.NewAsyncForwarder(app.Forwarder, forwarder.AsyncConfig{
		CoreWorkers:   app.Config.CorePoolSize,
		MaxWorkers:    app.Config.MaxPoolSize,
		QueueCapacity: app.Config.QueueCapacity,
		KeepAlive:     app.Config.KeepAlive,
	})

	app.Logger.Info("Forwarding initialized",
		logging.Field{"request_timeout", app.Config.RequestTimeout.String()},
		logging.Field{"max_connections", app.Config.MaxTotalConnections},
		logging.Field{"max_connections_per_route", app.Config.MaxConnectionsPerRoute},
		logging.Field{"core_workers", app.Config.CorePoolSize},
		logging.Field{"max_workers", app.Config.MaxPoolSize},
	)
}
