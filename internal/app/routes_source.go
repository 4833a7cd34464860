package app

import (
	"context"

	"service-gateway/internal/common/logging"
	"service-gateway/internal/common/utils"
	"service-gateway/internal/routesource"
	"service-gateway/internal/routing"
)

// initializeRouteSource picks the route source, loads the first table and
// registers reload bookkeeping. Transient source failures are retried; a
// rejected document fails startup.
func (app *App) initializeRouteSource(ctx context.Context) error {
	var source routesource.Source
	if app.RedisClient != nil {
		source = routesource.NewRedisSource(app.RedisClient, app.Config.RoutesRedisKey, nil)
	} else {
		source = routesource.NewFileSource(app.Config.RoutesFile)
	}

	app.Reloader = routesource.NewReloader(source, app.Store, app.Config.RoutesLoadTimeout)
	app.Reloader.OnReload(func(name string, table *routing.Table, err error) {
		var generation uint64
		if table != nil {
			generation = table.Generation()
		}
		app.Prometheus.RecordReload(name, generation, err)
	})

	err := utils.RetryWithBackoff(ctx, utils.DefaultRetryConfig(), func(ctx context.Context) error {
		_, err := app.Reloader.Reload(ctx)
		return err
	})
	if err != nil {
		app.Logger.Error("Initial route load failed", err, logging.Field{"source", source.Name()})
		return err
	}

	table := app.Store.Current()
	app.Logger.Info("Routes loaded",
		logging.Field{"source", source.Name()},
		logging.Field{"services", table.Len()},
		logging.Field{"whitelist_enabled", table.WhitelistEnabled()},
	)
	return nil
}

// startRouteReloads starts the cron schedule and, with Redis, the pub/sub
// watcher. The watcher runs until ctx ends.
func (app *App) startRouteReloads(ctx context.Context) (watch func() error, err error) {
	if app.Config.RoutesReloadCron != "" {
		if err := app.Reloader.StartSchedule(app.Config.RoutesReloadCron); err != nil {
			return nil, err
		}
	}

	if app.RedisClient == nil || app.Config.RoutesReloadChannel == "" {
		return nil, nil
	}
	return func() error {
		return app.Reloader.Watch(ctx, app.RedisClient, app.Config.RoutesReloadChannel)
	}, nil
}
