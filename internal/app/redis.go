package app

import (
	"context"

	"service-gateway/internal/common/logging"
	"service-gateway/internal/redis"
)

func (app *App) initializeRedis(ctx context.Context) error {
	if !app.Config.UsesRedis() {
		app.Logger.Info("Redis: Not configured (routes are read from file)")
		return nil
	}

	redisClient, err := redis.NewClient(ctx, redis.Config{
		Address:  app.Config.RedisAddress,
		Password: app.Config.RedisPassword,
		DB:       app.Config.RedisDB,
		PoolSize: app.Config.RedisPoolSize,
	})
	if err != nil {
		return err
	}

	app.RedisClient = redisClient
	app.Logger.Info("Redis: Connected",
		logging.Field{"address", app.Config.RedisAddress},
		logging.Field{"routes_key", app.Config.RoutesRedisKey},
	)
	return nil
}
