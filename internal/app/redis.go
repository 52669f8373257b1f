package app

import (
	"mvc-redirect/internal/common/logging"
	"mvc-redirect/internal/redis"
)

func (app *App) initializeRedis() error {
	if !app.Config.RedisEnabled() {
		app.Logger.Info("Redis: Not configured (redirect audit disabled)")
		return nil
	}

	redisConfig := &redis.Config{
		Address:   app.Config.RedisAddress,
		Password:  app.Config.RedisPassword,
		DB:        app.Config.RedisDBNumber(),
		PoolSize:  app.Config.RedisPoolSizeNumber(),
		AuditSize: app.Config.AuditSize(),
	}

	redisClient, err := redis.NewClient(redisConfig)
	if err != nil {
		return err
	}

	app.RedisClient = redisClient
	app.Logger.Info("Redis: Connected", logging.Field{Key: "address", Value: app.Config.RedisAddress})
	app.Logger.Info("Redirect Audit: Enabled", logging.Field{Key: "size", Value: redisConfig.AuditSize})

	return nil
}
