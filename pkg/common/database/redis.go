package database

import (
	"context"
	"fmt"
	"time"

	"github.com/pulsedesk/complaints/pkg/common/config"
	"github.com/pulsedesk/complaints/pkg/common/logger"
	"github.com/redis/go-redis/v9"
)

// ConnectRedis returns a Redis client, or nil when Redis is unreachable.
// The geolocation cache degrades to direct lookups without it.
func ConnectRedis(cfg *config.Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Log.WithError(err).Warn("Redis unavailable, geolocation cache disabled")
		_ = client.Close()
		return nil
	}

	logger.Log.Info("Connected to Redis")
	return client
}

func CloseRedis(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}
