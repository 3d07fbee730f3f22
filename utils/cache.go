// File: utils/cache.go
package utils

import (
	"context"
	"fmt"
	"time"

	"levi/config"

	"github.com/go-redis/redis/v8"
)

// NewSessionCacheClient connects to the Redis database used for stored sessions.
// It returns nil, nil when REDIS_ADDR is not configured.
func NewSessionCacheClient() (*redis.Client, error) {
	if config.AppConfig.RedisAddr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisSessionDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis (session cache): %w", err)
	}
	return client, nil
}
