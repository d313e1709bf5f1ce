package cache

import (
	"context"
	"crypto/tls"
	"time"

	"echo-audit-api/pkg/config"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type Cache struct {
	Redis *redis.Client
}

// NewCache connects to Redis and pings it. TLS is enabled on aws.
func NewCache(ctx context.Context, cfg *config.Config) (*Cache, error) {
	clientOpts := &redis.Options{
		Addr:     cfg.RedisAddr(),
		Username: cfg.RedisUsername,
		Password: cfg.RedisPassword,
	}
	if cfg.RuntimeEnv == config.RuntimeAws {
		clientOpts.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
	}
	redisClient := redis.NewClient(clientOpts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	res, err := redisClient.Ping(pingCtx).Result()
	if err != nil {
		_ = redisClient.Close()
		log.Error().Err(err).Msg("Failed to ping Redis")
		return nil, err
	}
	log.Info().Msgf("Redis ping result: %v", res)
	return &Cache{Redis: redisClient}, nil
}

func (c *Cache) Shutdown() {
	if err := c.Redis.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close Redis connection")
		return
	}
	log.Info().Msg("Successfully closed Redis connection")
}
