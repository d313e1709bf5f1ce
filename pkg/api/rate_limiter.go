package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	limiter "github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

const ProcessRateLimiterKey = "echo_audit_api:limiter:process"

// NewLimiterStore keeps counters in Redis when a client is given, in memory otherwise.
func NewLimiterStore(client *redis.Client, prefix string) (limiter.Store, error) {
	if client == nil {
		return memory.NewStoreWithOptions(limiter.StoreOptions{
			Prefix:          prefix,
			CleanUpInterval: time.Minute,
		}), nil
	}
	return sredis.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix:   prefix,
		MaxRetry: 3,
	})
}

// RateLimiter allows limit requests per client IP per period. Behind the aws
// load balancer the client IP is read from X-Original-Forwarded-For.
func RateLimiter(store limiter.Store, limit int64, period time.Duration, behindProxy bool) gin.HandlerFunc {
	rate := limiter.Rate{Period: period, Limit: limit}
	var rateLimiter *limiter.Limiter
	if behindProxy {
		rateLimiter = limiter.New(store, rate, limiter.WithClientIPHeader("X-Original-Forwarded-For"))
	} else {
		rateLimiter = limiter.New(store, rate)
	}

	return func(c *gin.Context) {
		key := rateLimiter.GetIPKey(c.Request)
		limiterCtx, err := rateLimiter.Get(c, key)
		if err != nil {
			log.Error().Err(err).Msg("Failed to get rate limiter")
			c.AbortWithStatusJSON(http.StatusInternalServerError, defaultErrorResponse("Rate limiter unavailable"))
			return
		}

		if limiterCtx.Reached {
			log.Warn().Str("ip", key).Msg("Rate limit reached")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, defaultErrorResponse("Too many requests"))
			return
		}

		c.Next()
	}
}
