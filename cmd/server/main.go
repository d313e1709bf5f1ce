package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"echo-audit-api/pkg/api"
	"echo-audit-api/pkg/cache"
	"echo-audit-api/pkg/config"
	"echo-audit-api/pkg/event"
	"echo-audit-api/pkg/extract"
	"echo-audit-api/pkg/metric"
	"echo-audit-api/pkg/orm"
	"echo-audit-api/pkg/storage"
	"echo-audit-api/pkg/task"
	"echo-audit-api/pkg/transcribe"
	"echo-audit-api/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/twmb/franz-go/pkg/kgo"
)

func main() {
	debug := flag.Bool("debug", false, "sets log level to debug")
	trace := flag.Bool("trace", false, "sets log level to trace")
	flag.Parse()
	utils.SetupLogger(*debug, *trace)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	ctx := context.Background()

	store, err := orm.NewTaskStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("Failed to connect task store")
	}
	files, err := storage.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.FileBackend).Msg("Failed to set up file storage")
	}
	loc, _ := cfg.Location()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := metric.NewPromMetrics(registry)

	classifier := extract.NewClassifier(cfg.ExtraTaskKeywords...)
	log.Info().Int("keywords", classifier.Keywords()).Msg("Loaded task vocabulary")
	resolver := extract.NewResolver(extract.NewWhenParser(), extract.NewRuleRecognizer(), extract.WithLocation(loc))

	opts := []task.ExtractorOption{task.WithMetrics(metrics)}

	var redisCache *cache.Cache
	var redisClient *redis.Client
	if cfg.RedisAddr() != "" {
		redisCache, err = cache.NewCache(ctx, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		redisClient = redisCache.Redis
		opts = append(opts, task.WithLocker(cache.NewRedisLocker(redisClient)))
	} else {
		log.Warn().Msg("REDIS_HOST not set, using in-process task locks and rate limits")
		opts = append(opts, task.WithLocker(cache.NewLocalLocker()))
	}

	var kafkaClient *kgo.Client
	if len(cfg.KafkaBrokers) > 0 {
		kafkaClient, err = event.NewKafkaClient(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create Kafka client")
		}
		opts = append(opts, task.WithPublisher(event.NewPublisher(kafkaClient, cfg.KafkaTopic)))
		log.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("Publishing task events")
	}

	extractor := task.NewExtractor(store, classifier, resolver, opts...)
	taskService := task.NewTaskService(store, files, transcribe.New(cfg), extractor, metrics)

	limiterStore, err := api.NewLimiterStore(redisClient, api.ProcessRateLimiterKey)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create rate limiter store")
	}
	processLimiter := api.RateLimiter(limiterStore, cfg.RateLimitProcessPerHour, time.Hour, cfg.RuntimeEnv == config.RuntimeAws)

	router := gin.Default()
	log.Info().Msgf("Allowed origins: %v", cfg.CorsAllowedOrigins)
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CorsAllowedOrigins,
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
		AllowWildcard:    true,
	}))
	api.TaskRoutes(router, taskService, processLimiter, cfg.MaxUploadBytes)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Hello, this is echo-audit-api",
		})
	})

	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.ServerPort).Msg("Listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info().Msgf("Received signal: %s. Shutting down...", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server Shutdown")
	}

	if err := store.OnShutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Failed to close task store")
	}
	if redisCache != nil {
		redisCache.Shutdown()
	}
	if kafkaClient != nil {
		kafkaClient.Close()
	}
	log.Info().Msg("Server exiting")
}
