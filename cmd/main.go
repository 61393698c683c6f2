package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"neowatch/internal/clients"
	"neowatch/internal/config"
	"neowatch/internal/handlers"
	"neowatch/internal/middleware"
	"neowatch/internal/repository"
	"neowatch/internal/service"
	"neowatch/pkg/database"
	"neowatch/pkg/logger"
	"neowatch/pkg/metrics"
	"neowatch/pkg/redis"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	goredis "github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/time/rate"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()

	log := logger.New(cfg.App.Debug)
	defer log.Sync()

	if envErr != nil {
		log.Info("No .env file found, using environment variables")
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration", "error", err)
	}

	log.Info("NEO Watch backend starting", "port", cfg.App.Port, "debug", cfg.App.Debug)

	db, err := database.Connect(database.Config(cfg.DB), cfg.App.Debug)
	if err != nil {
		log.Fatal("Failed to connect to database", "error", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database", "error", err)
	}

	// Redis is optional; it only backs the feed cache and stats.
	var (
		redisClient *goredis.Client
		cacheRepo   repository.CacheRepository
	)
	if cfg.Redis.Enabled {
		redisClient, err = redis.Connect(redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to Redis", "error", err)
		}
		defer redisClient.Close()
		cacheRepo = repository.NewCacheRepository(redisClient)
	}

	asteroidRepo := repository.NewAsteroidRepository(db)
	userRepo := repository.NewUserRepository(db)

	neoClient := clients.NewNEOClient(clients.NEOConfig{
		APIKey:  cfg.NASA.APIKey,
		NEOURL:  cfg.NASA.NEOURL,
		Timeout: cfg.NASA.Timeout,
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New("neowatch", registry)

	asteroidService := service.NewAsteroidService(asteroidRepo)
	importService := service.NewImportService(asteroidRepo, cacheRepo, neoClient, appMetrics, log,
		service.ImportConfig{FeedCacheTTL: cfg.NASA.CacheTTL})
	indicatorService := service.NewIndicatorService(asteroidRepo)
	exportService := service.NewExportService(asteroidRepo, log)
	authService := service.NewAuthService(userRepo, service.AuthConfig{
		Secret:     cfg.Auth.Secret,
		AccessTTL:  cfg.Auth.AccessTTL,
		RefreshTTL: cfg.Auth.RefreshTTL,
	})

	if cfg.App.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))

	// CORS for the React frontend
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", cfg.App.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	var importLimiter gin.HandlerFunc
	if !cfg.App.Debug {
		limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)
		r.Use(middleware.RateLimitMiddleware(limiter, log))
		importLimiter = middleware.IPRateLimitMiddleware(middleware.NewIPRateLimiter(rate.Every(10*time.Second), 3), log)
		log.Info("Rate limiting enabled",
			"rps", cfg.RateLimit.RequestsPerSecond,
			"burst", cfg.RateLimit.Burst)
	}

	var (
		redisPing  handlers.PingFunc
		redisStats handlers.StatsFunc
	)
	if redisClient != nil {
		redisPing = cacheRepo.Ping
		redisStats = func(ctx context.Context) (map[string]string, error) {
			return redis.GetStats(ctx, redisClient)
		}
	}

	router := &handlers.Router{
		Asteroids: handlers.NewAsteroidHandler(asteroidService, importService, indicatorService, exportService, log),
		Auth:      handlers.NewAuthHandler(authService, log),
		System: handlers.NewSystemHandler(asteroidService,
			func(ctx context.Context) error { return database.Ping(ctx, db) },
			redisPing, redisStats, log),
		Tokens:        authService,
		ImportLimiter: importLimiter,
		Gatherer:      registry,
	}
	router.Register(r)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Imports wait on the upstream feed, so the write timeout covers the
	// feed timeout.
	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.NASA.Timeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server listening", "addr", "http://localhost:"+cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start", "error", err)
		}
	}()

	<-quit
	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		return
	}

	log.Info("Server exited properly")
}
