package main

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/skyscout/skyscout/internal/airports"
	"github.com/skyscout/skyscout/internal/amadeus"
	"github.com/skyscout/skyscout/internal/config"
	"github.com/skyscout/skyscout/internal/handler"
	"github.com/skyscout/skyscout/internal/ratelimit"
	"github.com/skyscout/skyscout/internal/search"
	"github.com/skyscout/skyscout/internal/session"
	"github.com/skyscout/skyscout/internal/store"
	"github.com/skyscout/skyscout/pkg/logger"
	"github.com/skyscout/skyscout/pkg/metrics"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)
	defer log.Sync()

	log.Info("starting skyscout server", "port", cfg.Port)

	m := metrics.New("skyscout")

	var persister airports.Persister
	if cfg.CacheEnabled {
		redisPersister, err := airports.NewRedisPersister(airports.RedisConfig{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      airports.DefaultRedisConfig().TTL,
		})
		if err != nil {
			log.Fatal("failed to connect to redis", "error", err)
		}
		persister = redisPersister
		log.Info("airport directory persistence enabled",
			"host", cfg.RedisHost, "port", cfg.RedisPort)
	} else {
		persister = airports.NewNoopPersister()
		log.Info("airport directory persistence disabled")
	}
	defer persister.Close()

	directory := airports.NewDirectory(airports.MaxEntries)
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 5*time.Second)
	if state, found, err := persister.Load(loadCtx); err != nil {
		log.Warn("failed to load airport directory", "error", err)
	} else if found {
		airports.RestoreDirectory(directory, state)
		log.Info("airport directory restored", "cached_keywords", directory.Cache.Len())
	}
	cancelLoad()

	limiter := ratelimit.NewEndpointLimiterWithDefaults()
	client := amadeus.NewClient(amadeus.Config{
		BaseURL:      cfg.AmadeusBaseURL,
		ClientID:     cfg.AmadeusClientID,
		ClientSecret: cfg.AmadeusClientSecret,
	}, limiter, log)

	searchConfig := search.DefaultConfig()
	searchConfig.Timeout = cfg.SearchTimeout
	searcher := search.New(client, searchConfig, log)

	registry := session.NewRegistry(func() *store.Store {
		return store.New(directory)
	}, cfg.SessionTTL)

	janitorCtx, cancelJanitor := context.WithCancel(context.Background())
	defer cancelJanitor()
	registry.StartJanitor(janitorCtx, time.Minute)

	sessionHandler := handler.NewSessionHandler(registry, searcher, m, log)
	airportHandler := handler.NewAirportHandler(directory, client, persister, m, log)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())

	api := e.Group("/api/v1")

	api.GET("/airports", airportHandler.Search)
	api.GET("/airports/defaults", airportHandler.Defaults)

	api.POST("/sessions", sessionHandler.Create)
	api.GET("/sessions/:id", sessionHandler.Snapshot)
	api.POST("/sessions/:id/search", sessionHandler.Search)
	api.PATCH("/sessions/:id/criteria", sessionHandler.SetCriteria)
	api.PATCH("/sessions/:id/filters", sessionHandler.SetFilters)
	api.POST("/sessions/:id/filters/reset", sessionHandler.ResetFilters)
	api.PUT("/sessions/:id/sort", sessionHandler.SetSort)
	api.PUT("/sessions/:id/highlight", sessionHandler.SetHighlight)
	api.POST("/sessions/:id/selection/outbound", sessionHandler.SelectOutbound)
	api.POST("/sessions/:id/selection/return", sessionHandler.SelectReturn)
	api.DELETE("/sessions/:id/selection/outbound", sessionHandler.DeselectOutbound)
	api.DELETE("/sessions/:id/selection/return", sessionHandler.DeselectReturn)

	e.GET("/health", handler.HealthHandler)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatal("server stopped", "error", err)
	}
}
