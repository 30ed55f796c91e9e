// Package main is the entry point for the wallet engine's HTTP
// server. It initializes all dependencies, sets up the HTTP server,
// and starts the application.
package main

import (
	"context"
	"log"
	"time"

	"walletengine/internal/config"
	"walletengine/internal/engine"
	"walletengine/internal/routes"
	"walletengine/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// main initializes and starts the HTTP server.
// It performs the following setup:
// - Loads configuration
// - Initializes database connection
// - Sets up dependency injection
// - Configures routes
// - Starts the HTTP server
func main() {
	config.LoadEnv()

	if err := store.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	sqlDB, err := store.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}
	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("✅ Successfully connected to database with connection pooling")

	var balanceCache store.BalanceCache = store.NoopBalanceCache{}
	redisAddr := config.GetEnv("REDIS_HOST", "")
	if redisAddr != "" {
		redisClient := store.NewRedisClient(&store.RedisConfig{
			Host:     redisAddr,
			Port:     config.GetEnv("REDIS_PORT", "6379"),
			Password: config.GetEnv("REDIS_PASSWORD", ""),
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Printf("⚠️ Redis unavailable, falling back to no-op balance cache: %v", err)
		} else {
			balanceCache = store.NewRedisBalanceCache(redisClient)
			log.Println("✅ Redis balance cache connected")
		}
	}

	defer func() {
		if sqlDB, err := store.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Printf("⚠️ Failed to close database connection: %v", err)
			}
		}
	}()

	gormStore := store.NewGormStore(store.DB)

	var metrics engine.MetricsCollector = engine.NoopMetricsCollector{}
	metricsEnabled := config.GetEnv("METRICS_ENABLED", "true") == "true"
	if metricsEnabled {
		metrics = engine.NewPrometheusMetrics()
	}

	app := fiber.New()

	if metricsEnabled {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     config.GetEnv("CORS_ORIGIN", "http://localhost:5173"),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, idempotency-key",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowCredentials: true,
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Use("/api", limiter.New(limiter.Config{
		Max:        500,
		Expiration: 15 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"error":   "too many requests, please try again later",
			})
		},
	}))

	routes.SetupRoutes(app, store.DB, gormStore, balanceCache, metrics, config.GetEnv("STRIPE_SECRET_KEY", ""))

	log.Fatal(app.Listen(":" + config.GetEnv("PORT", "3000")))
}
