package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ridepool/internal/config"
	"ridepool/internal/handlers"
	"ridepool/internal/middleware"
	"ridepool/internal/repositories/mongodb"
	"ridepool/internal/services"
	"ridepool/pkg/cache"
	"ridepool/pkg/database"
	"ridepool/pkg/logger"
	"ridepool/routes"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env if present; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(&logger.Config{
		Level:  logger.LogLevel(cfg.App.LogLevel),
		Format: cfg.App.LogFormat,
		Output: "stdout",
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	mongoDB, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer mongoDB.Close()

	if err := database.EnsureIndexes(mongoDB.Database); err != nil {
		log.Fatalf("Failed to ensure indexes: %v", err)
	}

	redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisCache.Close()

	// Repositories
	userRepo := mongodb.NewUserRepository(mongoDB.Database)
	vehicleRepo := mongodb.NewVehicleRepository(mongoDB.Database)
	tripRepo := mongodb.NewTripOfferRepository(mongoDB.Database, redisCache)
	bookingRepo := mongodb.NewBookingRequestRepository(mongoDB.Database, redisCache)
	ledgerRepo := mongodb.NewSeatLedgerRepository(mongoDB.Database)
	reviewRepo := mongodb.NewReviewRepository(mongoDB.Database)
	aggregateRepo := mongodb.NewRatingAggregateRepository(mongoDB.Database)

	// Services
	tripService := services.NewTripOfferService(tripRepo, vehicleRepo, userRepo, cfg.Booking.OverlapCheck, appLogger)
	bookingService := services.NewBookingRequestService(bookingRepo, tripRepo, ledgerRepo, cfg.Booking.RefundCutoff, appLogger)
	lifecycleService := services.NewLifecycleJobService(tripRepo, bookingRepo, cfg.Booking.PendingTTLHours, appLogger)
	ratingService := services.NewRatingService(reviewRepo, aggregateRepo, tripRepo, mongoDB, appLogger)

	// Handlers
	tripHandler := handlers.NewTripHandler(tripService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	reviewHandler := handlers.NewReviewHandler(ratingService)
	adminHandler := handlers.NewAdminHandler(lifecycleService, ratingService)

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestIDMiddleware())

	jwtSecret := cfg.Security.JWTSecret

	v1 := router.Group("/api/v1")
	{
		routes.SetupTripRoutes(v1, tripHandler, bookingHandler, jwtSecret)
		routes.SetupBookingRoutes(v1, bookingHandler, jwtSecret)
		routes.SetupReviewRoutes(v1, reviewHandler, jwtSecret)
		routes.SetupAdminRoutes(v1, adminHandler, jwtSecret)
	}

	router.GET("/health", func(c *gin.Context) {
		if err := mongoDB.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "mongodb": err.Error()})
			return
		}
		if err := redisCache.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "redis": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": cfg.App.Version,
		})
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		appLogger.WithField("port", cfg.App.Port).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Forced shutdown: %v", err)
	}
}
