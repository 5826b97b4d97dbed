package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hassanhashmi16/Clothing-Store/config"
	"github.com/hassanhashmi16/Clothing-Store/controllers"
	"github.com/hassanhashmi16/Clothing-Store/database"
	"github.com/hassanhashmi16/Clothing-Store/kafka"
	"github.com/hassanhashmi16/Clothing-Store/logger"
	"github.com/hassanhashmi16/Clothing-Store/middleware"
	aws_pkg "github.com/hassanhashmi16/Clothing-Store/pkg/aws"
	"github.com/hassanhashmi16/Clothing-Store/repository"
	"github.com/hassanhashmi16/Clothing-Store/routes"
	"github.com/hassanhashmi16/Clothing-Store/services"
)

func main() {
	cfg := config.Load()

	logger.Initialize(cfg.Env)
	defer zap.L().Sync()

	if cfg.JWTSecret == "" {
		zap.L().Fatal("JWT_SECRET is required")
	}

	// MongoDB
	ctx := context.Background()
	client, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		zap.L().Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	db := client.Database(cfg.MongoDatabase)
	if err := database.EnsureIndexes(ctx, db); err != nil {
		zap.L().Warn("Failed to ensure indexes", zap.Error(err))
	}

	// Redis (product-list cache + checkout idempotency)
	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		zap.L().Fatal("Failed to connect to Redis", zap.Error(err))
	}

	// Kafka order-event producer
	producer := kafka.NewProducer(strings.Split(cfg.KafkaBrokers, ","), cfg.KafkaTopic)
	defer producer.Close()

	// SNS (optional, best-effort order notifications)
	var snsClient aws_pkg.SNSPublisher
	if cfg.SNSTopicArn != "" {
		awsCfg, err := aws_pkg.LoadAWSConfig(ctx)
		if err != nil {
			zap.L().Warn("Failed to load AWS config, SNS disabled", zap.Error(err))
		} else {
			snsClient = aws_pkg.NewSNSClient(awsCfg)
		}
	}

	// Repositories
	productRepo := repository.NewMongoProductRepository(db)
	cartRepo := repository.NewMongoCartRepository(db)
	orderRepo := repository.NewMongoOrderRepository(client, db)
	idemStore := database.NewIdempotencyStore(redisClient, cfg.IdempotencyTTL)

	// Services
	productService := services.NewProductService(productRepo, zap.L())
	cartService := services.NewCartService(cartRepo, productRepo, zap.L())
	orderService := services.NewOrderService(orderRepo, cartRepo, productRepo, idemStore, producer, snsClient, cfg.SNSTopicArn, zap.L())

	// Controllers
	cacheManager := controllers.NewCacheManager(redisClient, cfg.CacheTTL)
	productController := controllers.NewProductController(productService, cacheManager)
	cartController := controllers.NewCartController(cartService)
	orderController := controllers.NewOrderController(orderService)

	// HTTP server
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(logger.RequestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))

	routes.SetupRoutes(r, cfg.JWTSecret, productController, cartController, orderController)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		zap.L().Info("Clothing store backend starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Fatal("Server forced to shutdown", zap.Error(err))
	}
	if err := client.Disconnect(shutdownCtx); err != nil {
		zap.L().Error("Failed to disconnect MongoDB", zap.Error(err))
	}
	if err := redisClient.Close(); err != nil {
		zap.L().Error("Failed to close Redis", zap.Error(err))
	}

	zap.L().Info("Server stopped gracefully")
}
