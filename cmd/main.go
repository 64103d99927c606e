package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bgc-cart-backend/configs"
	"bgc-cart-backend/internal/handlers"
	"bgc-cart-backend/internal/middleware"
	"bgc-cart-backend/internal/models"
	"bgc-cart-backend/internal/repositories"
	"bgc-cart-backend/internal/services"
	"bgc-cart-backend/pkg/auth"
	"bgc-cart-backend/pkg/cache"
	"bgc-cart-backend/pkg/database"
	"bgc-cart-backend/pkg/logger"
	"bgc-cart-backend/pkg/messaging"
	"bgc-cart-backend/pkg/shopify"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	config := configs.LoadConfig()
	log := logger.New(config.Log.Level, config.Log.Format)

	// Set Gin mode
	gin.SetMode(config.Server.Mode)

	// Initialize database connections
	db, err := database.NewDatabase(config.Database.PostgresURL, config.Database.MongoURL, config.Database.MongoDBName, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to databases")
	}
	defer db.Close()

	if db.Postgres != nil {
		if err := db.Postgres.AutoMigrate(&models.SessionEntry{}); err != nil {
			log.WithError(err).Fatal("Failed to migrate database")
		}
	}

	// Persistent store
	store, purge, closeStore := buildStore(config, db, log)
	defer closeStore()

	// Offline catalog: MongoDB, then the seed file, then the built-in products
	ctx := context.Background()
	var sources []repositories.CatalogRepository
	if db.MongoDB != nil {
		sources = append(sources, repositories.NewCatalogRepository(db.MongoDB))
	}
	if config.Cart.CatalogFile != "" {
		sources = append(sources, repositories.NewFileCatalogRepository(config.Cart.CatalogFile))
	}
	sources = append(sources, repositories.NewStaticCatalogRepository(nil))
	catalog := services.LoadLocalCatalog(ctx, log, sources...)

	// Remote checkout gateway
	gateway := services.NewUnavailableGateway()
	if config.Shopify.Enabled() {
		client := shopify.NewClient(config.Shopify.StoreDomain, config.Shopify.StorefrontToken, config.Shopify.APIVersion,
			shopify.WithMaxQuantity(config.Cart.MaxQuantity))
		gateway = services.NewShopifyGateway(client, config.Shopify.Timeout, config.Breaker, log)
		log.WithField("store", config.Shopify.StoreDomain).Info("Shopify storefront gateway enabled")
	} else {
		log.Warn("Shopify is not configured, carts run local-only")
	}

	// Cart events
	events := services.NewNoopCartEvents()
	if len(config.Kafka.Brokers) > 0 {
		kafkaProducer := messaging.NewKafkaProducer(config.Kafka.Brokers)
		defer kafkaProducer.Close()
		events = services.NewKafkaCartEvents(kafkaProducer, config.Kafka.Topic, log)
	}

	// Initialize services
	sessionManager := services.NewSessionManager(gateway, store, catalog, events, log, config.Cart.MaxQuantity)
	cartService := services.NewCartService(sessionManager)

	cronService := services.NewCronService(sessionManager, purge, config.Cart.CronInterval, config.Cart.IdleTTL, log)
	if err := cronService.Start(); err != nil {
		log.WithError(err).Fatal("Failed to start cron service")
	}
	defer cronService.Stop()

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(config.JWT.SecretKey, config.JWT.ExpiryHours)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtManager)

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(cartService, jwtManager)
	cartHandler := handlers.NewCartHandler(cartService)

	// Initialize Gin router
	router := gin.New()

	// Global middleware
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.CORSMiddleware(config.Server.AllowOrigins))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"service":  "bgc-cart-backend",
			"shopify":  config.Shopify.Enabled(),
			"store":    config.Cart.StoreBackend,
			"catalog":  catalog.Len(),
			"sessions": sessionManager.Len(),
		})
	})

	// API routes
	api := router.Group("/api/v1")
	sessionHandler.RegisterRoutes(api, authMiddleware)
	cartHandler.RegisterRoutes(api, authMiddleware)

	srv := &http.Server{
		Addr:    ":" + config.Server.Port,
		Handler: router,
	}

	go func() {
		log.WithField("port", config.Server.Port).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shut down")
	}
}

// buildStore picks the KeyValueStore backend. purge is nil for backends that
// expire entries on their own.
func buildStore(config *configs.Config, db *database.Database, log *logrus.Logger) (repositories.KeyValueStore, services.PurgeFunc, func()) {
	switch config.Cart.StoreBackend {
	case "postgres":
		if db.Postgres == nil {
			log.Fatal("STORE_BACKEND=postgres requires POSTGRES_URL")
		}
		purge := func(ctx context.Context) (int64, error) {
			return repositories.PurgeExpiredEntries(ctx, db.Postgres)
		}
		return repositories.NewPostgresStore(db.Postgres, config.Cart.SessionTTL), purge, func() {}
	case "memory":
		log.Warn("Using in-memory store, carts are lost on restart")
		return repositories.NewMemoryStore(), nil, func() {}
	default:
		redisCache, err := cache.NewRedisCache(config.Redis.URL, config.Redis.Password, config.Redis.DB, log)
		if err != nil {
			log.WithError(err).Fatal("Failed to connect to Redis")
		}
		return repositories.NewRedisStore(redisCache, config.Cart.SessionTTL), nil, func() { redisCache.Close() }
	}
}
