package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kelseyhightower/envconfig"
	"github.com/threadcart/commerce-service/internal/events"
	"github.com/threadcart/commerce-service/internal/handler"
	"github.com/threadcart/commerce-service/internal/payment"
	"github.com/threadcart/commerce-service/internal/repository"
	"github.com/threadcart/commerce-service/internal/service"
	"github.com/threadcart/commerce-service/pkg/cache"
	"github.com/threadcart/commerce-service/pkg/config"
	"github.com/threadcart/commerce-service/pkg/middleware"
	pkgtls "github.com/threadcart/commerce-service/pkg/tls"
	"go.uber.org/zap"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	dynamoClient, err := repository.NewDynamoDBClient(cfg)
	if err != nil {
		log.Fatal("Failed to create DynamoDB client:", err)
	}

	var cacheClient cache.Client
	if cfg.RedisAddr != "" {
		redisClient, err := cache.NewRedisClient(cfg.RedisAddr)
		if err != nil {
			logger.Warn("Redis unavailable, product cache disabled", zap.Error(err))
		} else {
			cacheClient = redisClient
			defer redisClient.Close()
		}
	}

	var publisher service.EventPublisher
	if cfg.KafkaBrokers != "" {
		producer := events.NewKafkaProducer(cfg.KafkaBrokers, nil, logger)
		defer producer.Close()
		publisher = producer
	}

	productRepo := repository.NewProductRepository(dynamoClient, cfg.ProductTableName, cacheClient)
	orderRepo := repository.NewOrderRepository(dynamoClient, cfg.OrderTableName)
	cartRepo := repository.NewCartRepository(dynamoClient, cfg.CartTableName)
	wishlistRepo := repository.NewWishlistRepository(dynamoClient, cfg.WishlistTableName)
	categoryRepo := repository.NewCategoryRepository(dynamoClient, cfg.CategoryTableName)
	contactRepo := repository.NewContactRepository(dynamoClient, cfg.ContactTableName)

	paymentClient := payment.NewClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, logger)

	productService := service.NewProductService(productRepo, logger)
	orderService := service.NewOrderService(orderRepo, productRepo, paymentClient, publisher, cfg.RazorpayKeySecret, cfg.Currency, logger)
	cartService := service.NewCartService(cartRepo, productRepo, logger)
	wishlistService := service.NewWishlistService(wishlistRepo, productRepo, logger)
	categoryService := service.NewCategoryService(categoryRepo, logger)
	contactService := service.NewContactService(contactRepo, logger)

	productHandler := handler.NewProductHandler(productService, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)
	cartHandler := handler.NewCartHandler(cartService, logger)
	wishlistHandler := handler.NewWishlistHandler(wishlistService, logger)
	categoryHandler := handler.NewCategoryHandler(categoryService, logger)
	contactHandler := handler.NewContactHandler(contactService, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.RequestID())

	v1 := router.Group("/api/v1")
	{
		v1.POST("/products", productHandler.CreateProduct)
		v1.GET("/products", productHandler.ListProducts)
		v1.GET("/products/:id", productHandler.GetProduct)
		v1.PUT("/products/:id", productHandler.UpdateProduct)
		v1.DELETE("/products/:id", productHandler.DeleteProduct)

		v1.GET("/categories", categoryHandler.ListCategories)
		v1.POST("/categories", categoryHandler.CreateCategory)
		v1.GET("/subcategories", categoryHandler.ListSubcategories)
		v1.POST("/subcategories", categoryHandler.CreateSubcategory)

		v1.GET("/contacts", contactHandler.ListContacts)
		v1.GET("/contacts/:id", contactHandler.GetContact)
		v1.POST("/contacts", contactHandler.CreateContact)
		v1.PUT("/contacts/:id", contactHandler.UpdateContact)
		v1.DELETE("/contacts/:id", contactHandler.DeleteContact)

		v1.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "healthy"})
		})

		authed := v1.Group("", middleware.Auth(cfg.JWTSecret))
		{
			authed.GET("/cart", cartHandler.ListItems)
			authed.POST("/cart", cartHandler.AddItem)
			authed.PUT("/cart/:id", cartHandler.UpdateItem)
			authed.DELETE("/cart/:id", cartHandler.RemoveItem)

			authed.GET("/wishlist", wishlistHandler.ListItems)
			authed.POST("/wishlist", wishlistHandler.AddItem)
			authed.DELETE("/wishlist/:id", wishlistHandler.RemoveItem)

			authed.POST("/orders/payment-intent", orderHandler.CreatePaymentIntent)
			authed.POST("/orders/confirm", orderHandler.ConfirmOrder)
			authed.GET("/orders", orderHandler.ListOrders)
			authed.GET("/orders/:id", orderHandler.GetOrder)
			authed.PUT("/orders/:id", orderHandler.UpdateOrderStatus)
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	var tlsCfg pkgtls.TLSConfig
	if err := envconfig.Process("", &tlsCfg); err != nil {
		log.Fatal("Failed to load TLS config:", err)
	}
	serverTLS, err := pkgtls.LoadTLSConfig(&tlsCfg, logger)
	if err != nil {
		log.Fatal("Failed to load TLS config:", err)
	}
	defer pkgtls.Cleanup()

	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Port))

		var err error
		if serverTLS != nil {
			srv.TLSConfig = serverTLS
			go pkgtls.WatchCertificates(&tlsCfg, logger)
			err = srv.ListenAndServeTLS("", "")
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server exited")
}
