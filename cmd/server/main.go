package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/jlucero/shop-api/internal/config"
	"github.com/jlucero/shop-api/internal/database"
	"github.com/jlucero/shop-api/internal/handler"
	"github.com/jlucero/shop-api/internal/middleware"
	"github.com/jlucero/shop-api/internal/queue"
	"github.com/jlucero/shop-api/internal/repository"
	"github.com/jlucero/shop-api/internal/router"
	queue_publisher "github.com/jlucero/shop-api/internal/service"
	"github.com/jlucero/shop-api/internal/storage"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	// Redis is optional: a nil client disables the product response cache.
	rdb := config.NewRedisClient()
	cacheCfg := config.LoadCacheConfig()
	if rdb == nil {
		log.Printf("redis unavailable, product cache disabled")
	}

	users := repository.NewUserRepo(db)
	products := repository.NewProductRepo(db)
	tokens := repository.NewTokenRepo(db)
	images := storage.NewImageStore(cfg.UploadDir)

	authHandler := handler.NewAuthHandler(cfg, users, tokens)
	userHandler := handler.NewUserHandler(cfg, users)
	productHandler := handler.NewProductHandler(products, images)
	productHandler.InvalidateCache = func(ctx context.Context) error {
		return middleware.InvalidateProductCache(ctx, cacheCfg, rdb)
	}
	productHandler.PublishPurchase = queue_publisher.PublishProductPurchased

	e := echo.New()
	e.Static("/media", cfg.UploadDir)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler)
	router.RegisterUsers(e, userHandler, cfg.JWTSecret)
	router.RegisterProducts(e, productHandler, cfg.JWTSecret,
		middleware.ProductCache(cacheCfg, rdb))

	// Purchase audit trail: consume product.purchased events in the
	// background. The consumer runs its own reconnect loop.
	go func() {
		if err := queue.StartPurchaseConsumer(); err != nil {
			log.Printf("purchase consumer stopped: %v", err)
		}
	}()

	// Drop blacklist rows for refresh tokens that have expired on their own.
	go func() {
		for range time.Tick(time.Hour) {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			n, err := tokens.PurgeExpired(ctx)
			cancel()
			if err != nil {
				log.Printf("token blacklist purge: %v", err)
			} else if n > 0 {
				log.Printf("token blacklist purge: removed %d rows", n)
			}
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
