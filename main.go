package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dcode-github/real_estate_listing/cache"
	"github.com/dcode-github/real_estate_listing/config"
	"github.com/dcode-github/real_estate_listing/routes"
	"github.com/dcode-github/real_estate_listing/store"
	"github.com/dcode-github/real_estate_listing/utils"
	"github.com/rs/cors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	client, err := config.ConnectDB(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to the database: %v", err)
	}
	defer config.CloseDBConnection(context.Background(), client)

	users, properties := config.Collections(client, cfg)
	mongoStore := store.NewMongoStore(users, properties)
	if err := mongoStore.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	var listingCache cache.PropertyCache = cache.NoopCache{}
	redisClient, err := config.ConnectRedis(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		listingCache = cache.NewRedisPropertyCache(redisClient, cfg.CacheTTL)
	}

	router := routes.NewHandler(routes.Deps{
		Users:          mongoStore,
		Properties:     mongoStore,
		DB:             mongoStore,
		Cache:          listingCache,
		Tokens:         utils.NewTokenCodec(cfg.JWTKey, cfg.JWTTTL, cfg.JWTIssuer),
		BcryptCost:     cfg.BcryptCost,
		RequestTimeout: cfg.RequestTimeout,
	})

	corsOptions := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})
	handler := corsOptions.Handler(router)

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        handler,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Printf("Server running on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Error starting server: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}
