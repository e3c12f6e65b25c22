package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	adapterHTTP "github.com/venkatarun/hidden-habits/internal/adapters/handler/http"
	"github.com/venkatarun/hidden-habits/internal/adapters/repository"
	"github.com/venkatarun/hidden-habits/internal/config"
	"github.com/venkatarun/hidden-habits/internal/core/domain"
	"github.com/venkatarun/hidden-habits/internal/core/services"
)

func main() {
	startTime := time.Now()

	cfg := config.Load()

	var repo domain.StoreRepository
	var redisClient *redis.Client
	backend := "file"

	if cfg.UseRemoteKV() {
		log.Println("Connecting to remote KV store...")

		client, err := repository.NewRedisClient(cfg.RemoteKVURL, cfg.RemoteKVToken)
		if err != nil {
			log.Fatalf("Critical: Failed to connect to remote KV: %v", err)
		}
		defer client.Close()

		redisClient = client
		repo = repository.NewCachedStoreRepository(
			repository.NewRedisStoreRepository(client),
			repository.DefaultCacheTTL,
			time.Now,
		)
		backend = "remote-kv"

		log.Println("Remote KV connected successfully.")
	} else {
		repo = repository.NewFileStoreRepository(cfg.StorePath)
		log.Printf("Using file-backed store at %s", cfg.StorePath)
	}

	sessions := services.NewSessionService(cfg.Password, cfg.PasswordHash, cfg.SessionSecret, time.Now)
	if !sessions.Enabled() {
		log.Println("Hidden tab is disabled: no password configured.")
	}

	storeService := services.NewStoreService(repo)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler: adapterHTTP.NewAuthHandler(sessions),
		SyncHandler: adapterHTTP.NewSyncHandler(storeService),
		Sessions:    sessions,
		Redis:       redisClient,
		Backend:     backend,
		StartTime:   startTime,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Hidden Habits running on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Critical server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Stop signal received. Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Forced shutdown error:", err)
	}

	log.Println("Server stopped gracefully.")
}
