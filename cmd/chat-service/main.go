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

	"github.com/redis/go-redis/v9"

	"github.com/chatstack/chatcore/internal/config"
	"github.com/chatstack/chatcore/internal/memory"
	"github.com/chatstack/chatcore/internal/provider"
	"github.com/chatstack/chatcore/internal/service"
	transport "github.com/chatstack/chatcore/internal/transport/http"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	log.Printf("Starting chat service...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Default provider: %s", cfg.DefaultProvider)
	log.Printf("Store driver: %s", cfg.StoreDriver)

	// Initialize conversation store
	store, err := newStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer store.Close()

	// Initialize provider layer
	checker := provider.NewChecker(cfg, cfg.HealthTimeout)
	factory := provider.NewFactory(cfg, checker)

	// Initialize service
	svc, err := service.New(cfg, store, factory, checker)
	if err != nil {
		log.Fatalf("Failed to initialize service: %v", err)
	}

	// Start HTTP server
	e := transport.NewServer(svc)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Printf("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// newStore builds the configured conversation store driver.
func newStore(cfg *config.Config) (memory.Store, error) {
	switch cfg.StoreDriver {
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return memory.NewStore("redis",
			memory.WithRedisClient(client),
			memory.WithRedisTTL(cfg.RedisTTL))
	case "sqlite":
		return memory.NewStore("sqlite", memory.WithSQLitePath(cfg.SQLitePath))
	default:
		return memory.NewStore("memory")
	}
}
