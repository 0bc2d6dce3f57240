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

	"github.com/redis/go-redis/v9"

	"github.com/marketboost/storefront/internal/catalog"
	"github.com/marketboost/storefront/internal/config"
	"github.com/marketboost/storefront/internal/events"
	"github.com/marketboost/storefront/internal/server"
	"github.com/marketboost/storefront/internal/storage"
	"github.com/marketboost/storefront/internal/store"
	"github.com/marketboost/storefront/internal/view"
)

func main() {
	cfg := config.Load()

	st, cleanup, err := buildStorage(cfg)
	if err != nil {
		log.Fatalf("failed to set up cart storage: %v", err)
	}
	defer cleanup()

	bus := events.NewBus()
	cart := store.New(st, bus, nil)

	cat := buildCatalog(cfg)

	hub := view.NewHub()
	cartView := view.New(cart, bus, hub)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go cart.SyncLoop(ctx)

	handler := server.New(cart, cat, cartView, hub, server.Options{
		AllowedOrigins: cfg.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("storefront starting on :%s (cart storage: %s)", cfg.HTTPPort, cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}

func buildStorage(cfg *config.Config) (storage.Storage, func(), error) {
	noop := func() {}

	switch cfg.StorageBackend {
	case "file":
		st, err := storage.NewFileStorage(cfg.CartStoragePath)
		return st, noop, err

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, noop, err
		}
		return storage.NewRedisStorage(client), func() { client.Close() }, nil

	case "mongo":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		db, err := storage.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			return nil, noop, err
		}
		return storage.NewMongoStorage(db), func() {
			disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer disconnectCancel()
			db.Client().Disconnect(disconnectCtx)
		}, nil

	default:
		return nil, noop, errors.New("unknown STORAGE_BACKEND: " + cfg.StorageBackend)
	}
}

// buildCatalog assembles the product source chain. Every piece is
// optional: without WooCommerce credentials or a local database the
// catalog serves the static service list.
func buildCatalog(cfg *config.Config) *catalog.Service {
	var client *catalog.Client
	if cfg.WooBaseURL != "" {
		client = catalog.NewClient(cfg.WooBaseURL, cfg.WooConsumerKey, cfg.WooConsumerSecret)
	}

	var repo *catalog.Repository
	if cfg.CatalogDBPath != "" {
		r, err := catalog.NewRepository(cfg.CatalogDBPath)
		if err != nil {
			log.Printf("catalog database unavailable, continuing without it: %v", err)
		} else if err := r.RunMigrations(cfg.CatalogMigrationsPath); err != nil {
			log.Printf("catalog migrations failed, continuing without local catalog: %v", err)
			r.Close()
		} else {
			repo = r
		}
	}

	return catalog.NewService(client, repo)
}
