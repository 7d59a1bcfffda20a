package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/rl1809/shop-cart/internal/adapter/catalog"
	"github.com/rl1809/shop-cart/internal/adapter/handler"
	"github.com/rl1809/shop-cart/internal/adapter/storage"
	"github.com/rl1809/shop-cart/internal/config"
	"github.com/rl1809/shop-cart/internal/core/service"
	"github.com/rl1809/shop-cart/internal/port"
)

func main() {
	log := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the durable store
	kv, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to open store")
	}
	defer closeStore()

	// Initialize services, hydrated from the store
	cartService := service.NewCartService(ctx, kv, log)
	orderService := service.NewOrderService(ctx, kv, cartService, log)
	log.WithFields(logrus.Fields{
		"cart_items": cartService.ItemCount(),
		"orders":     len(orderService.Orders()),
	}).Info("state hydrated")

	catalogClient := catalog.NewClient(cfg.CatalogURL, cfg.CatalogTimeout)

	// Initialize HTTP server
	httpHandler := handler.NewHTTPHandler(cartService, orderService, catalogClient, log)
	mux := http.NewServeMux()
	mux.HandleFunc("/health", httpHandler.HealthCheck)
	mux.HandleFunc("/api/products", httpHandler.Products)
	mux.HandleFunc("/api/cart", httpHandler.GetCart)
	mux.HandleFunc("/api/cart/items", httpHandler.AddItem)
	mux.HandleFunc("/api/cart/quantity", httpHandler.ChangeQuantity)
	mux.HandleFunc("/api/cart/remove", httpHandler.RemoveItem)
	mux.HandleFunc("/api/cart/clear", httpHandler.ClearCart)
	mux.HandleFunc("/api/checkout", httpHandler.Checkout)
	mux.HandleFunc("/api/orders", httpHandler.ListOrders)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}

	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.WithError(err).Error("HTTP server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	log.Info("HTTP server stopped")
}

// openStore connects the configured backend and returns it behind the
// key-value port with its cleanup function.
func openStore(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (port.KeyValueStore, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendMySQL:
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return nil, nil, err
		}
		db.SetMaxOpenConns(10)
		db.SetConnMaxLifetime(5 * time.Minute)

		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}

		store := storage.NewMySQLStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}

		log.Info("connected to mysql")
		return store, func() { db.Close() }, nil

	default:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, nil, err
		}

		log.Info("connected to redis")
		return storage.NewRedisStore(rdb), func() { rdb.Close() }, nil
	}
}
