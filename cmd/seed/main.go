// Dev smoke tool: fetches the catalog, adds the first few products to the
// cart, and runs a checkout against the configured Redis store.
package main

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/rl1809/shop-cart/internal/adapter/catalog"
	"github.com/rl1809/shop-cart/internal/adapter/storage"
	"github.com/rl1809/shop-cart/internal/config"
	"github.com/rl1809/shop-cart/internal/core/service"
)

const seedProducts = 3

func main() {
	log := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}

	ctx := context.Background()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.WithError(err).Fatal("failed to connect redis")
	}
	defer rdb.Close()

	kv := storage.NewRedisStore(rdb)
	cartService := service.NewCartService(ctx, kv, log)
	orderService := service.NewOrderService(ctx, kv, cartService, log)

	products, err := catalog.NewClient(cfg.CatalogURL, cfg.CatalogTimeout).FetchProducts(ctx)
	if err != nil {
		log.WithError(err).Fatal("failed to fetch catalog")
	}
	log.WithField("count", len(products)).Info("fetched catalog")

	if len(products) > seedProducts {
		products = products[:seedProducts]
	}

	for _, p := range products {
		if err := cartService.AddItem(ctx, p); err != nil {
			log.WithError(err).Fatal("failed to add item")
		}
		log.WithFields(logrus.Fields{
			"product_id": p.ID,
			"title":      p.Title,
		}).Info("added to cart")
	}

	order, err := orderService.Checkout(ctx)
	if err != nil {
		log.WithError(err).Fatal("checkout failed")
	}

	log.WithFields(logrus.Fields{
		"order_id": order.ID,
		"total":    order.Total,
		"items":    len(order.Items),
	}).Info("checkout completed")
}
