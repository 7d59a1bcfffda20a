package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	BackendRedis = "redis"
	BackendMySQL = "mysql"
)

type Config struct {
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	// StoreBackend selects the durable key-value store: redis or mysql.
	StoreBackend string `envconfig:"STORE_BACKEND" default:"redis"`
	RedisAddr    string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	MySQLDSN     string `envconfig:"MYSQL_DSN" default:"root:root@tcp(localhost:3306)/shopcart?parseTime=true"`

	CatalogURL     string        `envconfig:"CATALOG_URL" default:"https://fakestoreapi.com/products"`
	CatalogTimeout time.Duration `envconfig:"CATALOG_TIMEOUT" default:"10s"`

	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}

	if cfg.StoreBackend != BackendRedis && cfg.StoreBackend != BackendMySQL {
		return Config{}, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	return cfg, nil
}
