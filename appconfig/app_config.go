package appconfig

import (
	"github.com/SaiNageswarS/go-api-boot/config"
)

type AppConfig struct {
	config.BootConfig `ini:",extends"`

	DatabaseRegistryPath string `env:"DATABASE-REGISTRY-PATH" ini:"database_registry_path"`
	RedisAddr            string `env:"REDIS-ADDR" ini:"redis_addr"`
	MongoURI             string `env:"MONGO-URI" ini:"mongo_uri"`
	MetricsPort          string `env:"METRICS-PORT" ini:"metrics_port"`
}
