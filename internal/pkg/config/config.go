package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// AdminPassphrase unlocks the admin portal; empty disables admin
	// login entirely.
	AdminPassphrase string `env:"ADMIN_PASSPHRASE"`
	// JWTSecret signs developer session tokens.
	JWTSecret string `env:"JWT_SECRET"`
	// SessionTTL bounds admin and client sessions and developer tokens.
	SessionTTL time.Duration `env:"SESSION_TTL, default=24h"`

	// NotifyWebhookURL receives outbound notifications; empty makes
	// notifications log-only.
	NotifyWebhookURL string `env:"NOTIFY_WEBHOOK_URL"`

	AssetDir     string `env:"ASSET_DIR,      default=./assets"`
	AssetBaseURL string `env:"ASSET_BASE_URL, default=/assets"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=portal"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
