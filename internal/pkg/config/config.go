package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,       default=8080"`
	Env       string        `env:"ENV,        default=development"`
	JWTSecret string        `env:"JWT_SECRET, required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,  default=2h"`
	LogLevel  string        `env:"LOG_LEVEL,  default=info"`

	SQLite SQLiteConfig
	Redis  RedisConfig
	Login  LoginConfig
}

type SQLiteConfig struct {
	Path string `env:"SQLITE_PATH, default=vollmed.db"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// LoginConfig bounds repeated authentication attempts per login.
type LoginConfig struct {
	MaxAttempts int64         `env:"LOGIN_MAX_ATTEMPTS,   default=10"`
	Window      time.Duration `env:"LOGIN_ATTEMPT_WINDOW, default=1m"`
}

// Load reads configuration from environment variables using go-envconfig.
// JWT_SECRET has no default: starting without a signing secret is a
// deployment error.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
