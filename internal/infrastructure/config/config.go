package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port          string `env:"PORT,           default=8080"`
	Env           string `env:"ENV,            default=development"`
	SessionSecret string `env:"SESSION_SECRET"`
	LogLevel      string `env:"LOG_LEVEL,      default=info"`

	Backend BackendConfig
	Cookie  CookieConfig
	Redis   RedisConfig
	OTP     OTPConfig
}

type BackendConfig struct {
	BaseURL string `env:"BACKEND_BASE_URL, default=http://localhost:8000"`
}

type CookieConfig struct {
	Domain string `env:"COOKIE_DOMAIN"`
	Secure bool   `env:"COOKIE_SECURE, default=false"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type OTPConfig struct {
	ThrottleWindow time.Duration `env:"OTP_THROTTLE_WINDOW, default=10m"`
	ThrottleLimit  int           `env:"OTP_THROTTLE_LIMIT,  default=3"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
