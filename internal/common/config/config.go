package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port           int      `env:"PORT" envDefault:"8080"`
		AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	}

	Redis struct {
		Host     string `env:"REDIS_HOST" envDefault:"localhost"`
		Port     int    `env:"REDIS_PORT" envDefault:"6379"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`

		// Namespace for user records, the key is KeyPrefix + telegram id
		KeyPrefix string `env:"REDIS_USER_KEY_PREFIX" envDefault:"user:"`

		// Stream receiving user_created / user_updated events, empty disables publishing
		EventsStream string `env:"REDIS_USER_EVENTS_STREAM" envDefault:"users:events"`
		EventsMaxLen int64  `env:"REDIS_USER_EVENTS_MAXLEN" envDefault:"10000"`
	}

	Telegram struct {
		BotToken string `env:"BOT_TOKEN,required,notEmpty"`

		// Init data older than this is reported as stale
		InitDataMaxAge time.Duration `env:"INIT_DATA_MAX_AGE" envDefault:"24h"`
		// When false stale init data is only logged
		RejectStaleInitData bool `env:"INIT_DATA_REJECT_STALE" envDefault:"false"`

		AdminIDs []int64 `env:"ADMIN_IDS" envSeparator:","`
	}

	Store struct {
		DefaultLanguageCode string `env:"DEFAULT_LANGUAGE_CODE" envDefault:"en"`
	}
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// .env is optional, in production variables are set directly
	_ = godotenv.Load()

	return Parse()
}

// Parse fills Config from the current environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Telegram.InitDataMaxAge < 0 {
		return nil, fmt.Errorf("invalid INIT_DATA_MAX_AGE: %s", cfg.Telegram.InitDataMaxAge)
	}
	if cfg.Redis.KeyPrefix == "" {
		return nil, fmt.Errorf("REDIS_USER_KEY_PREFIX cannot be empty")
	}

	return cfg, nil
}

// RedisAddr returns host:port of the Redis server.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
