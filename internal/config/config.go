package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/marianahernandez1510202/todo-api-devops-project/internal/utils"
)

// durationSeconds parses env as time.Duration: "10s", "15m" or a bare number
// of seconds (e.g. "900" -> 15m).
type durationSeconds time.Duration

func (d *durationSeconds) SetValue(s string) error {
	v, err := utils.ParseDurationEnv(s)
	if err != nil {
		return err
	}
	*d = durationSeconds(v)
	return nil
}

func (d durationSeconds) Duration() time.Duration { return time.Duration(d) }

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	App    AppConfig
	HTTP   HTTPConfig
	Store  StoreConfig
	PG     PGConfig
	Redis  RedisConfig
	Rate   RateLimitConfig
	Notify NotifyConfig
}

type AppConfig struct {
	Env     string `env:"APP_ENV" env-default:"dev"`
	Version string `env:"VERSION" env-default:"dev"`
}

type HTTPConfig struct {
	Port string `env:"HTTP_PORT" env-default:"8080"`

	// Value: "10s", "5m" or a number of seconds without suffix (e.g. 10).
	ReadTimeout  durationSeconds `env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout durationSeconds `env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout  durationSeconds `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

type StoreConfig struct {
	// Backend selects the repository implementation: postgres or memory.
	Backend string `env:"STORE_BACKEND" env-default:"postgres"`
}

type PGConfig struct {
	// DSN is required when STORE_BACKEND=postgres.
	DSN string `env:"PG_DSN" env-default:""`
}

type RedisConfig struct {
	// Addr is "host:port". Optional; when empty the rate limiter uses an
	// in-process window store. URL overrides Addr/Password/DB if set.
	Addr     string `env:"REDIS_ADDR" env-default:""`
	Password string `env:"REDIS_PASSWORD" env-default:""`
	DB       int    `env:"REDIS_DB" env-default:"0"`
	URL      string `env:"REDIS_URL" env-default:""`
}

// Enabled reports whether a Redis endpoint is configured.
func (c RedisConfig) Enabled() bool { return c.Addr != "" }

type RateLimitConfig struct {
	// Fixed window: at most Max requests per Window per client address.
	Window durationSeconds `env:"RATE_LIMIT_WINDOW" env-default:"15m"`
	Max    int64           `env:"RATE_LIMIT_MAX" env-default:"100"`
}

type NotifyConfig struct {
	EmailEnabled bool   `env:"NOTIFY_EMAIL_ENABLED" env-default:"false"`
	EmailTo      string `env:"NOTIFY_EMAIL_TO" env-default:""`
}

func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}
	if cfg.Store.Backend != BackendPostgres && cfg.Store.Backend != BackendMemory {
		return Config{}, fmt.Errorf("STORE_BACKEND must be %s or %s, got %q",
			BackendPostgres, BackendMemory, cfg.Store.Backend)
	}
	if cfg.Store.Backend == BackendPostgres && cfg.PG.DSN == "" {
		return Config{}, fmt.Errorf("PG_DSN is required when STORE_BACKEND=%s", BackendPostgres)
	}
	if cfg.Redis.URL != "" {
		addr, password, db, err := utils.ParseRedisURL(cfg.Redis.URL)
		if err != nil {
			return Config{}, fmt.Errorf("REDIS_URL: %w", err)
		}
		cfg.Redis.Addr = addr
		cfg.Redis.Password = password
		cfg.Redis.DB = db
	}
	if cfg.Rate.Max <= 0 {
		return Config{}, fmt.Errorf("RATE_LIMIT_MAX must be positive")
	}
	return cfg, nil
}
