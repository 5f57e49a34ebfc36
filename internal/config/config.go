package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config carries every tunable the back-office client reads from the
// environment. The remote POS API is the single source of business data;
// the only local state is the session slots.
type Config struct {
	// APIBaseURL is the root of the POS API, e.g. http://localhost:8080/pos.
	APIBaseURL  string        `env:"POS_API_URL,     default=http://localhost:8080/pos"`
	HTTPTimeout time.Duration `env:"POS_HTTP_TIMEOUT, default=30s"`
	LogLevel    string        `env:"LOG_LEVEL,       default=info"`
	LogPretty   bool          `env:"LOG_PRETTY,      default=false"`
	PageSize    int           `env:"POS_PAGE_SIZE,   default=10"`

	// DownloadDir is where invoices and report files are saved.
	DownloadDir string `env:"POS_DOWNLOAD_DIR, default=."`

	// MetricsAddr, when non-empty, exposes /metrics on that address.
	MetricsAddr string `env:"POS_METRICS_ADDR"`

	Session SessionConfig
	Redis   RedisConfig
}

// SessionConfig selects where the session slots are persisted.
type SessionConfig struct {
	// Backend is "file" or "redis".
	Backend string `env:"POS_SESSION_BACKEND, default=file"`
	// Dir holds the slot files for the file backend.
	Dir string `env:"POS_SESSION_DIR, default=.pos-session"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Session.Backend != "file" && cfg.Session.Backend != "redis" {
		return nil, fmt.Errorf("config: unknown session backend %q", cfg.Session.Backend)
	}
	if cfg.PageSize < 1 {
		cfg.PageSize = 10
	}
	return &cfg, nil
}
