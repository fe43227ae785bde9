package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	storeFile   = "file"
	storeRedis  = "redis"
	storeSQLite = "sqlite"
	storeMemory = "memory"
)

type config struct {
	APIBase     string        `env:"DOCCARE_API_BASE" envDefault:"http://localhost:5000/api"`
	Store       string        `env:"DOCCARE_STORE" envDefault:"file"`
	StorePath   string        `env:"DOCCARE_STORE_PATH"`
	RedisAddr   string        `env:"DOCCARE_REDIS_ADDR"`
	RedisPrefix string        `env:"DOCCARE_REDIS_PREFIX" envDefault:"doccare"`
	SessionTTL  time.Duration `env:"DOCCARE_SESSION_TTL"`
	LogLevel    string        `env:"DOCCARE_LOG_LEVEL" envDefault:"warn"`
	Audit       bool          `env:"DOCCARE_AUDIT"`
	JWTSecret   string        `env:"DOCCARE_JWT_SECRET"`
	LoginRate   float64       `env:"DOCCARE_LOGIN_RATE" envDefault:"0.2"`
	LoginBurst  int           `env:"DOCCARE_LOGIN_BURST" envDefault:"5"`
	Timeout     time.Duration `env:"DOCCARE_TIMEOUT" envDefault:"10s"`
}

// loadConfig parses environ, or the process environment when environ is nil.
func loadConfig(environ map[string]string) (config, error) {
	var cfg config
	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Store = strings.ToLower(strings.TrimSpace(cfg.Store))
	return cfg, cfg.validate()
}

func (c config) validate() error {
	switch c.Store {
	case storeFile, storeRedis, storeSQLite, storeMemory:
	default:
		return fmt.Errorf("DOCCARE_STORE must be one of file, redis, sqlite, memory; got %q", c.Store)
	}
	if c.LoginRate < 0 {
		return errors.New("DOCCARE_LOGIN_RATE must be >= 0")
	}
	if c.LoginBurst < 1 {
		return errors.New("DOCCARE_LOGIN_BURST must be >= 1")
	}
	if c.Timeout <= 0 {
		return errors.New("DOCCARE_TIMEOUT must be > 0")
	}
	if c.SessionTTL < 0 {
		return errors.New("DOCCARE_SESSION_TTL must be >= 0")
	}
	return nil
}

// storePath returns DOCCARE_STORE_PATH or a default under the user config dir.
func (c config) storePath() string {
	if c.StorePath != "" {
		return c.StorePath
	}
	name := "session.json"
	if c.Store == storeSQLite {
		name = "session.db"
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".doccare", name)
	}
	return filepath.Join(dir, "doccare", name)
}

// loginWindow is the fixed window that admits LoginBurst attempts at LoginRate.
func (c config) loginWindow() time.Duration {
	if c.LoginRate <= 0 {
		return 0
	}
	return time.Duration(float64(c.LoginBurst) / c.LoginRate * float64(time.Second))
}
