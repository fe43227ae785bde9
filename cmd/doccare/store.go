package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/doccare/docAuth/internal/rate"
	"github.com/doccare/docAuth/portal"
	"github.com/doccare/docAuth/session"
)

type backend struct {
	store    session.Store
	throttle portal.Throttle
	closers  []func() error
}

// openBackend selects the session store and a matching login throttle. Redis
// shares the throttle across invocations; every other store throttles per
// process.
func openBackend(ctx context.Context, cfg config, logger *slog.Logger) (*backend, error) {
	local := rate.NewLocal(cfg.LoginRate, cfg.LoginBurst)

	switch cfg.Store {
	case storeMemory:
		return &backend{store: session.NewMemoryStore(), throttle: local}, nil

	case storeFile:
		return &backend{store: session.NewFileStore(cfg.storePath()), throttle: local}, nil

	case storeSQLite:
		st, err := session.OpenSQLite(cfg.storePath())
		if err != nil {
			return nil, err
		}
		return &backend{store: st, throttle: local, closers: []func() error{st.Close}}, nil

	case storeRedis:
		b := &backend{}
		addr := cfg.RedisAddr
		if addr == "" {
			mr, err := miniredis.Run()
			if err != nil {
				return nil, fmt.Errorf("start embedded redis: %w", err)
			}
			logger.Warn("DOCCARE_REDIS_ADDR empty; using embedded redis, session will not persist", "addr", mr.Addr())
			addr = mr.Addr()
			b.closers = append(b.closers, func() error { mr.Close(); return nil })
		}

		client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})
		// Closers run in reverse, so the client closes before miniredis.
		b.closers = append(b.closers, client.Close)

		st := session.NewRedisStore(client, cfg.RedisPrefix, cfg.SessionTTL)
		if _, err := st.Ping(ctx); err != nil {
			_ = b.close()
			return nil, err
		}
		b.store = st
		b.throttle = rate.NewWindow(client, rate.WindowConfig{
			Prefix:      cfg.RedisPrefix,
			MaxAttempts: throttleAttempts(cfg),
			Window:      cfg.loginWindow(),
		})
		return b, nil
	}
	return nil, fmt.Errorf("unknown store %q", cfg.Store)
}

func throttleAttempts(cfg config) int {
	if cfg.LoginRate <= 0 {
		return 0
	}
	return cfg.LoginBurst
}

func (b *backend) close() error {
	var first error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	b.closers = nil
	return first
}
