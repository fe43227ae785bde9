package rate

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// WindowConfig sizes a fixed window.
type WindowConfig struct {
	Prefix      string
	MaxAttempts int
	Window      time.Duration
}

// Window counts attempts per key in Redis over a fixed window.
type Window struct {
	redis  redis.UniversalClient
	config WindowConfig
}

// NewWindow returns a Window backed by redisClient.
func NewWindow(redisClient redis.UniversalClient, cfg WindowConfig) *Window {
	return &Window{redis: redisClient, config: cfg}
}

// Allow implements Limiter. A MaxAttempts of zero disables throttling.
func (w *Window) Allow(ctx context.Context, key string) error {
	if w == nil || w.config.MaxAttempts <= 0 {
		return nil
	}
	count, err := w.incrementWithTTL(ctx, w.key(key))
	if err != nil {
		return err
	}
	if count > int64(w.config.MaxAttempts) {
		return ErrRateLimited
	}
	return nil
}

// Reset clears the counter for key, typically after a successful login.
func (w *Window) Reset(ctx context.Context, key string) error {
	if err := w.redis.Del(ctx, w.key(key)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

func (w *Window) key(key string) string {
	k := "rl:" + normalizeKey(key)
	if w.config.Prefix == "" {
		return k
	}
	return w.config.Prefix + ":" + k
}

func (w *Window) incrementWithTTL(ctx context.Context, key string) (int64, error) {
	count, err := w.redis.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	// TTL only on the first hit so the window does not slide.
	if count == 1 && w.config.Window > 0 {
		if err := w.redis.Expire(ctx, key, w.config.Window).Err(); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}
	return count, nil
}
