package rate

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter reports whether another attempt for key may proceed now.
// It returns ErrRateLimited when it may not.
type Limiter interface {
	Allow(ctx context.Context, key string) error
}

// Local keeps one token bucket per key. A zero Limit disables throttling.
type Local struct {
	limit rate.Limit
	burst int

	mu      sync.Mutex
	buckets map[string]*rate.Limiter
}

// NewLocal returns a Local refilling perSecond tokens up to burst.
func NewLocal(perSecond float64, burst int) *Local {
	if burst < 1 {
		burst = 1
	}
	return &Local{
		limit:   rate.Limit(perSecond),
		burst:   burst,
		buckets: make(map[string]*rate.Limiter),
	}
}

// Allow implements Limiter.
func (l *Local) Allow(_ context.Context, key string) error {
	if l == nil || l.limit <= 0 {
		return nil
	}
	if l.bucket(key).Allow() {
		return nil
	}
	return ErrRateLimited
}

func (l *Local) bucket(key string) *rate.Limiter {
	key = normalizeKey(key)

	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.buckets[key]
	if !ok {
		b = rate.NewLimiter(l.limit, l.burst)
		l.buckets[key] = b
	}
	return b
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
