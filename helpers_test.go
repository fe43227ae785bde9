package docAuth

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/doccare/docAuth/jwt"
	"github.com/doccare/docAuth/session"
	gjwt "github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("docauth-test-secret-docauth-test")

func mintToken(t testing.TB, exp time.Time, admin bool) string {
	t.Helper()
	claims := jwt.Claims{
		UserID:  "u-1",
		IsAdmin: admin,
		RegisteredClaims: gjwt.RegisteredClaims{
			ExpiresAt: gjwt.NewNumericDate(exp),
			IssuedAt:  gjwt.NewNumericDate(exp.Add(-time.Hour)),
		},
	}
	token, err := gjwt.NewWithClaims(gjwt.SigningMethodHS256, claims).SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFixedClock() *fixedClock {
	return &fixedClock{now: time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)}
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestManager(t *testing.T, store session.Store, clock *fixedClock, opts ...func(*Builder)) *Manager {
	t.Helper()
	b := New().
		WithStore(store).
		WithClock(clock.Now).
		WithMetricsEnabled(true)
	for _, opt := range opts {
		opt(b)
	}
	m, err := b.Build()
	if err != nil {
		t.Fatalf("build manager: %v", err)
	}
	t.Cleanup(m.Close)
	return m
}

var (
	patient = Profile{Name: "Asha Rao", Email: "asha@example.com"}
	admin   = Profile{Name: "Dr. Admin", Email: "admin@doccare.test", IsAdmin: true}
)

// faultStore wraps a MemoryStore and fails selected operations.
type faultStore struct {
	*session.MemoryStore
	mu         sync.Mutex
	failSetKey string
	failGet    bool
	failRemove bool
}

func newFaultStore() *faultStore {
	return &faultStore{MemoryStore: session.NewMemoryStore()}
}

func (s *faultStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	fail := s.failGet
	s.mu.Unlock()
	if fail {
		return "", false, session.ErrStoreUnavailable
	}
	return s.MemoryStore.Get(ctx, key)
}

func (s *faultStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	fail := s.failSetKey != "" && s.failSetKey == key
	s.mu.Unlock()
	if fail {
		return session.ErrStoreUnavailable
	}
	return s.MemoryStore.Set(ctx, key, value)
}

func (s *faultStore) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	fail := s.failRemove
	s.mu.Unlock()
	if fail {
		return session.ErrStoreUnavailable
	}
	return s.MemoryStore.Remove(ctx, key)
}

type syncBuffer struct {
	mu sync.Mutex
	b  strings.Builder
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

func (s *syncBuffer) Contains(sub string) bool {
	return strings.Contains(s.String(), sub)
}
