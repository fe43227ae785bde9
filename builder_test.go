package docAuth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/doccare/docAuth/jwt"
	"github.com/doccare/docAuth/session"
)

func TestBuildRequiresStore(t *testing.T) {
	if _, err := New().Build(); !errors.Is(err, ErrStoreRequired) {
		t.Fatalf("expected ErrStoreRequired, got %v", err)
	}
}

func TestBuildRefusesReuse(t *testing.T) {
	b := New().WithStore(session.NewMemoryStore())
	if _, err := b.Build(); err != nil {
		t.Fatalf("first build: %v", err)
	}
	if _, err := b.Build(); !errors.Is(err, ErrBuilderUsed) {
		t.Fatalf("expected ErrBuilderUsed, got %v", err)
	}
}

func TestBuildValidatesConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Session.TokenKey = ""
	if _, err := New().WithConfig(cfg).WithStore(session.NewMemoryStore()).Build(); err == nil {
		t.Fatal("expected invalid config to fail build")
	}

	cfg = DefaultConfig()
	cfg.Token.Verify = true
	cfg.Token.SigningMethod = "ed25519"
	cfg.Token.Key = []byte("not-a-key")
	if _, err := New().WithConfig(cfg).WithStore(session.NewMemoryStore()).Build(); err == nil {
		t.Fatal("expected bad ed25519 key to fail build")
	}
}

func TestBuildWithVerifyingDecoderRejectsForeignTokens(t *testing.T) {
	clock := newFixedClock()
	cfg := DefaultConfig()
	cfg.Token.Verify = true
	cfg.Token.Key = []byte("some-other-secret-some-other-sec")

	m := newTestManager(t, session.NewMemoryStore(), clock, func(b *Builder) { b.WithConfig(cfg) })
	err := m.Login(t.Context(), patient, mintToken(t, clock.Now().Add(time.Hour), false))
	if !errors.Is(err, ErrTokenMalformed) || !strings.Contains(err.Error(), "signature") {
		t.Fatalf("expected signature rejection, got %v", err)
	}
}

type stubDecoder struct{ err error }

func (s stubDecoder) Decode(string) (*jwt.Claims, error) { return nil, s.err }

func TestWithDecoderOverridesDefault(t *testing.T) {
	boom := errors.New("boom")
	m := newTestManager(t, session.NewMemoryStore(), newFixedClock(), func(b *Builder) {
		b.WithDecoder(stubDecoder{err: boom})
	})
	if err := m.Login(t.Context(), patient, "a.b.c"); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("expected decoder error mapped to ErrTokenMalformed, got %v", err)
	}
}
