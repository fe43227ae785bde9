package docAuth

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/doccare/docAuth/session"
)

func TestConcurrentLoginsLeaveStoreAndMemoryInAgreement(t *testing.T) {
	clock := newFixedClock()
	store := session.NewMemoryStore()
	m := newTestManager(t, store, clock)
	m.Rehydrate(context.Background())

	const n = 16
	tokens := make([]string, n)
	for i := range tokens {
		tokens[i] = mintToken(t, clock.Now().Add(time.Hour), i%2 == 0)
	}

	var wg sync.WaitGroup
	wg.Add(n)
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			p := Profile{Name: fmt.Sprintf("user %d", i), Email: fmt.Sprintf("u%d@example.com", i)}
			errs <- m.Login(context.Background(), p, tokens[i])
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("login failed: %v", err)
		}
	}

	identity, ok := m.Identity()
	if !ok {
		t.Fatal("expected a signed-in identity")
	}
	assertStoreMatches(t, store, identity)
}

func TestConcurrentLoginLogoutEndsConsistent(t *testing.T) {
	clock := newFixedClock()
	store := session.NewMemoryStore()
	m := newTestManager(t, store, clock)
	m.Rehydrate(context.Background())
	token := mintToken(t, clock.Now().Add(time.Hour), false)

	const n = 32
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_ = m.Login(context.Background(), patient, token)
				return
			}
			m.Logout(context.Background())
		}(i)
	}
	wg.Wait()

	identity, ok := m.Identity()
	if !ok {
		if store.Len() != 0 {
			t.Fatalf("logged out in memory but store still holds %d keys", store.Len())
		}
		return
	}
	assertStoreMatches(t, store, identity)
}

func assertStoreMatches(t *testing.T, store session.Store, identity Identity) {
	t.Helper()
	ctx := context.Background()

	token, ok, err := store.Get(ctx, "token")
	if err != nil || !ok {
		t.Fatalf("token missing from store: ok=%v err=%v", ok, err)
	}
	if token != identity.Token {
		t.Fatal("store token differs from in-memory token")
	}
	raw, ok, err := store.Get(ctx, "user")
	if err != nil || !ok {
		t.Fatalf("profile missing from store: ok=%v err=%v", ok, err)
	}
	profile, err := session.DecodeProfile(raw)
	if err != nil {
		t.Fatalf("decode stored profile: %v", err)
	}
	if profile != identity.Profile {
		t.Fatalf("store profile %+v differs from memory %+v", profile, identity.Profile)
	}
}
