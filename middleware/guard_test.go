package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	docAuth "github.com/doccare/docAuth"
)

type fakeSession struct {
	ready    chan struct{}
	identity *docAuth.Identity
}

func newFakeSession(identity *docAuth.Identity) *fakeSession {
	s := &fakeSession{ready: make(chan struct{}), identity: identity}
	close(s.ready)
	return s
}

func (s *fakeSession) Ready() <-chan struct{} { return s.ready }

func (s *fakeSession) Admit(level docAuth.AccessLevel) docAuth.Decision {
	return docAuth.Decide(s.identity, level)
}

func (s *fakeSession) Identity() (docAuth.Identity, bool) {
	if s.identity == nil {
		return docAuth.Identity{}, false
	}
	return *s.identity, true
}

var (
	patient = &docAuth.Identity{Profile: docAuth.Profile{Name: "Asha", Email: "asha@example.com"}, Token: "t"}
	admin   = &docAuth.Identity{Profile: docAuth.Profile{Name: "Root", Email: "root@example.com", IsAdmin: true}, Token: "t"}
)

func okHandler(t *testing.T, wantEmail string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := docAuth.IdentityFromContext(r.Context())
		if wantEmail != "" && (!ok || identity.Email != wantEmail) {
			t.Errorf("expected identity %q in context, got %+v", wantEmail, identity)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestGuardDecisions(t *testing.T) {
	tests := []struct {
		name     string
		identity *docAuth.Identity
		wrap     func(Session) func(http.Handler) http.Handler
		wantCode int
		wantLoc  string
	}{
		{"anonymous authenticated", nil, RequireAuthenticated, http.StatusFound, docAuth.RouteLogin},
		{"patient authenticated", patient, RequireAuthenticated, http.StatusOK, ""},
		{"anonymous admin", nil, RequireAdmin, http.StatusFound, docAuth.RouteLogin},
		{"patient admin", patient, RequireAdmin, http.StatusFound, docAuth.RouteHome},
		{"admin admin", admin, RequireAdmin, http.StatusOK, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			email := ""
			if tc.identity != nil {
				email = tc.identity.Email
			}
			h := tc.wrap(newFakeSession(tc.identity))(okHandler(t, email))

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}
			if loc := rec.Header().Get("Location"); loc != tc.wantLoc {
				t.Fatalf("expected Location %q, got %q", tc.wantLoc, loc)
			}
		})
	}
}

func TestRoutesUsesPathLevel(t *testing.T) {
	h := Routes(newFakeSession(patient), docAuth.DefaultRoutes())(okHandler(t, ""))

	for path, want := range map[string]int{
		"/doctors":         http.StatusOK,
		"/my-appointments": http.StatusOK,
		"/admin/users":     http.StatusFound,
		"/unknown":         http.StatusOK,
	} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != want {
			t.Fatalf("%s: expected %d, got %d", path, want, rec.Code)
		}
	}
}

func TestGuardWaitsForRehydration(t *testing.T) {
	s := &fakeSession{ready: make(chan struct{}), identity: patient}
	h := RequireAuthenticated(s)(okHandler(t, ""))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/my-appointments", nil).WithContext(ctx))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 before rehydration, got %d", rec.Code)
	}

	close(s.ready)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/my-appointments", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 after rehydration, got %d", rec.Code)
	}
}

func TestGuardNilSession(t *testing.T) {
	rec := httptest.NewRecorder()
	Guard(nil, docAuth.AccessPublic)(okHandler(t, "")).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
