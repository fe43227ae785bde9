package middleware

import (
	"net/http"

	docAuth "github.com/doccare/docAuth"
)

// Session is the part of [docAuth.Manager] the guards need.
type Session interface {
	Ready() <-chan struct{}
	Admit(level docAuth.AccessLevel) docAuth.Decision
	Identity() (docAuth.Identity, bool)
}

// Guard admits requests whose session satisfies level and redirects the rest
// to the decision's target. Until the session has rehydrated the request
// waits; if the client gives up first it gets 503.
func Guard(session Session, level docAuth.AccessLevel) func(http.Handler) http.Handler {
	return guard(session, func(*http.Request) docAuth.AccessLevel { return level })
}

// Routes resolves each request's level from routes by URL path.
func Routes(session Session, routes *docAuth.RouteTable) func(http.Handler) http.Handler {
	return guard(session, func(r *http.Request) docAuth.AccessLevel { return routes.Level(r.URL.Path) })
}

func guard(session Session, levelOf func(*http.Request) docAuth.AccessLevel) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if session == nil {
				http.Error(w, "unavailable", http.StatusServiceUnavailable)
				return
			}

			select {
			case <-session.Ready():
			case <-r.Context().Done():
				http.Error(w, "loading", http.StatusServiceUnavailable)
				return
			}

			d := session.Admit(levelOf(r))
			if !d.Admit {
				http.Redirect(w, r, d.RedirectTo, http.StatusFound)
				return
			}

			ctx := r.Context()
			if identity, ok := session.Identity(); ok {
				ctx = docAuth.WithIdentity(ctx, identity)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
