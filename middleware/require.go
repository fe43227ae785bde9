package middleware

import (
	"net/http"

	docAuth "github.com/doccare/docAuth"
)

// RequireAuthenticated redirects anonymous requests to the login route.
func RequireAuthenticated(session Session) func(http.Handler) http.Handler {
	return Guard(session, docAuth.AccessAuthenticated)
}

// RequireAdmin redirects anonymous requests to the login route and signed-in
// non-administrators to the home route.
func RequireAdmin(session Session) func(http.Handler) http.Handler {
	return Guard(session, docAuth.AccessAdministrative)
}
