package docAuth

const (
	// RouteLogin is where unauthenticated navigation is redirected.
	RouteLogin = "/auth"
	// RouteHome is where non-admin navigation to admin targets is redirected.
	RouteHome = "/"
	// RouteAdmin is the administrative landing page.
	RouteAdmin = "/admin"
)

// Decide is the route guard. It is pure: the same identity and level always
// yield the same Decision. A nil identity means no one is signed in. Unknown
// levels are treated as administrative.
func Decide(identity *Identity, level AccessLevel) Decision {
	switch level {
	case AccessPublic:
		return Decision{Admit: true}
	case AccessAuthenticated:
		if identity == nil {
			return Decision{RedirectTo: RouteLogin, Reason: ReasonUnauthenticated}
		}
		return Decision{Admit: true}
	default:
		if identity == nil {
			return Decision{RedirectTo: RouteLogin, Reason: ReasonUnauthenticated}
		}
		if !identity.IsAdmin {
			return Decision{RedirectTo: RouteHome, Reason: ReasonNotAdmin}
		}
		return Decision{Admit: true}
	}
}
