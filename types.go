package docAuth

import (
	"strings"
	"time"

	"github.com/doccare/docAuth/session"
)

// Profile is the signed-in user's profile. It is persisted without the token.
type Profile = session.Profile

// Identity is a signed-in user: a valid profile plus a non-empty, decodable
// bearer token. Values handed out by the [Manager] are copies.
type Identity struct {
	Profile
	Token string
	// ExpiresAt is the token's exp claim.
	ExpiresAt time.Time
}

// Expired reports whether the token's exp is not after now.
func (i Identity) Expired(now time.Time) bool {
	return !i.ExpiresAt.After(now)
}

// AccessLevel is the protection level of a navigation target.
type AccessLevel uint8

const (
	// AccessPublic admits everyone.
	AccessPublic AccessLevel = iota
	// AccessAuthenticated admits any signed-in user.
	AccessAuthenticated
	// AccessAdministrative admits signed-in administrators only.
	AccessAdministrative
)

// String returns the lower-case level name.
func (l AccessLevel) String() string {
	switch l {
	case AccessPublic:
		return "public"
	case AccessAuthenticated:
		return "authenticated"
	case AccessAdministrative:
		return "administrative"
	default:
		return "unknown"
	}
}

// ParseAccessLevel parses "public", "authenticated" or "administrative".
func ParseAccessLevel(s string) (AccessLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "public":
		return AccessPublic, nil
	case "authenticated", "auth":
		return AccessAuthenticated, nil
	case "administrative", "admin":
		return AccessAdministrative, nil
	default:
		return 0, ErrInvalidAccessLevel
	}
}

// DenyReason explains a redirect decision.
type DenyReason uint8

const (
	// ReasonNone accompanies an admit decision.
	ReasonNone DenyReason = iota
	// ReasonUnauthenticated means no one is signed in.
	ReasonUnauthenticated
	// ReasonNotAdmin means the signed-in user is not an administrator.
	ReasonNotAdmin
)

func (r DenyReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonUnauthenticated:
		return "unauthenticated"
	case ReasonNotAdmin:
		return "not_admin"
	default:
		return "unknown"
	}
}

// Decision is the route guard's verdict: admit, or redirect to RedirectTo.
type Decision struct {
	Admit      bool
	RedirectTo string
	Reason     DenyReason
}

// RehydrateOutcome is the coarse result of [Manager.Rehydrate].
type RehydrateOutcome uint8

const (
	// RehydrateEmpty means nothing complete was persisted.
	RehydrateEmpty RehydrateOutcome = iota
	// RehydrateRestored means the persisted session was restored.
	RehydrateRestored
	// RehydrateExpired means the persisted token had expired and was discarded.
	RehydrateExpired
	// RehydrateInvalid means the persisted session was unreadable and was discarded.
	RehydrateInvalid
)

func (o RehydrateOutcome) String() string {
	switch o {
	case RehydrateEmpty:
		return "empty"
	case RehydrateRestored:
		return "restored"
	case RehydrateExpired:
		return "expired"
	case RehydrateInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}
