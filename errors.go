package docAuth

import "errors"

var (
	// ErrTokenMissing is returned by Login when no usable bearer token is supplied.
	ErrTokenMissing = errors.New("no token provided")
	// ErrTokenMalformed is returned when a token is not a decodable three-segment token.
	ErrTokenMalformed = errors.New("malformed token")
	// ErrTokenExpired reports a token whose exp claim is not in the future.
	ErrTokenExpired = errors.New("token expired")
	// ErrProfileInvalid is returned when a profile lacks a name or email.
	ErrProfileInvalid = errors.New("invalid profile")
	// ErrSessionPersistFailed wraps Session Store write failures during Login.
	ErrSessionPersistFailed = errors.New("session persist failed")
	// ErrStoreRequired is returned by Build when no Session Store was supplied.
	ErrStoreRequired = errors.New("session store required")
	// ErrManagerNotReady is returned by Wait when rehydration has not completed.
	ErrManagerNotReady = errors.New("session manager not ready")
	// ErrBuilderUsed is returned when Build is called twice on one Builder.
	ErrBuilderUsed = errors.New("builder already used")
	// ErrLoginRateLimited is returned when login or signup attempts exceed the throttle.
	ErrLoginRateLimited = errors.New("too many login attempts")
	// ErrInvalidAccessLevel is returned when parsing an unknown access level.
	ErrInvalidAccessLevel = errors.New("invalid access level")
)
