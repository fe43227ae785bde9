package flows

import "context"

// Keys names the two logical store keys a session occupies.
type Keys struct {
	Profile string
	Token   string
}

// EmitAuditFunc records a session event. subject is the profile email when known.
type EmitAuditFunc func(ctx context.Context, event string, success bool, subject string, err error, metadata func() map[string]string)

// Deps groups flow dependency sets. The root Manager builds this once and
// delegates each operation to the matching flow.
type Deps struct {
	Rehydrate RehydrateDeps
	Login     LoginDeps
	Logout    LogoutDeps
}

func nopAudit(context.Context, string, bool, string, error, func() map[string]string) {}
