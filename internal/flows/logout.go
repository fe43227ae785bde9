package flows

import (
	"context"
	"errors"

	"github.com/doccare/docAuth/session"
)

// LogoutDeps captures logout flow dependencies.
type LogoutDeps struct {
	Store session.Store
	Keys  Keys
}

// RunLogout removes both session keys. Every key is attempted even when an
// earlier removal fails; the failures are joined.
func RunLogout(ctx context.Context, deps LogoutDeps) error {
	if deps.Store == nil {
		return nil
	}
	var errs []error
	for _, key := range []string{deps.Keys.Profile, deps.Keys.Token} {
		if err := deps.Store.Remove(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
