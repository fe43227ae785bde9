package flows

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/doccare/docAuth/jwt"
	"github.com/doccare/docAuth/session"
)

// LoginMetrics carries metric IDs needed by the login flow.
type LoginMetrics struct {
	LoginSuccess  int
	LoginRejected int
	PersistFailed int
}

// LoginEvents carries audit event names used by the login flow.
type LoginEvents struct {
	Login         string
	LoginRejected string
}

// LoginErrors carries host-level sentinel errors used by the login flow.
type LoginErrors struct {
	ManagerNotReady error
	TokenMissing    error
	TokenMalformed  error
	ProfileInvalid  error
	PersistFailed   error
}

// LoginDeps captures login dependencies.
type LoginDeps struct {
	Store  session.Store
	Keys   Keys
	Decode func(string) (*jwt.Claims, error)

	MetricInc func(int)
	EmitAudit EmitAuditFunc
	Error     func(string, ...any)
	Warn      func(string, ...any)

	Metrics LoginMetrics
	Events  LoginEvents
	Errors  LoginErrors
}

// LoginResult is the Identity the host should install after a successful login.
type LoginResult struct {
	Profile session.Profile
	Token   string
	Claims  *jwt.Claims
}

// RunLogin validates the profile and token, then persists both. It never touches
// host in-memory state; on success the caller installs the returned identity.
// On a persistence failure both keys are removed again before returning.
func RunLogin(ctx context.Context, profile session.Profile, token string, deps LoginDeps) (*LoginResult, error) {
	if deps.MetricInc == nil {
		deps.MetricInc = func(int) {}
	}
	if deps.EmitAudit == nil {
		deps.EmitAudit = nopAudit
	}
	if deps.Error == nil {
		deps.Error = func(string, ...any) {}
	}
	if deps.Warn == nil {
		deps.Warn = func(string, ...any) {}
	}
	if deps.Store == nil || deps.Decode == nil {
		return nil, deps.Errors.ManagerNotReady
	}

	reject := func(reason string, err error) (*LoginResult, error) {
		deps.MetricInc(deps.Metrics.LoginRejected)
		deps.EmitAudit(ctx, deps.Events.LoginRejected, false, profile.Email, err, func() map[string]string {
			return map[string]string{"reason": reason}
		})
		return nil, err
	}

	if strings.TrimSpace(token) == "" {
		deps.Error("login rejected: no token provided", "email", profile.Email)
		return reject("token_missing", deps.Errors.TokenMissing)
	}
	if err := profile.Validate(); err != nil {
		deps.Warn("login rejected: invalid profile", "error", err)
		return reject("profile_invalid", fmt.Errorf("%w: %v", deps.Errors.ProfileInvalid, err))
	}
	claims, err := deps.Decode(token)
	if err != nil {
		deps.Warn("login rejected: undecodable token", "email", profile.Email, "error", err)
		return reject("token_malformed", fmt.Errorf("%w: %v", deps.Errors.TokenMalformed, err))
	}

	encoded, err := session.EncodeProfile(profile)
	if err != nil {
		return reject("profile_invalid", fmt.Errorf("%w: %v", deps.Errors.ProfileInvalid, err))
	}

	if err := persist(ctx, deps, encoded, token); err != nil {
		deps.MetricInc(deps.Metrics.PersistFailed)
		deps.Error("login failed: session not persisted", "email", profile.Email, "error", err)
		return reject("persist_failed", fmt.Errorf("%w: %v", deps.Errors.PersistFailed, err))
	}

	deps.MetricInc(deps.Metrics.LoginSuccess)
	deps.EmitAudit(ctx, deps.Events.Login, true, profile.Email, nil, func() map[string]string {
		return map[string]string{"admin": fmt.Sprint(profile.IsAdmin)}
	})

	return &LoginResult{Profile: profile, Token: token, Claims: claims}, nil
}

func persist(ctx context.Context, deps LoginDeps, encodedProfile, token string) error {
	err := deps.Store.Set(ctx, deps.Keys.Profile, encodedProfile)
	if err == nil {
		err = deps.Store.Set(ctx, deps.Keys.Token, token)
	}
	if err == nil {
		return nil
	}

	if rbErr := RunLogout(ctx, LogoutDeps{Store: deps.Store, Keys: deps.Keys}); rbErr != nil {
		return errors.Join(err, rbErr)
	}
	return err
}
