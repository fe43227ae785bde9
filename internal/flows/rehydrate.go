package flows

import (
	"context"
	"errors"
	"time"

	"github.com/doccare/docAuth/jwt"
	"github.com/doccare/docAuth/session"
)

// RehydrateKind classifies rehydration results for root-level mapping.
type RehydrateKind int

const (
	// RehydrateKindEmpty means no complete session was persisted.
	RehydrateKindEmpty RehydrateKind = iota
	// RehydrateKindRestored means the persisted session was valid and restored.
	RehydrateKindRestored
	// RehydrateKindExpired means the persisted token was past its expiry.
	RehydrateKindExpired
	// RehydrateKindInvalid means the persisted session could not be read or decoded.
	RehydrateKindInvalid
)

// RehydrateMetrics carries metric IDs for each rehydration outcome.
type RehydrateMetrics struct {
	Restored int
	Empty    int
	Expired  int
	Invalid  int
}

// RehydrateDeps captures rehydration dependencies.
type RehydrateDeps struct {
	Store  session.Store
	Keys   Keys
	Decode func(string) (*jwt.Claims, error)
	Now    func() time.Time
	Leeway time.Duration

	MetricInc func(int)
	EmitAudit EmitAuditFunc
	Info      func(string, ...any)
	Debug     func(string, ...any)

	Metrics RehydrateMetrics
	Event   string
	// Expired is recorded as the audit error of an expired session.
	Expired error
}

// RehydrateResult is the outcome of RunRehydrate. Profile, Token and Claims
// are only set for RehydrateKindRestored.
type RehydrateResult struct {
	Kind    RehydrateKind
	Profile session.Profile
	Token   string
	Claims  *jwt.Claims
	Reason  string
}

// RunRehydrate restores a persisted session. Any failure to produce a valid
// identity from a persisted pair leaves the store logged out.
func RunRehydrate(ctx context.Context, deps RehydrateDeps) RehydrateResult {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.MetricInc == nil {
		deps.MetricInc = func(int) {}
	}
	if deps.EmitAudit == nil {
		deps.EmitAudit = nopAudit
	}
	if deps.Info == nil {
		deps.Info = func(string, ...any) {}
	}
	if deps.Debug == nil {
		deps.Debug = func(string, ...any) {}
	}

	res := rehydrate(ctx, deps)

	switch res.Kind {
	case RehydrateKindRestored:
		deps.MetricInc(deps.Metrics.Restored)
		deps.Debug("session restored", "email", res.Profile.Email)
	case RehydrateKindEmpty:
		deps.MetricInc(deps.Metrics.Empty)
		deps.Debug("no persisted session")
	case RehydrateKindExpired:
		deps.MetricInc(deps.Metrics.Expired)
	case RehydrateKindInvalid:
		deps.MetricInc(deps.Metrics.Invalid)
	}

	if res.Kind == RehydrateKindExpired || res.Kind == RehydrateKindInvalid {
		deps.Info("persisted session discarded", "reason", res.Reason)
		if err := RunLogout(ctx, LogoutDeps{Store: deps.Store, Keys: deps.Keys}); err != nil {
			deps.Info("clearing discarded session failed", "error", err)
		}
	}

	var auditErr error
	if res.Kind == RehydrateKindExpired {
		auditErr = deps.Expired
	}
	deps.EmitAudit(ctx, deps.Event, res.Kind == RehydrateKindRestored, res.Profile.Email, auditErr, func() map[string]string {
		return map[string]string{"outcome": res.Reason}
	})
	return res
}

func rehydrate(ctx context.Context, deps RehydrateDeps) RehydrateResult {
	if deps.Store == nil || deps.Decode == nil {
		return RehydrateResult{Kind: RehydrateKindInvalid, Reason: "not_configured"}
	}

	token, hasToken, err := deps.Store.Get(ctx, deps.Keys.Token)
	if err != nil {
		return RehydrateResult{Kind: RehydrateKindInvalid, Reason: "store_read_failed"}
	}
	rawProfile, hasProfile, err := deps.Store.Get(ctx, deps.Keys.Profile)
	if err != nil {
		return RehydrateResult{Kind: RehydrateKindInvalid, Reason: "store_read_failed"}
	}
	if !hasToken || !hasProfile {
		return RehydrateResult{Kind: RehydrateKindEmpty, Reason: "empty"}
	}

	claims, err := deps.Decode(token)
	if err != nil {
		if errors.Is(err, jwt.ErrMissingExpiry) {
			return RehydrateResult{Kind: RehydrateKindInvalid, Reason: "missing_expiry"}
		}
		return RehydrateResult{Kind: RehydrateKindInvalid, Reason: "token_malformed"}
	}
	if !claims.Expiry().After(deps.Now().Add(-deps.Leeway)) {
		return RehydrateResult{Kind: RehydrateKindExpired, Reason: "expired"}
	}

	profile, err := session.DecodeProfile(rawProfile)
	if err != nil {
		return RehydrateResult{Kind: RehydrateKindInvalid, Reason: "profile_invalid"}
	}

	return RehydrateResult{
		Kind:    RehydrateKindRestored,
		Profile: profile,
		Token:   token,
		Claims:  claims,
		Reason:  "restored",
	}
}
