package docAuth

import (
	"fmt"
	"strings"
	"time"

	"github.com/doccare/docAuth/jwt"
)

// LintSeverity ranks a configuration warning.
type LintSeverity uint8

const (
	// LintInfo is worth knowing but usually intended.
	LintInfo LintSeverity = iota
	// LintWarn weakens the session's guarantees.
	LintWarn
	// LintHigh can stall or break the session under load.
	LintHigh
)

func (s LintSeverity) String() string {
	switch s {
	case LintInfo:
		return "info"
	case LintWarn:
		return "warn"
	case LintHigh:
		return "high"
	default:
		return "unknown"
	}
}

// LintWarning is one finding of [Config.Lint].
type LintWarning struct {
	Code     string
	Severity LintSeverity
	Message  string
}

// LintResult is every finding of [Config.Lint], in check order.
type LintResult []LintWarning

// Codes returns the warning codes.
func (r LintResult) Codes() []string {
	out := make([]string, len(r))
	for i, w := range r {
		out[i] = w.Code
	}
	return out
}

// BySeverity returns warnings at or above min.
func (r LintResult) BySeverity(min LintSeverity) LintResult {
	var out LintResult
	for _, w := range r {
		if w.Severity >= min {
			out = append(out, w)
		}
	}
	return out
}

// AsError returns an error listing warnings at or above min, or nil.
func (r LintResult) AsError(min LintSeverity) error {
	hits := r.BySeverity(min)
	if len(hits) == 0 {
		return nil
	}
	parts := make([]string, len(hits))
	for i, w := range hits {
		parts[i] = w.Code + ": " + w.Message
	}
	return fmt.Errorf("config lint (%s+): %s", min, strings.Join(parts, "; "))
}

const leewayLintThreshold = 30 * time.Second

// Lint reports settings that are valid but weaken the session. It never
// fails; use Validate for hard errors.
func (c Config) Lint() LintResult {
	var r LintResult
	add := func(code string, sev LintSeverity, msg string) {
		r = append(r, LintWarning{Code: code, Severity: sev, Message: msg})
	}

	if !c.Token.Verify {
		add("token_unverified", LintWarn, "persisted token signatures are not verified; the server remains the authority")
	} else {
		if strings.EqualFold(c.Token.SigningMethod, string(jwt.MethodHS256)) {
			add("signing_hs256", LintInfo, "HS256 verification puts the shared signing secret on the client")
		}
		if c.Token.Issuer == "" {
			add("issuer_unchecked", LintInfo, "token issuer is not checked")
		}
	}
	if c.Token.Leeway > leewayLintThreshold {
		add("leeway_large", LintWarn, fmt.Sprintf("expiry leeway %s exceeds %s", c.Token.Leeway, leewayLintThreshold))
	}
	if !c.Audit.Enabled {
		add("audit_disabled", LintInfo, "session audit events are not emitted")
	} else if !c.Audit.DropIfFull {
		add("audit_blocking", LintHigh, "a full audit buffer blocks Login and Logout while they hold the session lock")
	}
	if !c.Metrics.Enabled {
		add("metrics_disabled", LintInfo, "session counters are not recorded")
	}
	return r
}
