package docAuth

import (
	"errors"
	"strings"
	"time"
)

// Config controls a session [Manager].
//
// Config values are intended to be configured during initialization and then
// treated as immutable.
type Config struct {
	Session SessionConfig
	Token   TokenConfig
	Audit   AuditConfig
	Metrics MetricsConfig
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig names the store keys a session occupies.
type SessionConfig struct {
	ProfileKey string
	TokenKey   string
	// KeyPrefix namespaces both keys as "<prefix>:<key>" when set.
	KeyPrefix string
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig controls bearer-token decoding and expiry comparison.
type TokenConfig struct {
	// Verify enables signature verification. Without it the token is decoded
	// but not verified.
	Verify        bool
	SigningMethod string // "hs256" or "ed25519"
	Key           []byte
	Issuer        string
	Audience      string
	// Leeway tolerates clock skew when comparing exp against the clock.
	Leeway time.Duration
}

/*
====================================
AUDIT / METRICS CONFIG
====================================
*/

// AuditConfig controls the buffered audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig toggles the in-process counters.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultConfig returns the configuration matching the DocCare web client:
// keys "user" and "token", unverified decoding, no leeway.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Session: SessionConfig{
			ProfileKey: "user",
			TokenKey:   "token",
		},
		Token: TokenConfig{
			SigningMethod: "hs256",
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Token.Key = cloneBytes(cfg.Token.Key)
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

func (c SessionConfig) profileKey() string {
	return prefixed(c.KeyPrefix, c.ProfileKey)
}

func (c SessionConfig) tokenKey() string {
	return prefixed(c.KeyPrefix, c.TokenKey)
}

func prefixed(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + ":" + key
}

/*
====================================
VALIDATION
====================================
*/

// Validate reports the first configuration error.
func (c *Config) Validate() error {
	// Session
	if strings.TrimSpace(c.Session.ProfileKey) == "" {
		return errors.New("Session ProfileKey must be set")
	}
	if strings.TrimSpace(c.Session.TokenKey) == "" {
		return errors.New("Session TokenKey must be set")
	}
	if c.Session.ProfileKey == c.Session.TokenKey {
		return errors.New("Session ProfileKey and TokenKey must differ")
	}
	if strings.ContainsAny(c.Session.KeyPrefix, " \t\n") {
		return errors.New("Session KeyPrefix must not contain whitespace")
	}

	// Token
	if c.Token.Leeway < 0 || c.Token.Leeway > 5*time.Minute {
		return errors.New("Token Leeway must be between 0 and 5m")
	}
	if c.Token.Verify {
		if c.Token.SigningMethod != "ed25519" && c.Token.SigningMethod != "hs256" {
			return errors.New("unsupported Token signing method")
		}
		if len(c.Token.Key) == 0 {
			return errors.New("Token Verify requires Key")
		}
	}
	if c.Token.Issuer != "" && strings.TrimSpace(c.Token.Issuer) == "" {
		return errors.New("Token Issuer must not be blank")
	}
	if c.Token.Audience != "" && strings.TrimSpace(c.Token.Audience) == "" {
		return errors.New("Token Audience must not be blank")
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when enabled")
	}

	return nil
}
