package jwt

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMalformed is returned for tokens that are not three base64url segments
	// carrying a JSON header and a JSON claim set.
	ErrMalformed = errors.New("malformed token")
	// ErrMissingExpiry is returned when the claim set has no exp claim.
	ErrMissingExpiry = errors.New("token has no expiry")
	// ErrSignature is returned in verification mode when the signature does not match.
	ErrSignature = errors.New("token signature invalid")
	// ErrClaimMismatch is returned in verification mode when issuer or audience differ.
	ErrClaimMismatch = errors.New("token issuer or audience mismatch")
)

// SigningMethod names the algorithm used when verification is enabled.
type SigningMethod string

const (
	// MethodEd25519 verifies EdDSA signatures with an Ed25519 public key.
	MethodEd25519 SigningMethod = "ed25519"
	// MethodHS256 verifies HMAC-SHA256 signatures with a shared secret.
	MethodHS256 SigningMethod = "hs256"
)

// Config controls decoding. The zero value decodes without verification.
type Config struct {
	Verify        bool
	SigningMethod SigningMethod
	// Key is the HS256 secret or the Ed25519 public key (raw or PEM).
	Key      []byte
	Issuer   string
	Audience string
}

// Claims is the decoded token claim set.
type Claims struct {
	UserID  string `json:"id,omitempty"`
	IsAdmin bool   `json:"isAdmin,omitempty"`
	jwt.RegisteredClaims
}

// Expiry returns the exp claim, or the zero time when absent.
func (c *Claims) Expiry() time.Time {
	if c == nil || c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// Decoder turns compact tokens into Claims.
type Decoder struct {
	config    Config
	verifyKey interface{}
}

// NewDecoder validates cfg and returns a Decoder.
func NewDecoder(cfg Config) (*Decoder, error) {
	d := &Decoder{config: cfg}
	if !cfg.Verify {
		return d, nil
	}

	switch cfg.SigningMethod {
	case MethodHS256:
		if len(cfg.Key) == 0 {
			return nil, errors.New("hs256 requires a key")
		}
		d.verifyKey = cfg.Key
	case MethodEd25519:
		key, err := parseEdPublicKey(cfg.Key)
		if err != nil {
			return nil, err
		}
		d.verifyKey = key
	default:
		return nil, errors.New("unsupported signing method")
	}
	return d, nil
}

// Verifying reports whether signatures are checked.
func (d *Decoder) Verifying() bool {
	return d.config.Verify
}

// Decode parses token into Claims. Expired tokens decode successfully; callers
// compare [Claims.Expiry] with their own clock.
func (d *Decoder) Decode(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if strings.Count(token, ".") != 2 {
		return nil, fmt.Errorf("%w: expected three segments", ErrMalformed)
	}

	claims := &Claims{}
	if d.config.Verify {
		if err := d.verify(token, claims); err != nil {
			return nil, err
		}
	} else {
		if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	}

	if claims.ExpiresAt == nil {
		return nil, ErrMissingExpiry
	}
	return claims, nil
}

func (d *Decoder) verify(token string, claims *Claims) error {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{d.method().Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	_, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return d.verifyKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return fmt.Errorf("%w: %v", ErrSignature, err)
	}

	if d.config.Issuer != "" && claims.Issuer != d.config.Issuer {
		return fmt.Errorf("%w: issuer %q", ErrClaimMismatch, claims.Issuer)
	}
	if d.config.Audience != "" && !slices.Contains(claims.Audience, d.config.Audience) {
		return fmt.Errorf("%w: audience %v", ErrClaimMismatch, []string(claims.Audience))
	}
	return nil
}

func (d *Decoder) method() jwt.SigningMethod {
	switch d.config.SigningMethod {
	case MethodHS256:
		return jwt.SigningMethodHS256
	default:
		return jwt.SigningMethodEdDSA
	}
}

func parseEdPublicKey(key []byte) (ed25519.PublicKey, error) {
	if len(key) == ed25519.PublicKeySize {
		return ed25519.PublicKey(key), nil
	}
	parsed, err := jwt.ParseEdPublicKeyFromPEM(key)
	if err != nil {
		return nil, errors.New("invalid ed25519 public key")
	}
	edKey, ok := parsed.(ed25519.PublicKey)
	if !ok {
		return nil, errors.New("invalid ed25519 public key type")
	}
	return edKey, nil
}
