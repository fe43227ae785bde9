package jwt

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	gjwt "github.com/golang-jwt/jwt/v5"
)

var hsSecret = []byte("doccare-test-secret-doccare-test")

func signHS(t testing.TB, claims Claims) string {
	t.Helper()
	token, err := gjwt.NewWithClaims(gjwt.SigningMethodHS256, claims).SignedString(hsSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func expiring(d time.Duration) Claims {
	return Claims{
		UserID:  "u-1",
		IsAdmin: true,
		RegisteredClaims: gjwt.RegisteredClaims{
			ExpiresAt: gjwt.NewNumericDate(time.Now().Add(d)),
			IssuedAt:  gjwt.NewNumericDate(time.Now()),
		},
	}
}

func TestDecodeUnverified(t *testing.T) {
	d, err := NewDecoder(Config{})
	if err != nil {
		t.Fatalf("new decoder: %v", err)
	}
	if d.Verifying() {
		t.Fatal("zero config should not verify")
	}

	claims, err := d.Decode(signHS(t, expiring(time.Hour)))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if claims.UserID != "u-1" || !claims.IsAdmin {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if claims.Expiry().Before(time.Now()) {
		t.Fatal("expected future expiry")
	}
}

func TestDecodeAcceptsExpiredTokens(t *testing.T) {
	d, _ := NewDecoder(Config{})
	claims, err := d.Decode(signHS(t, expiring(-time.Hour)))
	if err != nil {
		t.Fatalf("expired token must still decode: %v", err)
	}
	if !claims.Expiry().Before(time.Now()) {
		t.Fatal("expected past expiry")
	}
}

func TestDecodeIgnoresSignatureWhenUnverified(t *testing.T) {
	d, _ := NewDecoder(Config{})
	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"exp":4102444800}`))
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	claims, err := d.Decode(header + "." + payload + ".garbage")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if claims.Expiry().Unix() != 4102444800 {
		t.Fatalf("unexpected exp %v", claims.Expiry())
	}
}

func TestDecodeRejects(t *testing.T) {
	d, _ := NewDecoder(Config{})
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256"}`))
	noExp := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"x"}`))
	notJSON := base64.RawURLEncoding.EncodeToString([]byte(`exp=1`))

	cases := []struct {
		name  string
		token string
		want  error
	}{
		{"empty", "", ErrMalformed},
		{"one segment", "abc", ErrMalformed},
		{"four segments", "a.b.c.d", ErrMalformed},
		{"bad base64", header + ".!!!.sig", ErrMalformed},
		{"claims not json", header + "." + notJSON + ".sig", ErrMalformed},
		{"missing exp", header + "." + noExp + ".sig", ErrMissingExpiry},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := d.Decode(tc.token); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestDecodeVerifiedHS256(t *testing.T) {
	d, err := NewDecoder(Config{Verify: true, SigningMethod: MethodHS256, Key: hsSecret})
	if err != nil {
		t.Fatalf("new decoder: %v", err)
	}
	if _, err := d.Decode(signHS(t, expiring(-time.Minute))); err != nil {
		t.Fatalf("verified decode must not judge expiry: %v", err)
	}

	other, _ := gjwt.NewWithClaims(gjwt.SigningMethodHS256, expiring(time.Hour)).SignedString([]byte("another-secret-another-secret-xx"))
	if _, err := d.Decode(other); !errors.Is(err, ErrSignature) {
		t.Fatalf("expected ErrSignature, got %v", err)
	}
}

func TestDecodeVerifiedEd25519RejectsWrongAlgorithm(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate ed25519 key: %v", err)
	}
	d, err := NewDecoder(Config{Verify: true, SigningMethod: MethodEd25519, Key: pub})
	if err != nil {
		t.Fatalf("new decoder: %v", err)
	}

	good, err := gjwt.NewWithClaims(gjwt.SigningMethodEdDSA, expiring(time.Hour)).SignedString(priv)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := d.Decode(good); err != nil {
		t.Fatalf("expected valid token: %v", err)
	}
	if _, err := d.Decode(signHS(t, expiring(time.Hour))); !errors.Is(err, ErrSignature) {
		t.Fatalf("expected wrong algorithm to be rejected, got %v", err)
	}
}

func TestDecodeVerifiedIssuerAudience(t *testing.T) {
	d, err := NewDecoder(Config{Verify: true, SigningMethod: MethodHS256, Key: hsSecret, Issuer: "doccare", Audience: "web"})
	if err != nil {
		t.Fatalf("new decoder: %v", err)
	}

	c := expiring(time.Hour)
	c.Issuer = "doccare"
	c.Audience = gjwt.ClaimStrings{"web"}
	if _, err := d.Decode(signHS(t, c)); err != nil {
		t.Fatalf("expected match: %v", err)
	}

	c.Issuer = "evil"
	if _, err := d.Decode(signHS(t, c)); !errors.Is(err, ErrClaimMismatch) {
		t.Fatalf("expected issuer mismatch, got %v", err)
	}
	c.Issuer = "doccare"
	c.Audience = gjwt.ClaimStrings{"mobile"}
	if _, err := d.Decode(signHS(t, c)); !errors.Is(err, ErrClaimMismatch) {
		t.Fatalf("expected audience mismatch, got %v", err)
	}
}

func TestNewDecoderValidation(t *testing.T) {
	cases := []Config{
		{Verify: true, SigningMethod: MethodHS256},
		{Verify: true, SigningMethod: MethodEd25519, Key: []byte("short")},
		{Verify: true, SigningMethod: "rs256", Key: hsSecret},
	}
	for _, cfg := range cases {
		if _, err := NewDecoder(cfg); err == nil {
			t.Fatalf("expected config %+v to be rejected", cfg)
		}
	}
}

// FuzzDecode exercises the decoder with arbitrary token strings.
func FuzzDecode(f *testing.F) {
	d, err := NewDecoder(Config{})
	if err != nil {
		f.Fatal(err)
	}
	f.Add(signHS(f, expiring(time.Hour)))
	f.Add("")
	f.Add("not.a.jwt")
	f.Add("eyJhbGciOiJub25lIn0.eyJleHAiOjF9.")

	f.Fuzz(func(t *testing.T, input string) {
		claims, err := d.Decode(input)
		if err != nil {
			return
		}
		if claims == nil || claims.ExpiresAt == nil {
			t.Fatal("Decode returned claims without expiry and without error")
		}
	})
}
