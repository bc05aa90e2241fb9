package devjwt

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
)

func newDevVerifier(t *testing.T, now time.Time, mutate func(*VerifierConfig)) *Verifier {
	t.Helper()
	cfg := DevVerifierConfig()
	cfg.Clock = func() time.Time { return now }
	if mutate != nil {
		mutate(&cfg)
	}
	v, err := NewVerifier(cfg)
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}
	return v
}

func expectCode(t *testing.T, err error, code ErrorCode) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	if e.Code != code {
		t.Fatalf("expected %s, got %s (%v)", code, e.Code, err)
	}
}

func TestVerifier_DevTokenSuccess(t *testing.T) {
	token, err := newDevMinter(t, fixedNow).Mint(DefaultDevClaims())
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}

	claims, err := newDevVerifier(t, fixedNow.Add(time.Minute), nil).Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "dev-user" {
		t.Fatalf("unexpected subject: %s", claims.Subject)
	}
	if claims.Issuer != "http://localhost:3000/" {
		t.Fatalf("unexpected issuer: %s", claims.Issuer)
	}
	if len(claims.Audience) != 1 || claims.Audience[0] != "local-dev" {
		t.Fatalf("unexpected audience: %v", claims.Audience)
	}
	if claims.Name != "Developer" || claims.Agent != "dhruv@example.com" {
		t.Fatalf("unexpected private claims: name=%q agent=%q", claims.Name, claims.Agent)
	}
	if !claims.IssuedAt.Equal(fixedNow) {
		t.Fatalf("unexpected iat: %s", claims.IssuedAt)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt); got != time.Hour {
		t.Fatalf("unexpected lifetime: %s", got)
	}
	if !reflect.DeepEqual(claims.DevClaims(), DefaultDevClaims()) {
		t.Fatalf("round trip mismatch: %+v", claims.DevClaims())
	}
}

func TestVerifier_RejectsWrongKeyOrAlgorithm(t *testing.T) {
	token, err := newDevMinter(t, fixedNow).Mint(DefaultDevClaims())
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	now := fixedNow.Add(time.Minute)

	t.Run("hs384 only", func(t *testing.T) {
		v := newDevVerifier(t, now, func(c *VerifierConfig) { c.Algorithm = jwa.HS384 })
		_, err := v.Verify(token)
		expectCode(t, err, ErrCodeInvalidSignature)
	})

	t.Run("other secret", func(t *testing.T) {
		v := newDevVerifier(t, now, func(c *VerifierConfig) { c.Secret = "prod-secret" })
		_, err := v.Verify(token)
		expectCode(t, err, ErrCodeInvalidSignature)
	})
}

func TestVerifier_ClaimChecks(t *testing.T) {
	token, err := newDevMinter(t, fixedNow).Mint(DefaultDevClaims())
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}

	t.Run("expired", func(t *testing.T) {
		_, err := newDevVerifier(t, fixedNow.Add(2*time.Hour), nil).Verify(token)
		expectCode(t, err, ErrCodeExpired)
	})

	t.Run("issuer mismatch", func(t *testing.T) {
		v := newDevVerifier(t, fixedNow, func(c *VerifierConfig) { c.Issuer = "https://auth.example.com" })
		_, err := v.Verify(token)
		expectCode(t, err, ErrCodeInvalidIssuer)
	})

	t.Run("audience mismatch", func(t *testing.T) {
		v := newDevVerifier(t, fixedNow, func(c *VerifierConfig) { c.Audience = "api-gateway" })
		_, err := v.Verify(token)
		expectCode(t, err, ErrCodeInvalidAudience)
	})

	t.Run("checks skipped when unset", func(t *testing.T) {
		v := newDevVerifier(t, fixedNow, func(c *VerifierConfig) {
			c.Issuer = ""
			c.Audience = ""
		})
		if _, err := v.Verify(token); err != nil {
			t.Fatalf("Verify: %v", err)
		}
	})

	t.Run("not yet valid", func(t *testing.T) {
		early, err := newDevMinter(t, fixedNow).Mint(DefaultDevClaims(),
			WithTTL(2*time.Hour),
			WithClaim("nbf", fixedNow.Add(time.Hour)),
		)
		if err != nil {
			t.Fatalf("Mint: %v", err)
		}
		_, err = newDevVerifier(t, fixedNow, nil).Verify(early)
		expectCode(t, err, ErrCodeNotYetValid)
	})
}

func TestVerifier_MalformedToken(t *testing.T) {
	v := newDevVerifier(t, fixedNow, nil)
	for _, token := range []string{"", "   ", "not-a-token", "a.b.c"} {
		_, err := v.Verify(token)
		expectCode(t, err, ErrCodeInvalidToken)
	}
}

func TestNewVerifier_InvalidConfig(t *testing.T) {
	_, err := NewVerifier(VerifierConfig{})
	expectCode(t, err, ErrCodeInvalidConfig)

	_, err = NewVerifier(VerifierConfig{Secret: "s", Algorithm: jwa.ES256})
	expectCode(t, err, ErrCodeInvalidConfig)
}
