package devjwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
)

const (
	defaultAlgorithm = jwa.HS256
	defaultTTL       = time.Hour
	defaultClockSkew = 30 * time.Second
)

// MinterConfig describes how development tokens are signed.
type MinterConfig struct {
	Secret    string
	Algorithm jwa.SignatureAlgorithm
	TTL       time.Duration
	Clock     func() time.Time
}

// VerifierConfig describes what a verifier accepts.
// Issuer and Audience checks are skipped when left empty.
type VerifierConfig struct {
	Secret    string
	Algorithm jwa.SignatureAlgorithm
	Issuer    string
	Audience  string
	ClockSkew time.Duration
	Clock     func() time.Time
}

// DevMinterConfig returns the configuration used by the gen-jwt tool.
func DevMinterConfig() MinterConfig {
	return MinterConfig{
		Secret:    DevSecret,
		Algorithm: jwa.HS256,
		TTL:       time.Hour,
	}
}

// DevVerifierConfig returns a configuration accepting tokens minted with DevMinterConfig.
func DevVerifierConfig() VerifierConfig {
	return VerifierConfig{
		Secret:    DevSecret,
		Algorithm: jwa.HS256,
		Issuer:    devIssuer,
		Audience:  devAudience,
	}
}

// normalize sets default values for optional fields.
func (c *MinterConfig) normalize() {
	if c.Algorithm == "" {
		c.Algorithm = defaultAlgorithm
	}
	if c.TTL == 0 {
		c.TTL = defaultTTL
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
}

// validate ensures the minter configuration is usable.
func (c MinterConfig) validate() error {
	switch {
	case c.Secret == "":
		return errors.New("secret is required")
	case c.TTL < 0:
		return fmt.Errorf("ttl must be positive, got %s", c.TTL)
	}
	return validateAlgorithm(c.Algorithm)
}

func (c *VerifierConfig) normalize() {
	if c.Algorithm == "" {
		c.Algorithm = defaultAlgorithm
	}
	if c.ClockSkew <= 0 {
		c.ClockSkew = defaultClockSkew
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
}

func (c VerifierConfig) validate() error {
	if c.Secret == "" {
		return errors.New("secret is required")
	}
	return validateAlgorithm(c.Algorithm)
}

func validateAlgorithm(alg jwa.SignatureAlgorithm) error {
	switch alg {
	case jwa.HS256, jwa.HS384, jwa.HS512:
		return nil
	}
	return fmt.Errorf("algorithm %q is not an HMAC algorithm", alg)
}
