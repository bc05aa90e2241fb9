package devjwt

import (
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const nameClaimKey = "name"

// Minter signs development tokens with a shared HMAC secret.
type Minter struct {
	cfg MinterConfig
	key []byte
}

type mintParams struct {
	ttl   time.Duration
	extra map[string]any
}

// MintOption customizes a single Mint call.
type MintOption func(*mintParams)

// WithTTL overrides the configured lifetime for one token.
func WithTTL(ttl time.Duration) MintOption {
	return func(p *mintParams) {
		p.ttl = ttl
	}
}

// WithClaim adds a private claim to one token.
func WithClaim(key string, value any) MintOption {
	return func(p *mintParams) {
		if p.extra == nil {
			p.extra = make(map[string]any)
		}
		p.extra[key] = value
	}
}

// NewMinter constructs a Minter, applying defaults to unset fields.
func NewMinter(cfg MinterConfig) (*Minter, error) {
	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, newError(ErrCodeInvalidConfig, err)
	}
	return &Minter{cfg: cfg, key: []byte(cfg.Secret)}, nil
}

// Mint returns a compact signed token carrying claims plus iat and exp.
func (m *Minter) Mint(claims DevClaims, opts ...MintOption) (string, error) {
	token, _, err := m.MintWithExpiry(claims, opts...)
	return token, err
}

// MintWithExpiry is Mint that also reports the token's expiry.
func (m *Minter) MintWithExpiry(claims DevClaims, opts ...MintOption) (string, time.Time, error) {
	params := mintParams{ttl: m.cfg.TTL}
	for _, opt := range opts {
		opt(&params)
	}
	if params.ttl <= 0 {
		return "", time.Time{}, newError(ErrCodeSigningFailed, fmt.Errorf("ttl must be positive, got %s", params.ttl))
	}

	// NumericDate claims carry whole seconds.
	now := m.cfg.Clock().Truncate(time.Second)
	expiry := now.Add(params.ttl)

	builder := jwt.NewBuilder()
	for k, v := range claims.Extra {
		builder.Claim(k, v)
	}
	for k, v := range params.extra {
		builder.Claim(k, v)
	}
	if claims.Subject != "" {
		builder.Subject(claims.Subject)
	}
	if claims.Name != "" {
		builder.Claim(nameClaimKey, claims.Name)
	}
	if claims.Audience != "" {
		builder.Audience([]string{claims.Audience})
	}
	if claims.Issuer != "" {
		builder.Issuer(claims.Issuer)
	}
	if claims.Agent != "" {
		builder.Claim(AgentClaimKey, claims.Agent)
	}
	builder.IssuedAt(now).Expiration(expiry)

	tok, err := builder.Build()
	if err != nil {
		return "", time.Time{}, newError(ErrCodeSigningFailed, fmt.Errorf("build claims: %w", err))
	}
	// A single audience is written as a plain string.
	tok.Options().Enable(jwt.FlattenAudience)

	headers := jws.NewHeaders()
	if err := headers.Set(jws.TypeKey, "JWT"); err != nil {
		return "", time.Time{}, newError(ErrCodeSigningFailed, fmt.Errorf("set typ header: %w", err))
	}
	signed, err := jwt.Sign(tok, jwt.WithKey(m.cfg.Algorithm, m.key, jws.WithProtectedHeaders(headers)))
	if err != nil {
		return "", time.Time{}, newError(ErrCodeSigningFailed, err)
	}
	return string(signed), expiry, nil
}
