package devjwt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Verifier checks tokens signed with a shared HMAC secret.
type Verifier struct {
	cfg VerifierConfig
	key []byte
}

// NewVerifier builds a verifier from the given configuration.
func NewVerifier(cfg VerifierConfig) (*Verifier, error) {
	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, newError(ErrCodeInvalidConfig, err)
	}
	return &Verifier{cfg: cfg, key: []byte(cfg.Secret)}, nil
}

// Verify checks the signature with the configured algorithm only, then the
// time, issuer and audience claims.
func (v *Verifier) Verify(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, newError(ErrCodeInvalidToken, errors.New("token is empty"))
	}

	parsed, err := jwt.Parse([]byte(token),
		jwt.WithKey(v.cfg.Algorithm, v.key),
		jwt.WithValidate(false),
	)
	if err != nil {
		// Well-formed but unverifiable means wrong key or algorithm.
		if _, insecureErr := jwt.ParseInsecure([]byte(token)); insecureErr == nil {
			return nil, newError(ErrCodeInvalidSignature, err)
		}
		return nil, newError(ErrCodeInvalidToken, err)
	}

	validateOpts := []jwt.ValidateOption{
		jwt.WithClock(jwt.ClockFunc(v.cfg.Clock)),
		jwt.WithAcceptableSkew(v.cfg.ClockSkew),
		jwt.WithRequiredClaim(jwt.ExpirationKey),
	}
	if v.cfg.Issuer != "" {
		validateOpts = append(validateOpts, jwt.WithIssuer(v.cfg.Issuer))
	}
	if v.cfg.Audience != "" {
		validateOpts = append(validateOpts, jwt.WithAudience(v.cfg.Audience))
	}
	if err := jwt.Validate(parsed, validateOpts...); err != nil {
		switch {
		case errors.Is(err, jwt.ErrInvalidIssuer()):
			return nil, newError(ErrCodeInvalidIssuer, err)
		case errors.Is(err, jwt.ErrInvalidAudience()):
			return nil, newError(ErrCodeInvalidAudience, err)
		case errors.Is(err, jwt.ErrTokenExpired()):
			return nil, newError(ErrCodeExpired, err)
		case errors.Is(err, jwt.ErrTokenNotYetValid()):
			return nil, newError(ErrCodeNotYetValid, err)
		default:
			return nil, newError(ErrCodeInvalidToken, fmt.Errorf("validate claims: %w", err))
		}
	}

	return extractClaims(parsed), nil
}

func extractClaims(token jwt.Token) *Claims {
	private := token.PrivateClaims()
	var audience []string
	if audList := token.Audience(); len(audList) > 0 {
		audience = append([]string(nil), audList...)
	}
	claims := &Claims{
		Subject:   token.Subject(),
		Issuer:    token.Issuer(),
		Audience:  audience,
		ExpiresAt: token.Expiration(),
		NotBefore: token.NotBefore(),
		IssuedAt:  token.IssuedAt(),
		JWTID:     token.JwtID(),
	}

	if s, ok := private[nameClaimKey].(string); ok {
		claims.Name = s
	}
	if s, ok := private[AgentClaimKey].(string); ok {
		claims.Agent = s
	}
	if len(private) > 0 {
		claims.CustomClaims = make(map[string]any, len(private))
		for k, v := range private {
			claims.CustomClaims[k] = v
		}
	}
	return claims
}
