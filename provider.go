package devjwt

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
)

// Provider hands out development bearer tokens for calls to the local server.
// It caches one token source per distinct claims combination and re-mints
// only when the cached token is about to expire.
type Provider struct {
	mu       sync.RWMutex
	minter   *Minter
	entries  map[providerKey]*tokenSourceEntry
	defaults DevClaims
}

type providerKey struct {
	Subject  string
	Name     string
	Audience string
	Issuer   string
	Agent    string
}

type tokenSourceEntry struct {
	source oauth2.TokenSource
}

// TokenOption customizes the claims for a single Token call.
type TokenOption func(*DevClaims)

// WithSubject overrides the sub claim.
func WithSubject(subject string) TokenOption {
	return func(c *DevClaims) {
		c.Subject = subject
	}
}

// WithAudience overrides the aud claim.
func WithAudience(audience string) TokenOption {
	return func(c *DevClaims) {
		c.Audience = audience
	}
}

// WithAgent overrides the localhost/agent claim.
func WithAgent(agent string) TokenOption {
	return func(c *DevClaims) {
		c.Agent = agent
	}
}

// NewProvider constructs a Provider minting with m and the supplied default claims.
func NewProvider(m *Minter, defaults DevClaims) *Provider {
	return &Provider{
		minter:   m,
		entries:  make(map[providerKey]*tokenSourceEntry),
		defaults: defaults.clone(),
	}
}

// Token returns a bearer token for the default claims adjusted by opts.
func (p *Provider) Token(opts ...TokenOption) (string, error) {
	src, err := p.TokenSource(opts...)
	if err != nil {
		return "", err
	}
	tok, err := src.Token()
	if err != nil {
		return "", fmt.Errorf("fetch token: %w", err)
	}
	if tok.AccessToken == "" {
		return "", errors.New("empty access token returned")
	}
	return tok.AccessToken, nil
}

// TokenSource returns the cached source for the default claims adjusted by opts.
func (p *Provider) TokenSource(opts ...TokenOption) (oauth2.TokenSource, error) {
	if p.minter == nil {
		return nil, errors.New("provider has no minter")
	}
	claims := p.defaults.clone()
	for _, opt := range opts {
		opt(&claims)
	}
	key := providerKey{
		Subject:  claims.Subject,
		Name:     claims.Name,
		Audience: claims.Audience,
		Issuer:   claims.Issuer,
		Agent:    claims.Agent,
	}
	return p.getOrCreate(key, claims).source, nil
}

// Client returns an HTTP client that sends "Authorization: Bearer <token>" on every request.
// An *http.Client stored in ctx under oauth2.HTTPClient is used as the base transport.
func (p *Provider) Client(ctx context.Context, opts ...TokenOption) (*http.Client, error) {
	src, err := p.TokenSource(opts...)
	if err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return oauth2.NewClient(ctx, src), nil
}

func (p *Provider) getOrCreate(key providerKey, claims DevClaims) *tokenSourceEntry {
	p.mu.RLock()
	entry, ok := p.entries[key]
	p.mu.RUnlock()
	if ok {
		return entry
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if entry, ok = p.entries[key]; ok {
		return entry
	}
	entry = &tokenSourceEntry{
		source: oauth2.ReuseTokenSource(nil, &mintSource{minter: p.minter, claims: claims}),
	}
	p.entries[key] = entry
	return entry
}

type mintSource struct {
	minter *Minter
	claims DevClaims
}

func (s *mintSource) Token() (*oauth2.Token, error) {
	raw, expiry, err := s.minter.MintWithExpiry(s.claims)
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{
		AccessToken: raw,
		TokenType:   "Bearer",
		Expiry:      expiry,
	}, nil
}
