package devjwt

import "time"

// Claims represents the normalized claims of a verified development token.
type Claims struct {
	Subject   string
	Issuer    string
	Audience  []string
	ExpiresAt time.Time
	NotBefore time.Time
	IssuedAt  time.Time
	JWTID     string

	Name         string
	Agent        string
	CustomClaims map[string]any
}

// DevClaims converts verified claims back into mintable attributes.
// Only the first audience is kept.
func (c *Claims) DevClaims() DevClaims {
	out := DevClaims{
		Subject: c.Subject,
		Name:    c.Name,
		Issuer:  c.Issuer,
		Agent:   c.Agent,
	}
	if len(c.Audience) > 0 {
		out.Audience = c.Audience[0]
	}
	for k, v := range c.CustomClaims {
		if k == nameClaimKey || k == AgentClaimKey {
			continue
		}
		if out.Extra == nil {
			out.Extra = make(map[string]any)
		}
		out.Extra[k] = v
	}
	return out
}
