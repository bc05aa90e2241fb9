package devjwt

// AgentClaimKey is the namespaced claim the local server reads the acting agent from.
const AgentClaimKey = "localhost/agent"

// DevSecret signs tokens for the local development server only.
// Never reuse it outside local development.
const DevSecret = "dev-only-secret"

const (
	devSubject  = "dev-user"
	devName     = "Developer"
	devAudience = "local-dev"
	devIssuer   = "http://localhost:3000/"
	devAgent    = "dhruv@example.com"
)

// DevClaims holds the attributes placed in a minted development token.
// Empty fields are left out of the payload.
type DevClaims struct {
	Subject  string
	Name     string
	Audience string
	Issuer   string
	Agent    string
	Extra    map[string]any
}

// DefaultDevClaims returns the payload the local development server expects.
func DefaultDevClaims() DevClaims {
	return DevClaims{
		Subject:  devSubject,
		Name:     devName,
		Audience: devAudience,
		Issuer:   devIssuer,
		Agent:    devAgent,
	}
}

func (d DevClaims) clone() DevClaims {
	out := d
	if len(d.Extra) > 0 {
		out.Extra = make(map[string]any, len(d.Extra))
		for k, v := range d.Extra {
			out.Extra[k] = v
		}
	}
	return out
}
