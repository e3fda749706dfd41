// Package capclaims decodes and validates the nested capability-token
// claims a caller presents on a secret request: a host claims JWT and
// an entity claims JWT that is either a component or a provider claims
// document. Both JWTs are self-verifying in the wascap convention —
// their "iss" claim is the signer's own nkey-encoded public key, so
// validation needs no external JWKS fetch.
package capclaims

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nkeys"
)

// Claims is the decoded body of a single capability-token JWT. The
// broker treats the wascap-defined metadata opaquely: it only needs
// the issuer and subject to establish identity, and re-embeds Raw
// verbatim into the assertion it mints for the upstream secret store.
type Claims struct {
	Issuer  string
	Subject string
	Raw     map[string]any
}

// ID returns the entity's own public key, the identity the rest of the
// pipeline keys authorization decisions on.
func (c Claims) ID() string {
	if c.Subject != "" {
		return c.Subject
	}
	return "Unknown"
}

// Request is the decoded identity chain for one secret request: host
// claims are always present; exactly one of Component or Provider is
// set, chosen by the entity JWT's wascap kind tag.
type Request struct {
	Host      Claims
	Component *Claims
	Provider  *Claims
}

// EntityID returns the component's id if present, else the provider's,
// else "Unknown".
func (r Request) EntityID() string {
	switch {
	case r.Component != nil:
		return r.Component.ID()
	case r.Provider != nil:
		return r.Provider.ID()
	default:
		return "Unknown"
	}
}

// Extractor decodes and validates capability claims. It has no
// configuration: every capability token verifies against the public
// key embedded in its own "iss" claim.
type Extractor struct{}

// New builds a Extractor.
func New() *Extractor { return &Extractor{} }

// Extract decodes hostJWT as host claims and entityJWT as component or
// provider claims, per §4.5: entityJWT is decoded once and classified
// by its wascap kind tag; a kind matching neither is recorded as a
// component.
func (e *Extractor) Extract(hostJWT, entityJWT string) (Request, error) {
	host, err := decodeSelfVerifying(hostJWT)
	if err != nil {
		return Request{}, fmt.Errorf("decode host claims: %w", err)
	}

	entity, entityErr := decodeSelfVerifying(entityJWT)
	if entityErr != nil {
		return Request{}, fmt.Errorf("decode entity claims: %w", entityErr)
	}

	req := Request{Host: host}
	if isComponent(entity) {
		c := entity
		req.Component = &c
	}
	if isProvider(entity) {
		p := entity
		req.Provider = &p
	}
	if req.Component == nil && req.Provider == nil {
		// Entity claims decoded and verified but carry neither a
		// component nor a provider tag: treat as a component, the
		// more common caller shape, rather than rejecting outright.
		c := entity
		req.Component = &c
	}

	return req, nil
}

// isComponent reports whether claims carry wascap component metadata.
func isComponent(c Claims) bool {
	return hasWascapTag(c, "component", "module")
}

// isProvider reports whether claims carry wascap provider metadata.
func isProvider(c Claims) bool {
	return hasWascapTag(c, "provider", "service")
}

func hasWascapTag(c Claims, tags ...string) bool {
	wascap, ok := c.Raw["wascap"].(map[string]any)
	if !ok {
		return false
	}
	kind, ok := wascap["kind"].(string)
	if !ok {
		return false
	}
	for _, tag := range tags {
		if strings.EqualFold(kind, tag) {
			return true
		}
	}
	return false
}

// decodeSelfVerifying decodes a compact JWT whose "iss" claim is an
// nkey-encoded public key, and verifies the signature against that
// same key. It never consults an external keyset.
func decodeSelfVerifying(token string) (Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return Claims{}, fmt.Errorf("malformed jwt: expected 3 segments, got %d", len(parts))
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return Claims{}, fmt.Errorf("decode jwt payload: %w", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(payload, &raw); err != nil {
		return Claims{}, fmt.Errorf("unmarshal jwt payload: %w", err)
	}

	iss, _ := raw["iss"].(string)
	if iss == "" {
		return Claims{}, fmt.Errorf("jwt missing iss claim")
	}

	signer, err := nkeys.FromPublicKey(iss)
	if err != nil {
		return Claims{}, fmt.Errorf("decode issuer nkey %q: %w", iss, err)
	}

	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return Claims{}, fmt.Errorf("decode jwt signature: %w", err)
	}

	signingInput := parts[0] + "." + parts[1]
	if err := signer.Verify([]byte(signingInput), sig); err != nil {
		return Claims{}, fmt.Errorf("verify jwt signature: %w", err)
	}

	if exp, ok := raw["exp"].(float64); ok && float64(time.Now().Unix()) > exp {
		return Claims{}, fmt.Errorf("jwt expired")
	}

	subject, _ := raw["sub"].(string)

	return Claims{Issuer: iss, Subject: subject, Raw: raw}, nil
}
