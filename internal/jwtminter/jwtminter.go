// Package jwtminter mints the short-lived EdDSA-signed assertion the
// broker exchanges with the upstream secret store in place of the
// caller's own capability tokens.
package jwtminter

import (
	"crypto/ed25519"
	"crypto/x509"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/nats-io/nkeys"

	"github.com/wasmcloud-contrib/secrets-vault-broker/internal/capclaims"
	"github.com/wasmcloud-contrib/secrets-vault-broker/internal/clock"
)

// ttl is fixed per §4.7: the assertion is valid for exactly 60 seconds.
const ttl = 60 * time.Second

// Claims describes what an assertion asserts on behalf of a caller.
type Claims struct {
	Audience    string
	Subject     string
	Application string
	Host        capclaims.Claims
	Component   *capclaims.Claims
	Provider    *capclaims.Claims
}

// Minter signs assertions with the broker's own signing key.
type Minter struct {
	signer ed25519.PrivateKey
	issuer string
	keyID  string
	clock  clock.Clock
}

// New builds a Minter from the broker's signing nkey seed. kid must
// match the key ID published in the JWKS document so the upstream
// store can resolve the verification key.
func New(signingSeed, kid string, clk clock.Clock) (*Minter, error) {
	signer, issuer, err := deriveSigningKey(signingSeed)
	if err != nil {
		return nil, err
	}
	if clk == nil {
		clk = clock.NewSystemClock()
	}
	return &Minter{signer: signer, issuer: issuer, keyID: kid, clock: clk}, nil
}

// deriveSigningKey walks the nkey seed through the conversion chain
// the assertion's signature is built on: raw seed bytes → Ed25519
// private key → PKCS#8 DER → back to a crypto.Signer. Go's ed25519
// package has no intrinsic need for the DER round trip, but the chain
// is kept explicit because it is the contract other implementations
// of this broker are held to, and it keeps this code exercising the
// same serialization surface they do.
func deriveSigningKey(seed string) (ed25519.PrivateKey, string, error) {
	_, rawSeed, err := nkeys.DecodeSeed([]byte(seed))
	if err != nil {
		return nil, "", fmt.Errorf("decode signing seed: %w", err)
	}

	priv := ed25519.NewKeyFromSeed(rawSeed)

	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return nil, "", fmt.Errorf("marshal signing key to pkcs8: %w", err)
	}

	parsed, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, "", fmt.Errorf("parse pkcs8 signing key: %w", err)
	}
	signer, ok := parsed.(ed25519.PrivateKey)
	if !ok {
		return nil, "", fmt.Errorf("pkcs8 signing key is %T, want ed25519.PrivateKey", parsed)
	}

	kp, err := nkeys.FromSeed([]byte(seed))
	if err != nil {
		return nil, "", fmt.Errorf("derive issuer public key: %w", err)
	}
	issuer, err := kp.PublicKey()
	if err != nil {
		return nil, "", fmt.Errorf("derive issuer public key: %w", err)
	}

	return signer, issuer, nil
}

// Mint builds and signs an assertion carrying c, expiring ttl after
// the minter's clock reading.
func (m *Minter) Mint(c Claims) (string, error) {
	now := m.clock.Now()

	token := jwt.New()
	if err := token.Set(jwt.IssuerKey, m.issuer); err != nil {
		return "", fmt.Errorf("set iss: %w", err)
	}
	if err := token.Set(jwt.AudienceKey, []string{c.Audience}); err != nil {
		return "", fmt.Errorf("set aud: %w", err)
	}
	if err := token.Set(jwt.SubjectKey, c.Subject); err != nil {
		return "", fmt.Errorf("set sub: %w", err)
	}
	if err := token.Set(jwt.ExpirationKey, now.Add(ttl).Unix()); err != nil {
		return "", fmt.Errorf("set exp: %w", err)
	}
	if err := token.Set("application", c.Application); err != nil {
		return "", fmt.Errorf("set application: %w", err)
	}
	if err := token.Set("host", c.Host.Raw); err != nil {
		return "", fmt.Errorf("set host: %w", err)
	}
	if c.Component != nil {
		if err := token.Set("component", c.Component.Raw); err != nil {
			return "", fmt.Errorf("set component: %w", err)
		}
	}
	if c.Provider != nil {
		if err := token.Set("provider", c.Provider.Raw); err != nil {
			return "", fmt.Errorf("set provider: %w", err)
		}
	}

	headers := jws.NewHeaders()
	if err := headers.Set(jws.KeyIDKey, m.keyID); err != nil {
		return "", fmt.Errorf("set kid header: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.EdDSA, m.signer, jws.WithProtectedHeaders(headers)))
	if err != nil {
		return "", fmt.Errorf("sign assertion: %w", err)
	}

	return string(signed), nil
}
