// Package jwkproj projects the broker's Ed25519 signing public key
// onto a JSON Web Key, the shape published by the JWKS endpoint and
// consumed by anything validating assertions this broker mints.
package jwkproj

import (
	"crypto/ed25519"
	"fmt"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
)

// Project converts an Ed25519 public key into a signing JWK tagged with
// the given key ID. The key is returned with use="sig" and alg="EdDSA"
// set, matching the only algorithm this broker ever signs with.
func Project(pub ed25519.PublicKey, keyID string) (jwk.Key, error) {
	key, err := jwk.FromRaw(pub)
	if err != nil {
		return nil, fmt.Errorf("project ed25519 key to jwk: %w", err)
	}
	if err := key.Set(jwk.KeyIDKey, keyID); err != nil {
		return nil, fmt.Errorf("set kid: %w", err)
	}
	if err := key.Set(jwk.KeyUsageKey, "sig"); err != nil {
		return nil, fmt.Errorf("set use: %w", err)
	}
	if err := key.Set(jwk.AlgorithmKey, jwa.EdDSA); err != nil {
		return nil, fmt.Errorf("set alg: %w", err)
	}
	return key, nil
}

// ProjectSet wraps a single projected key in a jwk.Set, the document
// shape served at the well-known JWKS endpoint.
func ProjectSet(pub ed25519.PublicKey, keyID string) (jwk.Set, error) {
	key, err := Project(pub, keyID)
	if err != nil {
		return nil, err
	}
	set := jwk.NewSet()
	if err := set.AddKey(key); err != nil {
		return nil, fmt.Errorf("add key to set: %w", err)
	}
	return set, nil
}
