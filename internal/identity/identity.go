// Package identity holds the secrets broker's own cryptographic
// identity: the Ed25519 signing nkey it mints assertions with, and the
// curve25519 xkey it uses to open and seal sealed-box traffic.
package identity

import (
	"crypto/ed25519"
	"fmt"

	"github.com/nats-io/nkeys"

	"github.com/wasmcloud-contrib/secrets-vault-broker/internal/cryptobox"
)

// Identity is the broker's long-lived key material.
type Identity struct {
	signing nkeys.KeyPair
	xkey    cryptobox.KeyPair
}

// New builds an Identity from a signing ("server") nkey seed and a
// curve25519 xkey seed, both in their ASCII nkey-encoded form.
func New(signingSeed, xkeySeed string) (*Identity, error) {
	signing, err := nkeys.FromSeed([]byte(signingSeed))
	if err != nil {
		return nil, fmt.Errorf("parse signing seed: %w", err)
	}
	if _, err := signing.PublicKey(); err != nil {
		return nil, fmt.Errorf("derive signing public key: %w", err)
	}

	xkey, err := cryptobox.FromSeed(xkeySeed)
	if err != nil {
		return nil, fmt.Errorf("parse xkey seed: %w", err)
	}

	return &Identity{signing: signing, xkey: xkey}, nil
}

// SigningPublicKey returns the broker's ASCII nkey-encoded Ed25519
// public key (the "iss" of every assertion it mints).
func (id *Identity) SigningPublicKey() (string, error) {
	pub, err := id.signing.PublicKey()
	if err != nil {
		return "", fmt.Errorf("signing public key: %w", err)
	}
	return pub, nil
}

// SigningEd25519PublicKey returns the broker's signing public key as a
// raw Ed25519 key, for projection onto a JSON Web Key.
func (id *Identity) SigningEd25519PublicKey() (ed25519.PublicKey, error) {
	seed, err := id.SigningSeed()
	if err != nil {
		return nil, err
	}
	_, rawSeed, err := nkeys.DecodeSeed([]byte(seed))
	if err != nil {
		return nil, fmt.Errorf("decode signing seed: %w", err)
	}
	priv := ed25519.NewKeyFromSeed(rawSeed)
	return priv.Public().(ed25519.PublicKey), nil
}

// Sign signs data with the broker's Ed25519 signing key, as used for
// raw nkey-style signatures (distinct from the EdDSA JWT assertions
// minted by internal/jwtminter).
func (id *Identity) Sign(data []byte) ([]byte, error) {
	sig, err := id.signing.Sign(data)
	if err != nil {
		return nil, fmt.Errorf("sign: %w", err)
	}
	return sig, nil
}

// SigningSeed returns the ASCII nkey-encoded seed for the signing
// keypair, handed to internal/jwtminter to derive a jwx signing key.
func (id *Identity) SigningSeed() (string, error) {
	seed, err := id.signing.Seed()
	if err != nil {
		return "", fmt.Errorf("signing seed: %w", err)
	}
	return string(seed), nil
}

// XKey returns the broker's curve25519 keypair, used to open inbound
// sealed requests addressed to it.
func (id *Identity) XKey() cryptobox.KeyPair {
	return id.xkey
}

// XKeyPublicKey returns the broker's ASCII nkey-encoded curve25519
// public key, published so callers know who to seal requests to.
func (id *Identity) XKeyPublicKey() (string, error) {
	pub, err := id.xkey.PublicKey()
	if err != nil {
		return "", fmt.Errorf("xkey public key: %w", err)
	}
	return pub, nil
}
