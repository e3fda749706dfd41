// Package cryptobox wraps nkeys curve25519 keypairs ("xkeys") into the
// sealed-box encrypt/decrypt primitives the secrets broker uses for
// request/response confidentiality. The wire format is whatever
// nats-io/nkeys produces, which is interoperable with the NATS "xkey"
// sealed-box convention other wasmCloud hosts speak.
package cryptobox

import (
	"fmt"

	"github.com/nats-io/nkeys"

	"github.com/wasmcloud-contrib/secrets-vault-broker/internal/secretserr"
)

// KeyPair is a curve25519 keypair usable for sealing and opening
// messages. It is satisfied by the nkeys.KeyPair values this package
// builds from curve keys; kept as a narrow local interface covering
// only the sealed-box operations.
type KeyPair interface {
	PublicKey() (string, error)
	Seal(payload []byte, recipient string) ([]byte, error)
	Open(payload []byte, sender string) ([]byte, error)
}

// GenerateEphemeral creates a fresh curve25519 keypair, used once per
// response so that a leaked long-lived key never compromises past
// traffic.
func GenerateEphemeral() (KeyPair, error) {
	kp, err := nkeys.CreateCurveKeys()
	if err != nil {
		return nil, fmt.Errorf("generate ephemeral xkey: %w", err)
	}
	return kp, nil
}

// FromSeed loads a long-lived curve25519 keypair from its seed.
func FromSeed(seed string) (KeyPair, error) {
	kp, err := nkeys.FromCurveSeed([]byte(seed))
	if err != nil {
		return nil, fmt.Errorf("parse xkey seed: %w", err)
	}
	return kp, nil
}

// FromPublicKey loads a curve25519 public key (no secret material) from
// its ASCII nkey encoding, e.g. as received over the
// x-wasmcloud-hostxkey header.
func FromPublicKey(public string) (KeyPair, error) {
	kp, err := nkeys.FromPublicCurveKey(public)
	if err != nil {
		return nil, fmt.Errorf("parse xkey public key: %w", err)
	}
	return kp, nil
}

// Seal encrypts plaintext from sender to recipient using sealed-box
// authenticated encryption.
func Seal(plaintext []byte, sender KeyPair, recipientPublic string) ([]byte, error) {
	ciphertext, err := sender.Seal(plaintext, recipientPublic)
	if err != nil {
		return nil, fmt.Errorf("seal payload: %w", err)
	}
	return ciphertext, nil
}

// Open decrypts ciphertext addressed to recipient, authenticating it as
// having come from senderPublic. It returns *secretserr.Error with
// KindDecryptionError on any failure, per the wire contract — callers
// must not leak more detail than "decryption failed" to the caller.
func Open(ciphertext []byte, recipient KeyPair, senderPublic string) ([]byte, error) {
	plaintext, err := recipient.Open(ciphertext, senderPublic)
	if err != nil {
		return nil, secretserr.DecryptionError()
	}
	return plaintext, nil
}
