package jwtminter

import (
	"crypto/ed25519"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/nats-io/nkeys"

	"github.com/wasmcloud-contrib/secrets-vault-broker/internal/capclaims"
	"github.com/wasmcloud-contrib/secrets-vault-broker/internal/clock"
)

func newTestSeed(t *testing.T) string {
	t.Helper()
	kp, err := nkeys.CreateServer()
	if err != nil {
		t.Fatalf("nkeys.CreateServer(): %v", err)
	}
	seed, err := kp.Seed()
	if err != nil {
		t.Fatalf("Seed(): %v", err)
	}
	return string(seed)
}

func TestMintProducesVerifiableAssertion(t *testing.T) {
	seed := newTestSeed(t)
	fixed := clock.NewFixtureClock(time.Unix(1_700_000_000, 0))

	minter, err := New(seed, "broker-1", fixed)
	if err != nil {
		t.Fatalf("New(): %v", err)
	}

	claims := Claims{
		Audience:    "vault",
		Subject:     "entity-123",
		Application: "my-app",
		Host:        capclaims.Claims{Issuer: "N...", Subject: "host-1", Raw: map[string]any{"sub": "host-1"}},
		Component:   &capclaims.Claims{Subject: "entity-123", Raw: map[string]any{"sub": "entity-123", "wascap": map[string]any{"kind": "component"}}},
	}

	signed, err := minter.Mint(claims)
	if err != nil {
		t.Fatalf("Mint(): %v", err)
	}

	_, rawSeed, err := nkeys.DecodeSeed([]byte(seed))
	if err != nil {
		t.Fatalf("nkeys.DecodeSeed(): %v", err)
	}
	priv := ed25519.NewKeyFromSeed(rawSeed)
	pub := priv.Public().(ed25519.PublicKey)

	key, err := jwk.FromRaw(pub)
	if err != nil {
		t.Fatalf("jwk.FromRaw(): %v", err)
	}

	token, err := jwt.Parse([]byte(signed), jwt.WithKey(jwa.EdDSA, key), jwt.WithValidate(true), jwt.WithClock(fixed))
	if err != nil {
		t.Fatalf("jwt.Parse(): %v", err)
	}

	if token.Subject() != "entity-123" {
		t.Fatalf("Subject() = %q, want %q", token.Subject(), "entity-123")
	}

	wantExpiry := fixed.Now().Add(ttl).Unix()
	if token.Expiration().Unix() != wantExpiry {
		t.Fatalf("Expiration() = %v, want %v", token.Expiration().Unix(), wantExpiry)
	}
}

func TestMintRejectsUnparseableSeed(t *testing.T) {
	if _, err := New("not-a-seed", "broker-1", nil); err == nil {
		t.Fatal("New() with invalid seed succeeded, want error")
	}
}
