package capclaims

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/nats-io/nkeys"
)

func mintTestJWT(t *testing.T, kp nkeys.KeyPair, claims map[string]any) string {
	t.Helper()

	header := map[string]any{"typ": "jwt", "alg": "ed25519-nkey"}
	headerJSON, err := json.Marshal(header)
	if err != nil {
		t.Fatalf("marshal header: %v", err)
	}

	pub, err := kp.PublicKey()
	if err != nil {
		t.Fatalf("PublicKey(): %v", err)
	}
	claims["iss"] = pub

	claimsJSON, err := json.Marshal(claims)
	if err != nil {
		t.Fatalf("marshal claims: %v", err)
	}

	encHeader := base64.RawURLEncoding.EncodeToString(headerJSON)
	encClaims := base64.RawURLEncoding.EncodeToString(claimsJSON)
	signingInput := encHeader + "." + encClaims

	sig, err := kp.Sign([]byte(signingInput))
	if err != nil {
		t.Fatalf("Sign(): %v", err)
	}

	return signingInput + "." + base64.RawURLEncoding.EncodeToString(sig)
}

func TestExtractComponentClaims(t *testing.T) {
	hostKP, err := nkeys.CreateServer()
	if err != nil {
		t.Fatalf("nkeys.CreateServer(): %v", err)
	}
	componentKP, err := nkeys.CreateAccount()
	if err != nil {
		t.Fatalf("nkeys.CreateAccount(): %v", err)
	}

	componentPub, _ := componentKP.PublicKey()

	hostJWT := mintTestJWT(t, hostKP, map[string]any{"sub": mustPublicKey(t, hostKP)})
	entityJWT := mintTestJWT(t, componentKP, map[string]any{
		"sub":    componentPub,
		"wascap": map[string]any{"kind": "component"},
	})

	extractor := New()
	req, err := extractor.Extract(hostJWT, entityJWT)
	if err != nil {
		t.Fatalf("Extract(): %v", err)
	}

	if req.Component == nil {
		t.Fatal("expected Component claims, got nil")
	}
	if req.Provider != nil {
		t.Fatal("expected Provider claims to be nil")
	}
	if got, want := req.EntityID(), componentPub; got != want {
		t.Fatalf("EntityID() = %q, want %q", got, want)
	}
}

func TestExtractProviderClaims(t *testing.T) {
	hostKP, _ := nkeys.CreateServer()
	providerKP, err := nkeys.CreateAccount()
	if err != nil {
		t.Fatalf("nkeys.CreateAccount(): %v", err)
	}
	providerPub, _ := providerKP.PublicKey()

	hostJWT := mintTestJWT(t, hostKP, map[string]any{"sub": mustPublicKey(t, hostKP)})
	entityJWT := mintTestJWT(t, providerKP, map[string]any{
		"sub":    providerPub,
		"wascap": map[string]any{"kind": "provider"},
	})

	extractor := New()
	req, err := extractor.Extract(hostJWT, entityJWT)
	if err != nil {
		t.Fatalf("Extract(): %v", err)
	}
	if req.Provider == nil {
		t.Fatal("expected Provider claims, got nil")
	}
	if got, want := req.EntityID(), providerPub; got != want {
		t.Fatalf("EntityID() = %q, want %q", got, want)
	}
}

func TestExtractRejectsTamperedSignature(t *testing.T) {
	hostKP, _ := nkeys.CreateServer()
	componentKP, _ := nkeys.CreateAccount()

	hostJWT := mintTestJWT(t, hostKP, map[string]any{"sub": mustPublicKey(t, hostKP)})
	entityJWT := mintTestJWT(t, componentKP, map[string]any{
		"sub":    mustPublicKey(t, componentKP),
		"wascap": map[string]any{"kind": "component"},
	})
	tampered := entityJWT[:len(entityJWT)-2] + "xx"

	extractor := New()
	if _, err := extractor.Extract(hostJWT, tampered); err == nil {
		t.Fatal("Extract() with tampered signature succeeded, want error")
	}
}

func mustPublicKey(t *testing.T, kp nkeys.KeyPair) string {
	t.Helper()
	pub, err := kp.PublicKey()
	if err != nil {
		t.Fatalf("PublicKey(): %v", err)
	}
	return pub
}
