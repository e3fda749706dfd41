package broker

import (
	"context"
	"fmt"

	"github.com/wasmcloud-contrib/secrets-vault-broker/internal/secretstore"
)

// fakeStore is an in-memory secretstore.Client standing in for Vault
// in tests: it accepts authentication for a fixed set of known roles
// and serves secrets from a static map.
type fakeStore struct {
	knownRoles map[string]bool
	secrets    map[string]secretstore.Secret
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		knownRoles: map[string]bool{},
		secrets:    map[string]secretstore.Secret{},
	}
}

func (f *fakeStore) withRole(role string) *fakeStore {
	f.knownRoles[role] = true
	return f
}

func (f *fakeStore) withSecret(mount, path string, secret secretstore.Secret) *fakeStore {
	f.secrets[mount+"/"+path] = secret
	return f
}

func (f *fakeStore) Authenticate(_ context.Context, _ string, _ string, role string, _ string) (secretstore.Session, error) {
	if !f.knownRoles[role] {
		return secretstore.Session{}, secretstore.NewError(fmt.Sprintf("unknown role %q", role))
	}
	return secretstore.Session{Token: "fake-token"}, nil
}

func (f *fakeStore) Read(_ context.Context, _ secretstore.Session, mount, path string, _ *uint64) (secretstore.Secret, error) {
	secret, ok := f.secrets[mount+"/"+path]
	if !ok {
		return secretstore.Secret{}, secretstore.NewError(fmt.Sprintf("no secret at %s/%s", mount, path))
	}
	return secret, nil
}
