// Package secretstore defines the abstract contract the broker uses to
// authenticate and read secrets from an upstream store. HTTPClient in
// this package is a minimal HashiCorp Vault implementation of it; the
// broker core depends only on the contract.
package secretstore

import (
	"context"
	"fmt"
)

// Session is the credential a successful authentication yields,
// scoped to the lifetime of a single request.
type Session struct {
	Token string
}

// Metadata describes the version of a secret that was read.
type Metadata struct {
	Version uint64
}

// Secret is the data a successful read returns.
type Secret struct {
	Data     map[string]string
	Metadata Metadata
}

// Client is the abstract remote secret store collaborator.
type Client interface {
	// Authenticate exchanges jwt for a Session scoped to role, under
	// authMount, optionally within namespace.
	Authenticate(ctx context.Context, authMount, jwt, role, namespace string) (Session, error)

	// Read fetches the secret at path under mount, optionally pinned
	// to a specific version.
	Read(ctx context.Context, session Session, mount, path string, version *uint64) (Secret, error)
}

// Error wraps any transport failure, non-2xx response, or missing path
// from the upstream store. Callers should surface it as
// secretserr.UpstreamError.
type Error struct {
	Detail string
}

func (e *Error) Error() string { return fmt.Sprintf("upstream secret store: %s", e.Detail) }

// NewError builds an Error with the given detail.
func NewError(detail string) *Error { return &Error{Detail: detail} }
