// Package secretref projects a wire Request into the path/field/version
// tuple the upstream secret store is actually read by.
package secretref

import (
	"fmt"
	"strconv"

	"github.com/wasmcloud-contrib/secrets-vault-broker/internal/wire"
)

// Ref identifies a single secret to read from the upstream store.
type Ref struct {
	Path    string
	Field   string
	Version *uint64
}

// FromRequest builds a Ref from a decoded wire request. The wire
// "version" field is a string (so it round-trips without floating
// point surprises) and must parse as an unsigned integer when present.
func FromRequest(req wire.Request) (Ref, error) {
	ref := Ref{Path: req.Key}
	if req.Field != nil {
		ref.Field = *req.Field
	}

	if req.Version == nil {
		return ref, nil
	}

	version, err := strconv.ParseUint(*req.Version, 10, 64)
	if err != nil {
		return Ref{}, fmt.Errorf("parse requested version %q: %w", *req.Version, err)
	}
	ref.Version = &version
	return ref, nil
}
