// Package wire defines the JSON payloads exchanged with callers of the
// secrets broker, sealed with internal/cryptobox before they hit the bus.
package wire

import "github.com/wasmcloud-contrib/secrets-vault-broker/internal/secretserr"

// Header names used on request/reply messages.
const (
	// HostXKeyHeader carries the caller's curve public key (ASCII nkey
	// form) on a get request.
	HostXKeyHeader = "x-wasmcloud-hostxkey"

	// ResponseXKeyHeader carries the ephemeral curve public key used to
	// seal a given response.
	ResponseXKeyHeader = "x-wasmcloud-responsexkey"
)

// Context carries the caller's identity chain and the application's
// policy for a secret request.
type Context struct {
	HostJWT     string      `json:"host_jwt"`
	EntityJWT   string      `json:"entity_jwt"`
	Application Application `json:"application"`
}

// Application identifies the calling application and carries its raw
// policy document.
type Application struct {
	Name   string `json:"name,omitempty"`
	Policy string `json:"policy"`
}

// Request is the decrypted payload of a "get" operation.
type Request struct {
	Key     string  `json:"key"`
	Field   *string `json:"field,omitempty"`
	Version *string `json:"version,omitempty"`
	Context Context `json:"context"`
}

// Secret is the successfully retrieved secret payload.
type Secret struct {
	Version      string  `json:"version"`
	StringSecret *string `json:"string_secret,omitempty"`
	BinarySecret []byte  `json:"binary_secret,omitempty"`
}

// ResponseError is the wire rendering of a secretserr.Error.
type ResponseError struct {
	Kind   string `json:"kind"`
	Detail string `json:"detail,omitempty"`
}

// Response is the (pre-encryption) reply to a "get" operation. Exactly one
// of Secret or Error is set.
type Response struct {
	Secret *Secret        `json:"secret,omitempty"`
	Error  *ResponseError `json:"error,omitempty"`
}

// FromError builds a Response carrying err as its wire-observable error.
func FromError(err *secretserr.Error) Response {
	return Response{Error: &ResponseError{Kind: string(err.Kind), Detail: err.Detail}}
}
