// Package secretserr defines the wire-observable error taxonomy for the
// secrets broker, mirroring the GetSecretError enum of the protocol this
// backend implements (see spec.md §7).
package secretserr

// Kind is the wire-observable error category.
type Kind string

const (
	// KindInvalidRequest is returned for an unknown operation or a
	// malformed subject tail.
	KindInvalidRequest Kind = "InvalidRequest"

	// KindInvalidXKey is returned when the caller's curve public key
	// header does not parse. A missing header is reported as Other.
	KindInvalidXKey Kind = "InvalidXKey"

	// KindDecryptionError is returned when the sealed envelope could not
	// be opened.
	KindDecryptionError Kind = "DecryptionError"

	// KindInvalidEntityJWT is returned when claims decoding or
	// validation failed.
	KindInvalidEntityJWT Kind = "InvalidEntityJWT"

	// KindUpstreamError is returned when the upstream secret store
	// rejected authentication or the read.
	KindUpstreamError Kind = "UpstreamError"

	// KindOther covers any other local failure (serialization, policy
	// extraction, key conversion, ...).
	KindOther Kind = "Other"
)

// Error is a GetSecretError: a wire-observable failure with an optional
// human-readable detail.
type Error struct {
	Kind   Kind
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Detail
}

// New constructs an Error of the given kind with a detail message.
func New(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

// InvalidRequest is the no-detail InvalidRequest error.
func InvalidRequest() *Error { return &Error{Kind: KindInvalidRequest} }

// InvalidXKey is the no-detail InvalidXKey error.
func InvalidXKey() *Error { return &Error{Kind: KindInvalidXKey} }

// DecryptionError is the no-detail DecryptionError error.
func DecryptionError() *Error { return &Error{Kind: KindDecryptionError} }

// InvalidEntityJWT wraps a claims validation failure.
func InvalidEntityJWT(detail string) *Error {
	return &Error{Kind: KindInvalidEntityJWT, Detail: detail}
}

// UpstreamError wraps an upstream secret store failure.
func UpstreamError(detail string) *Error {
	return &Error{Kind: KindUpstreamError, Detail: detail}
}

// Other wraps any other local failure.
func Other(detail string) *Error {
	return &Error{Kind: KindOther, Detail: detail}
}

// As extracts an *Error from err, constructing an Other-kind wrapper if err
// is not already one of our kinds.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	if se, ok := err.(*Error); ok {
		return se
	}
	return Other(err.Error())
}
