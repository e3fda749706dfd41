package broker

import (
	"strings"

	"github.com/wasmcloud-contrib/secrets-vault-broker/internal/secretserr"
)

// Operation is the recognised trailing subject token for a secrets
// request, selecting which handler dispatches the message.
type Operation string

const (
	OpGet        Operation = "get"
	OpServerXKey Operation = "server_xkey"
)

// parseOperation extracts the operation from subject, given the fixed
// secrets subject prefix (e.g. "wasmcloud.secrets.v1alpha1.vault"). Any
// subject with more than one trailing token, or an unrecognised
// operation, is InvalidRequest.
func parseOperation(subj, prefix string) (Operation, error) {
	tail := strings.TrimPrefix(subj, prefix)
	tail = strings.TrimPrefix(tail, ".")
	tokens := strings.Split(tail, ".")

	if len(tokens) > 1 {
		return "", secretserr.InvalidRequest()
	}

	switch Operation(tokens[0]) {
	case OpGet:
		return OpGet, nil
	case OpServerXKey:
		return OpServerXKey, nil
	default:
		return "", secretserr.InvalidRequest()
	}
}
