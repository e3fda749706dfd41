// Package subject derives the NATS subjects and queue group a secrets
// backend listens on from a configured prefix and service name.
package subject

import "fmt"

// apiVersion is fixed for this wire protocol generation.
const apiVersion = "v1alpha1"

// Mapper derives the subjects and queue group name for a secrets backend.
type Mapper struct {
	Prefix      string
	ServiceName string
}

// New creates a Mapper for the given prefix and service name.
func New(prefix, serviceName string) *Mapper {
	return &Mapper{Prefix: prefix, ServiceName: serviceName}
}

// SecretsSubject returns the base subject secret requests are published
// under, e.g. "wasmcloud.secrets.v1alpha1.vault".
func (m *Mapper) SecretsSubject() string {
	return fmt.Sprintf("%s.%s.%s", m.Prefix, apiVersion, m.ServiceName)
}

// SecretsWildcardSubject returns the wildcard subject the backend
// subscribes to, matching any operation under SecretsSubject.
func (m *Mapper) SecretsWildcardSubject() string {
	return m.SecretsSubject() + ".>"
}

// QueueGroupName returns the queue group name used so that only one
// instance of the backend handles a given request.
func (m *Mapper) QueueGroupName() string {
	return fmt.Sprintf("%s.%s", m.Prefix, m.ServiceName)
}
