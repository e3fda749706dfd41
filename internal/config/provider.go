package config

import (
	"fmt"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"github.com/wasmcloud-contrib/secrets-vault-broker/internal/broker"
	"github.com/wasmcloud-contrib/secrets-vault-broker/internal/identity"
	"github.com/wasmcloud-contrib/secrets-vault-broker/internal/jwtminter"
	"github.com/wasmcloud-contrib/secrets-vault-broker/internal/secretstore"
	"github.com/wasmcloud-contrib/secrets-vault-broker/internal/subject"
)

// Provider constructs all application components from configuration.
// This is the entry point the CLI uses to build a configured broker.
type Provider struct {
	config *Config
	log    *logrus.Entry

	identity *identity.Identity
	mapper   *subject.Mapper
	minter   *jwtminter.Minter
}

// NewProvider creates a Provider from configuration.
func NewProvider(cfg *Config, log *logrus.Entry) *Provider {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Provider{config: cfg, log: log}
}

// Identity returns the broker's configured signing and curve key
// material, constructing it on first use.
func (p *Provider) Identity() (*identity.Identity, error) {
	if p.identity != nil {
		return p.identity, nil
	}

	id, err := identity.New(p.config.Identity.SigningSeed, p.config.Identity.XKeySeed)
	if err != nil {
		return nil, fmt.Errorf("failed to build broker identity: %w", err)
	}

	p.identity = id
	return id, nil
}

// SubjectMapper returns the configured subject mapper.
func (p *Provider) SubjectMapper() *subject.Mapper {
	if p.mapper != nil {
		return p.mapper
	}
	p.mapper = subject.New(p.config.Subject.Prefix, p.config.Subject.ServiceName)
	return p.mapper
}

// Minter returns the configured JWT minter, sharing the kid with the
// JWKS document the Broker publishes.
func (p *Provider) Minter() (*jwtminter.Minter, error) {
	if p.minter != nil {
		return p.minter, nil
	}

	id, err := p.Identity()
	if err != nil {
		return nil, err
	}
	kid, err := id.SigningPublicKey()
	if err != nil {
		return nil, fmt.Errorf("failed to derive signing key id: %w", err)
	}

	minter, err := jwtminter.New(p.config.Identity.SigningSeed, kid, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build jwt minter: %w", err)
	}

	p.minter = minter
	return minter, nil
}

// VaultHandlerConfig projects the upstream store settings onto the
// shape internal/broker.Handler expects. AuthMount and
// DefaultSecretEngine are trimmed of leading/trailing slashes here, so
// a mount configured as "/jwt/" doesn't double up with the slashes
// internal/secretstore already joins onto the Vault URL path.
func (p *Provider) VaultHandlerConfig() broker.VaultConfig {
	return broker.VaultConfig{
		AuthMount:           strings.Trim(p.config.Vault.AuthMount, "/"),
		Audience:            p.config.Vault.Audience,
		DefaultSecretEngine: strings.Trim(p.config.Vault.DefaultSecretEngine, "/"),
		DefaultNamespace:    p.config.Vault.DefaultNamespace,
	}
}

// Handler builds the request handler against store, the caller's
// chosen secret store collaborator (internal/cli passes a
// secretstore.HTTPClient).
func (p *Provider) Handler(store secretstore.Client) (*broker.Handler, error) {
	id, err := p.Identity()
	if err != nil {
		return nil, err
	}
	minter, err := p.Minter()
	if err != nil {
		return nil, err
	}
	return broker.NewHandler(id, minter, store, p.VaultHandlerConfig(), p.log.WithField("component", "handler")), nil
}

// Broker builds the top-level broker, connecting to the configured
// bus and wiring it to a Handler built against store.
func (p *Provider) Broker(store secretstore.Client) (*broker.Broker, *nats.Conn, error) {
	id, err := p.Identity()
	if err != nil {
		return nil, nil, err
	}
	handler, err := p.Handler(store)
	if err != nil {
		return nil, nil, err
	}

	opts := []nats.Option{nats.Name("secrets-vault-broker")}
	if p.config.Bus.JWT != "" && p.config.Bus.Seed != "" {
		signer, err := bussignerFromSeed(p.config.Bus.Seed)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load bus auth seed: %w", err)
		}
		opts = append(opts, nats.UserJWT(func() (string, error) {
			return p.config.Bus.JWT, nil
		}, signer))
	}

	nc, err := nats.Connect(p.config.Bus.Address, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to bus at %s: %w", p.config.Bus.Address, err)
	}

	b := broker.New(nc, id, p.SubjectMapper(), handler, p.config.JWKS.BindAddress, p.log.WithField("component", "broker"))
	return b, nc, nil
}
