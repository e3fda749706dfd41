// Package broker implements the secrets request/reply pipeline: the
// RequestHandler state machine of one inbound message, and the Broker
// run-loop that wires the bus subscription, the JWKS server, and the
// handler together.
package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/wasmcloud-contrib/secrets-vault-broker/internal/capclaims"
	"github.com/wasmcloud-contrib/secrets-vault-broker/internal/cryptobox"
	"github.com/wasmcloud-contrib/secrets-vault-broker/internal/identity"
	"github.com/wasmcloud-contrib/secrets-vault-broker/internal/jwtminter"
	"github.com/wasmcloud-contrib/secrets-vault-broker/internal/policy"
	"github.com/wasmcloud-contrib/secrets-vault-broker/internal/secretref"
	"github.com/wasmcloud-contrib/secrets-vault-broker/internal/secretserr"
	"github.com/wasmcloud-contrib/secrets-vault-broker/internal/secretstore"
	"github.com/wasmcloud-contrib/secrets-vault-broker/internal/wire"
)

// VaultConfig carries the upstream store settings a handler needs per
// request: where defaults come from when a policy doesn't override
// them.
type VaultConfig struct {
	AuthMount           string
	Audience            string
	DefaultSecretEngine string
	DefaultNamespace    string
}

// Handler implements the deterministic per-request pipeline of §4.9:
// decrypt, parse, validate claims, extract policy, mint an assertion,
// authenticate upstream, fetch the secret, and seal the reply.
type Handler struct {
	identity *identity.Identity
	claims   *capclaims.Extractor
	minter   *jwtminter.Minter
	store    secretstore.Client
	cfg      VaultConfig
	log      *logrus.Entry
}

// NewHandler builds a Handler from its collaborators.
func NewHandler(id *identity.Identity, minter *jwtminter.Minter, store secretstore.Client, cfg VaultConfig, log *logrus.Entry) *Handler {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Handler{
		identity: id,
		claims:   capclaims.New(),
		minter:   minter,
		store:    store,
		cfg:      cfg,
		log:      log,
	}
}

// Reply is a response ready to publish: a body and, for a successful
// get, the header carrying the ephemeral key it was sealed with.
type Reply struct {
	Body    []byte
	Headers map[string]string
}

// HandleServerXKey answers a server_xkey request with the broker's
// long-lived curve public key, published as a raw ASCII nkey string.
func (h *Handler) HandleServerXKey() (Reply, error) {
	pub, err := h.identity.XKeyPublicKey()
	if err != nil {
		return Reply{}, fmt.Errorf("server_xkey: %w", err)
	}
	return Reply{Body: []byte(pub)}, nil
}

// HandleInvalidRequest answers an unrecognised operation or malformed
// subject tail with an unsealed InvalidRequest response.
func (h *Handler) HandleInvalidRequest() Reply {
	return h.errorReply(secretserr.InvalidRequest())
}

// HandleGet runs the full get pipeline against a sealed request
// payload and the caller's host xkey header. Every failure, including
// ones discovered after the envelope was opened, yields an unsealed
// error Reply — only a successful secret fetch is sealed.
func (h *Handler) HandleGet(ctx context.Context, payload []byte, hostXKeyHeader string) Reply {
	if len(payload) == 0 {
		return h.errorReply(secretserr.Other("missing payload"))
	}

	if hostXKeyHeader == "" {
		return h.errorReply(secretserr.Other("missing x-wasmcloud-hostxkey header"))
	}
	hostXKey, err := cryptobox.FromPublicKey(hostXKeyHeader)
	if err != nil {
		return h.errorReply(secretserr.InvalidXKey())
	}

	hostXKeyPublic, err := hostXKey.PublicKey()
	if err != nil {
		return h.errorReply(secretserr.InvalidXKey())
	}

	plaintext, err := cryptobox.Open(payload, h.identity.XKey(), hostXKeyPublic)
	if err != nil {
		return h.errorReply(secretserr.DecryptionError())
	}

	var req wire.Request
	if err := json.Unmarshal(plaintext, &req); err != nil {
		return h.errorReply(secretserr.Other("unable to deserialize the request"))
	}

	request, err := h.claims.Extract(req.Context.HostJWT, req.Context.EntityJWT)
	if err != nil {
		return h.errorReply(secretserr.InvalidEntityJWT(err.Error()))
	}

	pol, err := policy.Extract(req.Context.Application.Policy)
	if err != nil {
		return h.errorReply(secretserr.Other(err.Error()))
	}

	assertion, err := h.mintAssertion(req, request)
	if err != nil {
		return h.errorReply(secretserr.Other(err.Error()))
	}

	namespace := pol.Namespace
	if namespace == "" {
		namespace = h.cfg.DefaultNamespace
	}

	session, err := h.store.Authenticate(ctx, h.cfg.AuthMount, assertion, pol.RoleName, namespace)
	if err != nil {
		return h.errorReply(secretserr.UpstreamError(err.Error()))
	}

	ref, err := secretref.FromRequest(req)
	if err != nil {
		return h.errorReply(secretserr.Other(err.Error()))
	}

	mount := pol.SecretEnginePath
	if mount == "" {
		mount = h.cfg.DefaultSecretEngine
	}

	secret, err := h.store.Read(ctx, session, mount, ref.Path, ref.Version)
	if err != nil {
		return h.errorReply(secretserr.UpstreamError(err.Error()))
	}

	response := wire.Response{Secret: shapeSecret(secret, ref.Field)}

	return h.sealReply(response, hostXKeyPublic)
}

func (h *Handler) mintAssertion(req wire.Request, request capclaims.Request) (string, error) {
	claims := jwtminter.Claims{
		Audience:    h.cfg.Audience,
		Subject:     request.EntityID(),
		Application: req.Context.Application.Name,
		Host:        request.Host,
		Component:   request.Component,
		Provider:    request.Provider,
	}
	return h.minter.Mint(claims)
}

func shapeSecret(secret secretstore.Secret, field string) *wire.Secret {
	version := fmt.Sprintf("%d", secret.Metadata.Version)

	if field != "" {
		value, ok := secret.Data[field]
		if !ok {
			return &wire.Secret{Version: version}
		}
		return &wire.Secret{Version: version, StringSecret: &value}
	}

	encoded, err := json.Marshal(secret.Data)
	if err != nil {
		encoded = []byte("{}")
	}
	stringified := string(encoded)
	return &wire.Secret{Version: version, StringSecret: &stringified}
}

func (h *Handler) errorReply(err *secretserr.Error) Reply {
	body, marshalErr := json.Marshal(wire.FromError(err))
	if marshalErr != nil {
		h.log.WithError(marshalErr).Error("failed to marshal error response")
		return Reply{}
	}
	return Reply{Body: body}
}

func (h *Handler) sealReply(response wire.Response, recipientPublic string) Reply {
	encoded, err := json.Marshal(response)
	if err != nil {
		return h.errorReply(secretserr.Other("unable to encode secret response"))
	}

	ephemeral, err := cryptobox.GenerateEphemeral()
	if err != nil {
		return h.errorReply(secretserr.Other("unable to generate ephemeral xkey"))
	}

	sealed, err := cryptobox.Seal(encoded, ephemeral, recipientPublic)
	if err != nil {
		return h.errorReply(secretserr.Other("unable to encrypt secret response"))
	}

	ephemeralPublic, err := ephemeral.PublicKey()
	if err != nil {
		return h.errorReply(secretserr.Other("unable to encrypt secret response"))
	}

	return Reply{
		Body:    sealed,
		Headers: map[string]string{wire.ResponseXKeyHeader: ephemeralPublic},
	}
}
