package broker

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"github.com/wasmcloud-contrib/secrets-vault-broker/internal/identity"
	"github.com/wasmcloud-contrib/secrets-vault-broker/internal/jwksserver"
	"github.com/wasmcloud-contrib/secrets-vault-broker/internal/subject"
	"github.com/wasmcloud-contrib/secrets-vault-broker/internal/wire"
)

// Broker wires the bus subscription, the JWKS server, and the request
// handler together for the lifetime of the process.
type Broker struct {
	nc       *nats.Conn
	identity *identity.Identity
	mapper   *subject.Mapper
	handler  *Handler
	jwksAddr string
	log      *logrus.Entry
}

// New builds a Broker. The nats connection, identity, subject mapper
// and handler are expected to already be wired by the caller (see
// internal/config.Provider).
func New(nc *nats.Conn, id *identity.Identity, mapper *subject.Mapper, handler *Handler, jwksAddr string, log *logrus.Entry) *Broker {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Broker{nc: nc, identity: id, mapper: mapper, handler: handler, jwksAddr: jwksAddr, log: log}
}

// Serve performs the startup sequence of §4.10: publish the broker's
// signing key via JWKS, subscribe to the wildcard subject under queue
// group semantics, and dispatch every message to the Handler until ctx
// is cancelled.
func (b *Broker) Serve(ctx context.Context) error {
	pub, err := b.identity.SigningEd25519PublicKey()
	if err != nil {
		return fmt.Errorf("derive signing public key: %w", err)
	}
	kid, err := b.identity.SigningPublicKey()
	if err != nil {
		return fmt.Errorf("derive signing key id: %w", err)
	}

	jwks, err := jwksserver.New(b.jwksAddr, pub, kid, b.log.WithField("component", "jwks"))
	if err != nil {
		return fmt.Errorf("build jwks server: %w", err)
	}
	if err := jwks.Start(); err != nil {
		return fmt.Errorf("start jwks server: %w", err)
	}
	defer func() {
		_ = jwks.Stop(context.Background())
	}()

	wildcard := b.mapper.SecretsWildcardSubject()
	queueGroup := b.mapper.QueueGroupName()

	b.log.WithFields(logrus.Fields{
		"subject": wildcard,
		"queue":   queueGroup,
	}).Info("subscribing to secrets requests")

	sub, err := b.nc.QueueSubscribe(wildcard, queueGroup, func(msg *nats.Msg) {
		go b.dispatch(ctx, msg)
	})
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", wildcard, err)
	}
	defer func() {
		_ = sub.Unsubscribe()
	}()

	<-ctx.Done()
	return ctx.Err()
}

// dispatch handles a single message: parse its operation from the
// subject, route it, and publish whatever reply the handler produces.
// A message with no reply subject is dropped per §4.9.
func (b *Broker) dispatch(ctx context.Context, msg *nats.Msg) {
	reqID := uuid.NewString()
	log := b.log.WithFields(logrus.Fields{"request_id": reqID, "subject": msg.Subject})

	if msg.Reply == "" {
		log.Debug("dropping message with no reply subject")
		return
	}

	op, err := parseOperation(msg.Subject, b.mapper.SecretsSubject())
	if err != nil {
		log.WithField("operation", "invalid").Warn("replied")
		b.publish(log, msg.Reply, b.handler.HandleInvalidRequest())
		return
	}
	log = log.WithField("operation", string(op))

	switch op {
	case OpServerXKey:
		reply, err := b.handler.HandleServerXKey()
		if err != nil {
			log.WithError(err).Error("server_xkey handler failed, dropping")
			return
		}
		log.Info("replied")
		b.publish(log, msg.Reply, reply)
	case OpGet:
		var hostXKeyHeader string
		if msg.Header != nil {
			hostXKeyHeader = msg.Header.Get(wire.HostXKeyHeader)
		}
		reply := b.handler.HandleGet(ctx, msg.Data, hostXKeyHeader)
		log.Info("replied")
		b.publish(log, msg.Reply, reply)
	}
}

// publish is best-effort: a failed publish is logged but never
// retried, per §7.
func (b *Broker) publish(log *logrus.Entry, replyTo string, reply Reply) {
	msg := &nats.Msg{Subject: replyTo, Data: reply.Body}
	if len(reply.Headers) > 0 {
		msg.Header = nats.Header{}
		for k, v := range reply.Headers {
			msg.Header.Set(k, v)
		}
	}
	if err := b.nc.PublishMsg(msg); err != nil {
		log.WithError(err).WithField("subject", replyTo).Warn("failed to publish reply")
	}
}
