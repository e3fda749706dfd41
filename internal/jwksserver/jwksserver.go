// Package jwksserver publishes the broker's signing public key as a
// JSON Web Key Set over HTTP, so that anything which receives a minted
// assertion (the upstream secret store, in practice) can fetch the key
// needed to validate it.
package jwksserver

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"net"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/wasmcloud-contrib/secrets-vault-broker/internal/jwkproj"
)

// WellKnownPath is the route the key set is served from.
const WellKnownPath = "/.well-known/keys"

// Server serves a single-key JWKS document over HTTP. Its lifetime is
// yoked to the broker process: it holds no state beyond the one key it
// was built with.
type Server struct {
	httpServer *http.Server
	addr       string
	log        *logrus.Entry
}

// New builds a Server that publishes pub under keyID at addr.
func New(addr string, pub ed25519.PublicKey, keyID string, log *logrus.Entry) (*Server, error) {
	set, err := jwkproj.ProjectSet(pub, keyID)
	if err != nil {
		return nil, fmt.Errorf("project signing key: %w", err)
	}

	body, err := json.Marshal(set)
	if err != nil {
		return nil, fmt.Errorf("marshal jwks document: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc(WellKnownPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	})

	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	return &Server{
		httpServer: &http.Server{Addr: addr, Handler: mux},
		addr:       addr,
		log:        log,
	}, nil
}

// Start begins serving in the background. It returns once the listener
// is bound; HTTP errors other than a clean shutdown are logged.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}

	go func() {
		s.log.WithField("addr", s.addr).Info("jwks server listening")
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.WithError(err).Error("jwks server stopped unexpectedly")
		}
	}()

	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
