package config

import (
	"fmt"

	"github.com/nats-io/nkeys"
)

// bussignerFromSeed builds the signing callback nats.UserJWT needs to
// prove control of the bus-level nkey identity, mirroring the seed
// based callback the original broker registered when connecting with
// a user JWT.
func bussignerFromSeed(seed string) (func([]byte) ([]byte, error), error) {
	kp, err := nkeys.FromSeed([]byte(seed))
	if err != nil {
		return nil, fmt.Errorf("parse bus auth seed: %w", err)
	}
	return func(nonce []byte) ([]byte, error) {
		return kp.Sign(nonce)
	}, nil
}
